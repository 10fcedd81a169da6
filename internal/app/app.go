// Package app wires configuration, storage, the hub and both listeners.
package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/duplexchat/duplexd/internal/config"
	"github.com/duplexchat/duplexd/internal/core"
	"github.com/duplexchat/duplexd/internal/irc"
	"github.com/duplexchat/duplexd/internal/proto"
	"github.com/duplexchat/duplexd/internal/store"
	"github.com/duplexchat/duplexd/internal/store/sqlite"
	transporthttp "github.com/duplexchat/duplexd/internal/transport/http"
	transportirc "github.com/duplexchat/duplexd/internal/transport/irc"
)

// App wires together core and transport layers.
type App struct {
	httpServer      *stdhttp.Server
	ircServer       *transportirc.Server
	hub             *core.Hub
	store           store.MessageStore
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DBPath).Msg("message log initialized")

	limits := core.Limits{
		MaxNickLen:  cfg.MaxNickLen,
		MaxMsgLen:   cfg.MaxMsgLen,
		ReplayCount: cfg.ReplayCount,
		FloodWindow: cfg.FloodWindow,
		FloodBurst:  cfg.FloodBurst,
	}
	codecs := map[core.Proto]core.Codec{
		core.ProtoFramed: proto.Codec{},
		core.ProtoLine:   irc.Codec{},
	}
	hub := core.NewHub(limits, st, codecs, logger)

	return &App{
		httpServer:      transporthttp.NewServer(hub, cfg, logger),
		ircServer:       transportirc.NewServer(cfg.IRCAddr, hub, logger),
		hub:             hub,
		store:           st,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}, nil
}

// Run starts the hub and both listeners and blocks until context
// cancellation or a fatal listener error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 2)

	go a.hub.Run(ctx)

	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	go func() {
		serverErr <- a.ircServer.Start()
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down listeners")
		err := a.httpServer.Shutdown(shutdownCtx)
		a.cleanup()
		return err
	}
}

// cleanup stops the IRC listener and closes the store.
func (a *App) cleanup() {
	a.ircServer.Stop()
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close store")
	} else {
		a.log.Info().Msg("store closed")
	}
}
