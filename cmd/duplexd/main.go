package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/duplexchat/duplexd/internal/app"
	"github.com/duplexchat/duplexd/internal/config"
	"github.com/duplexchat/duplexd/internal/log"
)

func main() {
	var (
		configPath string
		httpAddr   string
		ircAddr    string
		dbPath     string
		logLevel   string
	)

	root := &cobra.Command{
		Use:          "duplexd",
		Short:        "Dual-protocol (WebSocket + IRC-style) chat server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.New(logLevel)

			cfg, path, err := config.Load(logger, configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Debug().Str("path", path).Msg("config loaded")

			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if ircAddr != "" {
				cfg.IRCAddr = ircAddr
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger = log.New(cfg.LogLevel)

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().
				Str("http_addr", cfg.HTTPAddr).
				Str("irc_addr", cfg.IRCAddr).
				Msg("starting duplexd")
			return application.Run(ctx)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to config.yaml")
	root.Flags().StringVar(&httpAddr, "http-addr", "", "WebSocket/HTTP listen address")
	root.Flags().StringVar(&ircAddr, "irc-addr", "", "IRC-style TCP listen address")
	root.Flags().StringVar(&dbPath, "db", "", "path to the sqlite message log")
	root.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
