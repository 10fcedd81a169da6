package core_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/duplexchat/duplexd/internal/core"
	"github.com/duplexchat/duplexd/internal/irc"
	"github.com/duplexchat/duplexd/internal/proto"
)

const recvTimeout = 2 * time.Second

// memStore is an in-memory stand-in for the sqlite message log.
type memStore struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func newMemStore() *memStore {
	return &memStore{msgs: make(map[string][]string)}
}

func (m *memStore) AppendMessage(_ context.Context, channel, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs[channel] = append(m.msgs[channel], text)
	return nil
}

func (m *memStore) RecentMessages(_ context.Context, channel string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.msgs[channel]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]string(nil), all...), nil
}

func (m *memStore) Close() error { return nil }

func defaultCodecs() map[core.Proto]core.Codec {
	return map[core.Proto]core.Codec{
		core.ProtoFramed: proto.Codec{},
		core.ProtoLine:   irc.Codec{},
	}
}

func startHub(t *testing.T, codecs map[core.Proto]core.Codec) (*core.Hub, *memStore) {
	t.Helper()

	st := newMemStore()
	logger := zerolog.Nop()
	hub := core.NewHub(core.DefaultLimits(), st, codecs, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub, st
}

func connect(t *testing.T, hub *core.Hub, p core.Proto) *core.Session {
	t.Helper()

	s := core.NewSession(p)
	hub.Register(s)
	return s
}

func recvRaw(t *testing.T, s *core.Session) []byte {
	t.Helper()

	select {
	case buf, ok := <-s.Outgoing:
		if !ok {
			t.Fatal("outgoing queue closed")
		}
		return buf
	case <-time.After(recvTimeout):
		t.Fatal("timed out waiting for outbound data")
	}
	return nil
}

func recvFrame(t *testing.T, s *core.Session) map[string]any {
	t.Helper()

	var frame map[string]any
	if err := json.Unmarshal(recvRaw(t, s), &frame); err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	return frame
}

// waitFrame discards frames until one carrying key arrives.
func waitFrame(t *testing.T, s *core.Session, key string) map[string]any {
	t.Helper()

	deadline := time.Now().Add(recvTimeout)
	for time.Now().Before(deadline) {
		frame := recvFrame(t, s)
		if _, ok := frame[key]; ok {
			return frame
		}
	}
	t.Fatalf("no frame with key %q received", key)
	return nil
}

// expectNoFrame asserts that no frame carrying key arrives within wait.
func expectNoFrame(t *testing.T, s *core.Session, key string, wait time.Duration) {
	t.Helper()

	deadline := time.After(wait)
	for {
		select {
		case buf, ok := <-s.Outgoing:
			if !ok {
				return
			}
			var frame map[string]any
			if err := json.Unmarshal(buf, &frame); err != nil {
				t.Fatalf("bad frame: %v", err)
			}
			if _, present := frame[key]; present {
				t.Fatalf("unexpected frame with key %q: %v", key, frame)
			}
		case <-deadline:
			return
		}
	}
}

// lineQueue splits multi-line buffers from a line-protocol session.
type lineQueue struct {
	s       *core.Session
	pending []string
}

func (q *lineQueue) next(t *testing.T) string {
	t.Helper()

	for len(q.pending) == 0 {
		raw := recvRaw(t, q.s)
		for _, l := range strings.Split(strings.TrimRight(string(raw), "\n"), "\n") {
			if l != "" {
				q.pending = append(q.pending, l)
			}
		}
	}
	line := q.pending[0]
	q.pending = q.pending[1:]
	return line
}

// waitLine discards lines until one containing substr arrives.
func (q *lineQueue) waitLine(t *testing.T, substr string) string {
	t.Helper()

	deadline := time.Now().Add(recvTimeout)
	for time.Now().Before(deadline) {
		line := q.next(t)
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("no line containing %q received", substr)
	return ""
}

func setNick(t *testing.T, hub *core.Hub, s *core.Session, nick string) {
	t.Helper()
	hub.Submit(s, &core.Command{Kind: core.CommandSetNick, Nick: nick})
}

func join(t *testing.T, hub *core.Hub, s *core.Session, channel string) {
	t.Helper()
	hub.Submit(s, &core.Command{Kind: core.CommandJoinChannel, Channel: channel})
}

func sendMsg(t *testing.T, hub *core.Hub, s *core.Session, channel, text string) {
	t.Helper()
	hub.Submit(s, &core.Command{Kind: core.CommandSendMessage, Channel: channel, Text: text})
}
