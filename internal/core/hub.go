package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/duplexchat/duplexd/internal/store"
)

// Limits bounds user input and flood control for the hub.
type Limits struct {
	MaxNickLen  int
	MaxMsgLen   int
	ReplayCount int
	FloodWindow time.Duration
	FloodBurst  int
}

// DefaultLimits mirrors the configuration defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxNickLen:  10,
		MaxMsgLen:   100,
		ReplayCount: 200,
		FloodWindow: 10 * time.Second,
		FloodBurst:  3,
	}
}

// Stats is a point-in-time snapshot of hub state.
type Stats struct {
	Sessions int `json:"sessions"`
	Channels int `json:"channels"`
}

type sessionCommand struct {
	session *Session
	command *Command
}

// Hub owns all sessions, users and channels. A single Run goroutine applies
// every mutation, so commands from one session take effect in issuance
// order and no locks guard the registries.
type Hub struct {
	limits Limits
	store  store.MessageStore
	codecs map[Proto]Codec
	log    *zerolog.Logger

	register   chan *Session
	unregister chan *Session
	commands   chan sessionCommand
	stats      chan chan Stats
	done       chan struct{}

	ctx      context.Context
	sessions map[*Session]struct{}
	channels map[string]*Channel
}

// NewHub constructs a hub with one codec per protocol kind.
func NewHub(limits Limits, st store.MessageStore, codecs map[Proto]Codec, logger *zerolog.Logger) *Hub {
	return &Hub{
		limits:     limits,
		store:      st,
		codecs:     codecs,
		log:        logger,
		register:   make(chan *Session),
		unregister: make(chan *Session),
		commands:   make(chan sessionCommand),
		stats:      make(chan chan Stats),
		done:       make(chan struct{}),
		sessions:   make(map[*Session]struct{}),
		channels:   make(map[string]*Channel),
	}
}

// Run processes hub requests until the context is cancelled. It must be
// running before any session is registered.
func (h *Hub) Run(ctx context.Context) {
	h.ctx = ctx
	defer close(h.done)

	for {
		select {
		case s := <-h.register:
			s.flood = newFloodWindow(h.limits.FloodWindow, h.limits.FloodBurst)
			h.sessions[s] = struct{}{}
		case s := <-h.unregister:
			h.closeSession(s)
		case sc := <-h.commands:
			h.dispatch(sc.session, sc.command)
		case out := <-h.stats:
			out <- Stats{Sessions: len(h.sessions), Channels: len(h.channels)}
		case <-ctx.Done():
			for s := range h.sessions {
				h.closeSession(s)
			}
			return
		}
	}
}

// Register hands a new session to the hub scheduler.
func (h *Hub) Register(s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
	}
}

// Unregister tears the session down: every joined channel receives a
// closing part and the outbound queue is closed.
func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Submit queues one decoded command from a session.
func (h *Hub) Submit(s *Session, cmd *Command) {
	select {
	case h.commands <- sessionCommand{session: s, command: cmd}:
	case <-h.done:
	}
}

// Stats reports current session and channel counts.
func (h *Hub) Stats() Stats {
	out := make(chan Stats, 1)
	select {
	case h.stats <- out:
		return <-out
	case <-h.done:
		return Stats{}
	}
}

func (h *Hub) dispatch(s *Session, cmd *Command) {
	if s.closed {
		return
	}
	switch cmd.Kind {
	case CommandSetNick:
		h.handleSetNick(s, cmd.Nick)
	case CommandSendMessage:
		h.handleSendMessage(s, cmd.Channel, cmd.Text)
	case CommandJoinChannel:
		h.handleJoin(s, cmd.Channel)
	case CommandPartChannel:
		h.handlePart(s, cmd.Channel)
	case CommandDisconnect:
		h.closeSession(s)
	}
}

func (h *Hub) handleSetNick(s *Session, requested string) {
	nick := strings.TrimSpace(requested)
	if nick == "" {
		nick = h.newNick()
	}
	switch {
	case !validNick(nick):
		h.sendError(s, errInvalidNick(nick))
		return
	case h.nickTaken(nick):
		h.sendError(s, errNickInUse(nick))
		return
	case len(nick) > h.limits.MaxNickLen:
		h.sendError(s, errNickTooLong(nick, h.limits.MaxNickLen))
		return
	}

	if s.user != nil {
		old := s.user.Nick
		s.user.Nick = nick
		h.broadcastUsers(s.user.sharedWith(), &Event{Kind: EventNickChanged, OldNick: old, NewNick: nick})
		h.push(s, h.codecs[s.Proto].EncodeNickAck(nick))
		return
	}

	s.user = newUser(nick, s)
	h.push(s, h.codecs[s.Proto].EncodeWelcome(nick))
}

func (h *Hub) handleSendMessage(s *Session, chanName, text string) {
	if s.user == nil {
		h.sendError(s, errNotRegistered("PRIVMSG"))
		return
	}
	text = strings.TrimSpace(text)
	chanName = strings.TrimSpace(chanName)
	switch {
	case text == "":
		h.sendError(s, errEmptyMessage())
		return
	case len(text) > h.limits.MaxMsgLen:
		h.sendError(s, errMessageTooLong(h.limits.MaxMsgLen))
		return
	case chanName == "":
		h.sendError(s, errNoChannel())
		return
	}
	ch := h.channels[strings.ToLower(chanName)]
	if ch == nil || !ch.has(s.user) {
		h.sendError(s, errNotInChannel(chanName, "PRIVMSG"))
		return
	}
	if wait, ok := s.flood.allow(time.Now()); !ok {
		h.sendError(s, errFloodBlocked(wait))
		return
	}

	rendered := s.user.Nick + ": " + text

	// Line clients echo their own PRIVMSG locally.
	var exclude *Session
	if s.Proto == ProtoLine {
		exclude = s
	}
	h.broadcast(ch, &Event{Kind: EventChatMessage, Channel: ch.Name, Text: rendered}, exclude)

	if err := h.store.AppendMessage(h.ctx, ch.Name, rendered); err != nil {
		h.log.Error().Err(err).Str("channel", ch.Name).Msg("append message")
	}
}

func (h *Hub) handleJoin(s *Session, chanName string) {
	if s.user == nil {
		h.sendError(s, errNotRegistered("JOIN"))
		return
	}
	chanName = strings.TrimSpace(chanName)
	if !validChannelName(chanName) {
		h.sendError(s, errInvalidChannel(chanName, "JOIN"))
		return
	}
	key := strings.ToLower(chanName)
	ch := h.channels[key]
	if ch != nil && ch.has(s.user) {
		h.sendError(s, errAlreadyJoined(chanName))
		return
	}
	if ch == nil {
		ch = newChannel(chanName)
	}

	// Replay history before membership exists, so the joiner never sees
	// its own join broadcast as a message.
	texts, err := h.store.RecentMessages(h.ctx, ch.Name, h.limits.ReplayCount)
	if err != nil {
		h.log.Error().Err(err).Str("channel", ch.Name).Msg("recent messages")
		texts = nil
	}
	h.push(s, h.codecs[s.Proto].EncodeHistory(ch.Name, texts))

	ch.add(s.user)
	h.channels[key] = ch
	h.broadcast(ch, &Event{Kind: EventJoined, Channel: ch.Name, Nick: s.user.Nick}, nil)
	h.broadcast(ch, &Event{Kind: EventNames, Channel: ch.Name, Nicks: ch.Nicks()}, nil)
}

func (h *Hub) handlePart(s *Session, chanName string) {
	if s.user == nil {
		h.sendError(s, errNotRegistered("PART"))
		return
	}
	chanName = strings.TrimSpace(chanName)
	if !validChannelName(chanName) {
		h.sendError(s, errInvalidChannel(chanName, "PART"))
		return
	}
	ch := h.channels[strings.ToLower(chanName)]
	if ch == nil || !ch.has(s.user) {
		h.sendError(s, errNotInChannel(chanName, "PART"))
		return
	}
	h.part(ch, s.user, false)
}

// part removes u from ch. With closing set the membership is dropped before
// the Parted broadcast, so a disconnecting session gets no further traffic;
// an explicit part still echoes Parted to the departing member.
func (h *Hub) part(ch *Channel, u *User, closing bool) {
	if closing {
		ch.remove(u)
	}
	h.broadcast(ch, &Event{Kind: EventParted, Channel: ch.Name, Nick: u.Nick}, nil)
	if !closing {
		ch.remove(u)
	}
	h.broadcast(ch, &Event{Kind: EventNames, Channel: ch.Name, Nicks: ch.Nicks()}, nil)
	if ch.empty() {
		delete(h.channels, strings.ToLower(ch.Name))
	}
}

func (h *Hub) closeSession(s *Session) {
	if s.closed {
		return
	}
	s.closed = true
	if s.user != nil {
		for ch := range s.user.Channels {
			h.part(ch, s.user, true)
		}
	}
	delete(h.sessions, s)
	close(s.Outgoing)
}

// broadcast fans ev out to every member session except exclude. Encoded
// bytes are cached per protocol kind for the duration of this one call, so
// R recipients over P protocol kinds cost at most P encodes.
func (h *Hub) broadcast(ch *Channel, ev *Event, exclude *Session) {
	cache := make(map[Proto][]byte, len(h.codecs))
	for u := range ch.members {
		h.deliver(u, ev, cache, exclude)
	}
}

// broadcastUsers fans ev out to an arbitrary recipient set, such as the
// union of users sharing a channel with a renamed user.
func (h *Hub) broadcastUsers(users map[*User]struct{}, ev *Event) {
	cache := make(map[Proto][]byte, len(h.codecs))
	for u := range users {
		h.deliver(u, ev, cache, nil)
	}
}

func (h *Hub) deliver(u *User, ev *Event, cache map[Proto][]byte, exclude *Session) {
	s := u.Session
	if s == exclude {
		return
	}
	buf, ok := cache[s.Proto]
	if !ok {
		b, cacheable := h.codecs[s.Proto].EncodeEvent(ev, u.Nick)
		buf = b
		if cacheable {
			cache[s.Proto] = b
		}
	}
	h.push(s, buf)
}

// push queues buf without blocking the scheduler. A slow consumer loses the
// frame rather than stalling every other session.
func (h *Hub) push(s *Session, buf []byte) {
	if buf == nil || s.closed {
		return
	}
	select {
	case s.Outgoing <- buf:
	default:
		h.log.Warn().Str("session_id", s.ID).Msg("outgoing queue full, dropping frame")
	}
}

func (h *Hub) sendError(s *Session, cerr *CoreError) {
	h.push(s, h.codecs[s.Proto].EncodeError(cerr, s.Nick()))
}

func (h *Hub) nickTaken(nick string) bool {
	for s := range h.sessions {
		if s.user != nil && strings.EqualFold(s.user.Nick, nick) {
			return true
		}
	}
	return false
}

func (h *Hub) newNick() string {
	for {
		nick := fmt.Sprintf("User-%d", rand.IntN(10000))
		if !h.nickTaken(nick) {
			return nick
		}
	}
}

func validNick(nick string) bool {
	return nick != "" && !strings.ContainsAny(nick, " :")
}

func validChannelName(name string) bool {
	return len(name) >= 2 && strings.HasPrefix(name, "#")
}
