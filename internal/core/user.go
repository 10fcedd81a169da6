package core

// User is a registered chat identity bound to exactly one session. It is
// created lazily on the first successful nickname assignment and destroyed
// with its session.
type User struct {
	Nick     string
	Session  *Session
	Channels map[*Channel]struct{}
}

func newUser(nick string, s *Session) *User {
	return &User{
		Nick:     nick,
		Session:  s,
		Channels: make(map[*Channel]struct{}),
	}
}

// sharedWith returns every user that shares at least one channel with u,
// including u itself, each at most once.
func (u *User) sharedWith() map[*User]struct{} {
	seen := make(map[*User]struct{})
	for ch := range u.Channels {
		for m := range ch.members {
			seen[m] = struct{}{}
		}
	}
	return seen
}
