package core

// Channel is a named group of member users. The hub keeps membership
// symmetric with User.Channels and drops the channel from its registry when
// the member set empties.
type Channel struct {
	Name    string
	members map[*User]struct{}
}

func newChannel(name string) *Channel {
	return &Channel{
		Name:    name,
		members: make(map[*User]struct{}),
	}
}

func (c *Channel) add(u *User) {
	c.members[u] = struct{}{}
	u.Channels[c] = struct{}{}
}

func (c *Channel) remove(u *User) {
	delete(c.members, u)
	delete(u.Channels, c)
}

func (c *Channel) has(u *User) bool {
	_, ok := c.members[u]
	return ok
}

func (c *Channel) empty() bool { return len(c.members) == 0 }

// Nicks returns the member nicknames in unspecified order.
func (c *Channel) Nicks() []string {
	nicks := make([]string, 0, len(c.members))
	for u := range c.members {
		nicks = append(nicks, u.Nick)
	}
	return nicks
}
