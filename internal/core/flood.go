package core

import "time"

// floodWindow is a sliding-window rate limiter over chat message
// timestamps, independent per session and reset implicitly by eviction.
type floodWindow struct {
	span   time.Duration
	burst  int
	stamps []time.Time
}

func newFloodWindow(span time.Duration, burst int) *floodWindow {
	return &floodWindow{span: span, burst: burst}
}

// allow evicts stamps older than the window span, then either records now
// and accepts, or rejects with the cooldown remaining until the oldest
// stamp expires.
func (f *floodWindow) allow(now time.Time) (time.Duration, bool) {
	for len(f.stamps) > 0 && now.Sub(f.stamps[0]) > f.span {
		f.stamps = f.stamps[1:]
	}
	if len(f.stamps) >= f.burst {
		return f.span - now.Sub(f.stamps[0]), false
	}
	f.stamps = append(f.stamps, now)
	return 0, true
}
