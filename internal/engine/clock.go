package engine

import "time"

// Clock abstracts wall-clock time. All timer math derives from Now() and
// stored anchors, never from tick counts, so a missed tick (suspension,
// backgrounding) self-corrects on the next call.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
