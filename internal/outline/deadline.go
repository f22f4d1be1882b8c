package outline

import "time"

// Deadline marks the instant extraction must stop by. It is created
// once per document, passed into every tier, and never extended. The
// zero value is already expired.
type Deadline struct {
	at time.Time
}

// NewDeadline starts a deadline of budget from now.
func NewDeadline(budget time.Duration) Deadline {
	return Deadline{at: time.Now().Add(budget)}
}

// Remaining returns the time left. Negative once the deadline passed.
func (d Deadline) Remaining() time.Duration {
	return time.Until(d.at)
}

// Expired reports whether the deadline has passed.
func (d Deadline) Expired() bool {
	return !time.Now().Before(d.at)
}
