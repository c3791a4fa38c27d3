package study

import "time"

// Clock supplies the authoritative review timestamp. The engine is pure and
// takes time as a parameter; the service sources it from here and never from
// client input, so learners cannot forge timestamps to manipulate scheduling.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns a Clock reading the server's UTC time.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
