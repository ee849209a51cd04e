package services

import "time"

// Clock supplies the current time. Every time-dependent decision in the
// orchestrator reads from a Clock instead of time.Now so tests can simulate
// elapsed time without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock is the wall-clock implementation used in production wiring
var SystemClock Clock = systemClock{}
