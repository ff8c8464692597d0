package game

import "time"

// PeriodicTickerChannelCreator abstracts time.Ticker so tests can drive the
// lobby's tick fan-out manually.
type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

type ticker struct{}

func NewTickerGen() ticker {
	return ticker{}
}

func (t ticker) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}

// Clock supplies the current time for event-driven scheduling. Tick-driven
// logic uses the tick's own timestamp instead.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() systemClock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
