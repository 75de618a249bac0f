package game

import "time"

// Ticker is a cancellable periodic task handle.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock starts tickers. Tests substitute a fake to drive ticks by hand.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// RealClock is a Clock backed by time.Ticker.
type RealClock struct{}

// NewTicker starts a time.Ticker firing every d.
func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r realTicker) Stop() {
	r.t.Stop()
}
