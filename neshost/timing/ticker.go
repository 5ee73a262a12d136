package timing

import "time"

// TickerLimiter paces frames with a time.Ticker. Ticks missed while a frame
// overruns are dropped by the ticker, so a slow frame never causes a burst.
type TickerLimiter struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewTickerLimiter ticks every interval, or at the NES frame rate when interval is zero.
func NewTickerLimiter(interval time.Duration) *TickerLimiter {
	if interval <= 0 {
		interval = FrameDuration()
	}
	return &TickerLimiter{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.interval)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
