package shoplist

import "time"

// DefaultPollInterval is how often the list is refreshed while visible.
const DefaultPollInterval = 5 * time.Second

// Poller is a pause/resume schedule for a cooperative event loop. Every
// Start opens a new generation; ticks scheduled under an older one are
// stale and must be dropped, which is how Stop takes effect without
// cancelling timers already in flight.
type Poller struct {
	interval time.Duration
	running  bool
	gen      uint64
}

func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval}
}

func (p *Poller) Interval() time.Duration { return p.interval }

func (p *Poller) Running() bool { return p.running }

// Start begins a new run. It returns false, and changes nothing, when a
// run is already active.
func (p *Poller) Start() (uint64, bool) {
	if p.running {
		return p.gen, false
	}
	p.gen++
	p.running = true
	return p.gen, true
}

// Stop ends the current run.
func (p *Poller) Stop() {
	if !p.running {
		return
	}
	p.running = false
	p.gen++
}

// Due reports whether a tick from generation gen should fire a refresh.
func (p *Poller) Due(gen uint64) bool {
	return p.running && gen == p.gen
}
