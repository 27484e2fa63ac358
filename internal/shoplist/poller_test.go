package shoplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoller_StartIsIdempotent(t *testing.T) {
	p := NewPoller(0)
	assert.Equal(t, DefaultPollInterval, p.Interval())

	gen, started := p.Start()
	assert.True(t, started)
	again, started := p.Start()
	assert.False(t, started)
	assert.Equal(t, gen, again)
	assert.True(t, p.Due(gen))
}

func TestPoller_StopInvalidatesTicks(t *testing.T) {
	p := NewPoller(DefaultPollInterval)
	gen, _ := p.Start()
	p.Stop()
	assert.False(t, p.Running())
	assert.False(t, p.Due(gen))

	next, started := p.Start()
	assert.True(t, started)
	assert.NotEqual(t, gen, next)
	assert.False(t, p.Due(gen), "ticks from the paused run stay stale")
	assert.True(t, p.Due(next))
}

func TestPoller_StopWhenIdle(t *testing.T) {
	p := NewPoller(DefaultPollInterval)
	p.Stop()
	gen, started := p.Start()
	assert.True(t, started)
	assert.Equal(t, uint64(1), gen)
}
