package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayGrowsExponentially(t *testing.T) {
	b := Backoff{Initial: 10 * time.Second, Max: 120 * time.Second, Multiplier: 2.0}

	assert.Equal(t, 10*time.Second, b.Delay(0))
	assert.Equal(t, 20*time.Second, b.Delay(1))
	assert.Equal(t, 40*time.Second, b.Delay(2))
}

func TestDelayCapped(t *testing.T) {
	b := Backoff{Initial: 10 * time.Second, Max: 120 * time.Second, Multiplier: 2.0}

	assert.Equal(t, 120*time.Second, b.Delay(10))
}

func TestDelayJitterBounded(t *testing.T) {
	b := DefaultBackoff()
	for i := 0; i < 50; i++ {
		d := b.Delay(0)
		assert.GreaterOrEqual(t, d, 8*time.Second)
		assert.LessOrEqual(t, d, 12*time.Second)
	}
}

func TestDelayZeroValueUsesDefaults(t *testing.T) {
	var b Backoff
	d := b.Delay(0)
	assert.Greater(t, d, time.Duration(0))
	assert.LessOrEqual(t, d, 13*time.Second)
}

func TestJittered(t *testing.T) {
	base := 30 * time.Second
	for i := 0; i < 50; i++ {
		d := Jittered(base, 0.2)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, 36*time.Second)
	}

	assert.Equal(t, base, Jittered(base, 0))
}
