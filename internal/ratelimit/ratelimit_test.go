package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowPerKey(t *testing.T) {
	krl := New(0.001, 2, time.Minute)
	defer krl.Stop()

	assert.True(t, krl.Allow("a"))
	assert.True(t, krl.Allow("a"))
	assert.False(t, krl.Allow("a"))

	assert.True(t, krl.Allow("b"))
}

func TestSweepDropsIdleKeys(t *testing.T) {
	krl := New(1, 1, time.Minute)
	defer krl.Stop()

	now := time.Now()
	krl.now = func() time.Time { return now }
	krl.Allow("old")

	now = now.Add(2 * time.Minute)
	krl.Allow("fresh")
	krl.sweep()

	assert.Equal(t, 1, krl.Len())
}

func TestStopIsIdempotent(t *testing.T) {
	krl := New(1, 1, time.Minute)
	krl.Stop()
	krl.Stop()
}
