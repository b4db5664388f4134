package service

import (
	"testing"
	"time"

	"myregistry/helpers"

	"github.com/stretchr/testify/assert"
)

func TestMeasuredRate(t *testing.T) {
	start := helpers.TestNow()

	t.Run("empty", func(t *testing.T) {
		m := NewMeasuredRate(start)
		assert.Zero(t, m.PerMinute(start))
		assert.Zero(t, m.PerMinute(start.Add(5*time.Minute)))
	})

	t.Run("extrapolates during the first minute", func(t *testing.T) {
		m := NewMeasuredRate(start)
		for i := 0; i < 10; i++ {
			m.Increment(start.Add(time.Duration(i) * time.Second))
		}
		assert.InDelta(t, 60.0, m.PerMinute(start.Add(10*time.Second)), 1e-9)
		// Elapsed below one second counts as one second.
		m2 := NewMeasuredRate(start)
		m2.Increment(start)
		assert.InDelta(t, 60.0, m2.PerMinute(start.Add(100*time.Millisecond)), 1e-9)
	})

	t.Run("sliding window drops old buckets", func(t *testing.T) {
		m := NewMeasuredRate(start)
		for i := 0; i < 120; i++ {
			m.Increment(start.Add(time.Duration(i) * time.Second))
		}
		assert.Equal(t, 60.0, m.PerMinute(start.Add(119*time.Second)))
		assert.Equal(t, 30.0, m.PerMinute(start.Add(149*time.Second)))
		assert.Zero(t, m.PerMinute(start.Add(10*time.Minute)))
	})

	t.Run("reused bucket is reset", func(t *testing.T) {
		m := NewMeasuredRate(start)
		m.Increment(start.Add(5 * time.Second))
		m.Increment(start.Add(65 * time.Second))
		assert.Equal(t, 1.0, m.PerMinute(start.Add(70*time.Second)))
	})
}
