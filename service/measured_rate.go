package service

import (
	"sync"
	"time"
)

const rateBuckets = 60

type rateBucket struct {
	second int64
	count  uint64
}

// MeasuredRate counts events over a sliding one-minute window of one-second buckets.
// Seconds are measured from start so the window follows the monotonic clock.
type MeasuredRate struct {
	mu      sync.Mutex
	start   time.Time
	buckets [rateBuckets]rateBucket
}

// NewMeasuredRate creates an empty window starting at start.
func NewMeasuredRate(start time.Time) *MeasuredRate {
	m := &MeasuredRate{start: start}
	for i := range m.buckets {
		m.buckets[i].second = -1
	}
	return m
}

func (m *MeasuredRate) secondOf(now time.Time) int64 {
	elapsed := now.Sub(m.start)
	if elapsed < 0 {
		return 0
	}
	return int64(elapsed / time.Second)
}

// Increment counts one event at now.
func (m *MeasuredRate) Increment(now time.Time) {
	sec := m.secondOf(now)
	m.mu.Lock()
	defer m.mu.Unlock()

	b := &m.buckets[sec%rateBuckets]
	if b.second != sec {
		b.second = sec
		b.count = 0
	}
	b.count++
}

// PerMinute returns the number of events in the last minute. During the first minute
// after start the partial count is extrapolated to a full minute (elapsed time is
// floored at one second).
func (m *MeasuredRate) PerMinute(now time.Time) float64 {
	sec := m.secondOf(now)
	m.mu.Lock()
	var total uint64
	for _, b := range m.buckets {
		if b.second >= 0 && b.second <= sec && b.second > sec-rateBuckets {
			total += b.count
		}
	}
	m.mu.Unlock()

	elapsed := now.Sub(m.start)
	if elapsed >= time.Minute {
		return float64(total)
	}
	if elapsed < time.Second {
		elapsed = time.Second
	}
	return float64(total) * time.Minute.Seconds() / elapsed.Seconds()
}
