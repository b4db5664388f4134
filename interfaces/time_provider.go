package interfaces

import "time"

// TimeProvider supplies the current time for lease expiry, sweeping and rate measurement.
// Injected so tests can drive a fake clock instead of sleeping.
//
// Production code uses service.NewTimeProvider(time.Now): the returned values carry a
// monotonic reading, so lease arithmetic is immune to wall-clock jumps.
//
//go:generate moq -stub -out mock/time_provider.go -pkg mock . TimeProvider
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time
}
