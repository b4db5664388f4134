package service

import (
	"math"
	"sync"
	"time"

	"myregistry/helpers"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// SelfPreservationConfig tunes the Governor.
type SelfPreservationConfig struct {
	Enabled bool
	// Threshold is the fraction of expected renewals below which the governor turns ACTIVE.
	Threshold float64
	// EvictionCap is the fraction of expired instances that may be evicted per sweep while ACTIVE.
	EvictionCap float64
	// StabilizationWindow is how long the observed rate must stay at or above the
	// threshold before the governor returns to INACTIVE.
	StabilizationWindow time.Duration
	// ExpectedRateSmoothing is the weight of a new, lower expected rate (0 < α ≤ 1).
	ExpectedRateSmoothing float64
}

// GovernorState is a point-in-time view of the governor.
type GovernorState struct {
	Active    bool
	Expected  float64
	Observed  float64
	Threshold float64
}

// Governor decides whether the node is in self-preservation: when far fewer renewals
// arrive than the registered instances should send, the node assumes a network problem
// on its side and stops evicting most of them.
type Governor struct {
	cfg      SelfPreservationConfig
	renewals *MeasuredRate
	logger   log.Logger

	mu             sync.Mutex
	expected       float64
	observed       float64
	active         bool
	recoveredSince time.Time
}

// NewGovernor creates an INACTIVE governor whose renewal window starts at start.
func NewGovernor(cfg SelfPreservationConfig, start time.Time, logger log.Logger) *Governor {
	if cfg.ExpectedRateSmoothing <= 0 || cfg.ExpectedRateSmoothing > 1 {
		cfg.ExpectedRateSmoothing = 1
	}
	return &Governor{
		cfg:      cfg,
		renewals: NewMeasuredRate(start),
		logger:   log.WithPrefix(helpers.NilPanic(logger, "service.self_preservation.go: logger is required"), "component", "Governor"),
	}
}

// RecordRenewal counts one successful renewal, local or replicated.
func (g *Governor) RecordRenewal(now time.Time) {
	g.renewals.Increment(now)
}

// Evaluate folds the current expected rate (Σ 60/D of evictable instances) into the
// smoothed expectation, compares it with the observed rate and returns the new state.
// Called by the sweeper once per tick.
func (g *Governor) Evaluate(now time.Time, target float64) GovernorState {
	observed := g.renewals.PerMinute(now)

	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case target <= 0:
		g.expected = 0
	case target >= g.expected:
		g.expected = target
	default:
		g.expected += g.cfg.ExpectedRateSmoothing * (target - g.expected)
	}
	g.observed = observed

	wasActive := g.active
	switch {
	case !g.cfg.Enabled || g.expected == 0:
		g.active = false
		g.recoveredSince = time.Time{}
	case observed < g.expected*g.cfg.Threshold:
		g.active = true
		g.recoveredSince = time.Time{}
	case g.active:
		if g.recoveredSince.IsZero() {
			g.recoveredSince = now
		}
		if now.Sub(g.recoveredSince) >= g.cfg.StabilizationWindow {
			g.active = false
			g.recoveredSince = time.Time{}
		}
	}

	if g.active != wasActive {
		level.Warn(g.logger).Log(
			"msg", "self-preservation state changed",
			"active", g.active,
			"expected_per_min", g.expected,
			"observed_per_min", observed,
			"threshold", g.cfg.Threshold,
		)
	}
	g.publish()
	return g.stateLocked()
}

func (g *Governor) publish() {
	active := 0.0
	if g.active {
		active = 1
	}
	telemetry.SelfPreservationActive.Set(active)
	telemetry.RenewsPerMinute.WithLabelValues("expected").Set(g.expected)
	telemetry.RenewsPerMinute.WithLabelValues("observed").Set(g.observed)
}

// State returns the result of the last Evaluate.
func (g *Governor) State() GovernorState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Governor) stateLocked() GovernorState {
	return GovernorState{
		Active:    g.active,
		Expected:  g.expected,
		Observed:  g.observed,
		Threshold: g.cfg.Threshold,
	}
}

// EvictionLimit returns how many of expired instances may be evicted in one sweep.
func (g *Governor) EvictionLimit(expired int) int {
	g.mu.Lock()
	active := g.active
	g.mu.Unlock()

	if !active {
		return expired
	}
	// The epsilon keeps products such as 0.29*100 from flooring to 28.
	return int(math.Floor(g.cfg.EvictionCap*float64(expired) + 1e-9))
}
