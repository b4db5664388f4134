package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// RegistryConfig holds the lease and retention policy of a node.
type RegistryConfig struct {
	NodeID string
	// DefaultLease applies when a registration does not ask for a duration.
	DefaultLease time.Duration
	// MinLease and MaxLease clamp requested durations.
	MinLease time.Duration
	MaxLease time.Duration
	// DeltaRetention is how long tombstones are kept for delta readers and stale-write protection.
	DeltaRetention   time.Duration
	SelfPreservation SelfPreservationConfig
	// ShardCount of the lease store; zero selects the default.
	ShardCount int
}

// Registry is the registry of one node: the lease store plus the policies around it.
// It implements interfaces.Registry for clients and interfaces.PeerReceiver for peers.
type Registry struct {
	cfg      RegistryConfig
	clock    interfaces.TimeProvider
	versions *VersionClock
	store    *LeaseStore
	governor *Governor
	sink     interfaces.EventSink
	logger   log.Logger

	// shuffle picks the eviction order; replaced in tests.
	shuffle func(n int, swap func(i, j int))
}

var (
	_ interfaces.Registry     = (*Registry)(nil)
	_ interfaces.PeerReceiver = (*Registry)(nil)
)

// NewRegistry creates an empty registry. Local mutations are handed to sink for replication.
// The version clock is seeded with the start time so a restarted node issues versions above
// the ones it handed out before the restart.
func NewRegistry(cfg RegistryConfig, clock interfaces.TimeProvider, sink interfaces.EventSink, logger log.Logger) *Registry {
	helpers.StrPanic(cfg.NodeID, "service.registry.go: NodeID is required")
	clock = helpers.NilPanic(clock, "service.registry.go: clock is required")
	logger = log.WithPrefix(helpers.NilPanic(logger, "service.registry.go: logger is required"), "component", "Registry")

	start := clock.Now()
	versions := NewVersionClock(uint64(start.UnixNano()))
	return &Registry{
		cfg:      cfg,
		clock:    clock,
		versions: versions,
		store:    NewLeaseStore(cfg.NodeID, versions, cfg.ShardCount),
		governor: NewGovernor(cfg.SelfPreservation, start, logger),
		sink:     helpers.NilPanic(sink, "service.registry.go: sink is required"),
		logger:   logger,
		shuffle:  rand.Shuffle,
	}
}

// leaseFor resolves the lease duration of a registration.
func (r *Registry) leaseFor(requested time.Duration) time.Duration {
	if requested <= 0 {
		return r.cfg.DefaultLease
	}
	return min(max(requested, r.cfg.MinLease), r.cfg.MaxLease)
}

func validateRegistration(reg domain.Registration) error {
	if strings.TrimSpace(reg.ServiceName) == "" {
		return NewBadParameterError("service_name is required", nil)
	}
	if strings.TrimSpace(reg.InstanceID) == "" {
		return NewBadParameterError("instance_id is required", nil)
	}
	if strings.TrimSpace(reg.Endpoint.Host) == "" {
		return NewBadParameterError("host is required", nil)
	}
	if reg.Endpoint.Port < 1 || reg.Endpoint.Port > 65535 {
		return NewBadParameterError(fmt.Sprintf("port %d is out of range", reg.Endpoint.Port), nil)
	}
	if reg.LeaseDuration < 0 {
		return NewBadParameterError("lease duration must not be negative", nil)
	}
	if reg.Status != "" {
		if _, err := domain.ParseStatus(string(reg.Status)); err != nil {
			return NewBadParameterError("invalid status", err)
		}
	}
	return nil
}

// Register inserts or replaces the instance. Status defaults to UP; a status override set
// on the previous record survives re-registration.
func (r *Registry) Register(ctx context.Context, reg domain.Registration) (domain.InstanceRecord, error) {
	if err := validateRegistration(reg); err != nil {
		telemetry.RegistryOperations.WithLabelValues("register", "rejected").Inc()
		return domain.InstanceRecord{}, err
	}
	status := reg.Status
	if status == "" {
		status = domain.StatusUp
	}

	rec := domain.InstanceRecord{
		ServiceName:          reg.ServiceName,
		InstanceID:           reg.InstanceID,
		Endpoint:             reg.Endpoint,
		RegisteredStatus:     status,
		LeaseDuration:        r.leaseFor(reg.LeaseDuration),
		LeaseRenewalDisabled: reg.LeaseRenewalDisabled,
	}
	prior, stored := r.store.Upsert(rec, r.clock.Now())
	r.emit(domain.ActionRegister, stored)
	telemetry.RegistryOperations.WithLabelValues("register", "ok").Inc()
	telemetry.Instances.Set(float64(r.store.Count()))

	level.Debug(r.logger).Log(
		"msg", "instance registered",
		"instance", stored.Key(),
		"status", stored.Status,
		"lease", stored.LeaseDuration,
		"replaced", prior != nil,
	)
	return stored, nil
}

// Renew resets the lease of a known instance.
func (r *Registry) Renew(ctx context.Context, serviceName, instanceID string) error {
	now := r.clock.Now()
	rec, ok := r.store.Renew(domain.Key{ServiceName: serviceName, InstanceID: instanceID}, now)
	if !ok {
		telemetry.RegistryOperations.WithLabelValues("renew", "not_found").Inc()
		return NewInstanceNotFoundError(serviceName, instanceID)
	}
	r.governor.RecordRenewal(now)
	r.emit(domain.ActionRenew, rec)
	telemetry.RegistryOperations.WithLabelValues("renew", "ok").Inc()
	return nil
}

// Cancel removes the instance. Cancelling an unknown instance succeeds without side effects.
func (r *Registry) Cancel(ctx context.Context, serviceName, instanceID string) error {
	key := domain.Key{ServiceName: serviceName, InstanceID: instanceID}
	tomb, ok := r.store.Remove(key, domain.ActionCancel, r.clock.Now())
	if !ok {
		telemetry.RegistryOperations.WithLabelValues("cancel", "absent").Inc()
		return nil
	}
	r.emitTombstone(tomb)
	telemetry.RegistryOperations.WithLabelValues("cancel", "ok").Inc()
	telemetry.Instances.Set(float64(r.store.Count()))
	level.Debug(r.logger).Log("msg", "instance cancelled", "instance", key)
	return nil
}

// SetStatus overrides the effective status without re-registration.
func (r *Registry) SetStatus(ctx context.Context, serviceName, instanceID string, status domain.Status) error {
	if _, err := domain.ParseStatus(string(status)); err != nil {
		return NewBadParameterError("invalid status", err)
	}
	rec, ok := r.store.SetStatus(domain.Key{ServiceName: serviceName, InstanceID: instanceID}, status)
	if !ok {
		telemetry.RegistryOperations.WithLabelValues("set_status", "not_found").Inc()
		return NewInstanceNotFoundError(serviceName, instanceID)
	}
	r.emit(domain.ActionStatusUpdate, rec)
	telemetry.RegistryOperations.WithLabelValues("set_status", "ok").Inc()
	level.Info(r.logger).Log("msg", "status overridden", "instance", rec.Key(), "status", status)
	return nil
}

// DeleteStatusOverride drops the override; the effective status returns to the registered one.
func (r *Registry) DeleteStatusOverride(ctx context.Context, serviceName, instanceID string) error {
	rec, ok := r.store.DeleteStatusOverride(domain.Key{ServiceName: serviceName, InstanceID: instanceID})
	if !ok {
		telemetry.RegistryOperations.WithLabelValues("delete_status_override", "not_found").Inc()
		return NewInstanceNotFoundError(serviceName, instanceID)
	}
	r.emit(domain.ActionDeleteStatusOverride, rec)
	telemetry.RegistryOperations.WithLabelValues("delete_status_override", "ok").Inc()
	level.Info(r.logger).Log("msg", "status override removed", "instance", rec.Key(), "status", rec.Status)
	return nil
}

// Query returns the instances of serviceName ordered by instance id, UP only unless includeAll.
// Reads are served during self-preservation like at any other time.
func (r *Registry) Query(ctx context.Context, serviceName string, includeAll bool) ([]domain.InstanceRecord, error) {
	if strings.TrimSpace(serviceName) == "" {
		return nil, NewBadParameterError("service_name is required", nil)
	}
	if includeAll {
		return r.store.GetService(serviceName, nil), nil
	}
	return r.store.Get(serviceName), nil
}

// Services returns the sorted names of known services.
func (r *Registry) Services(ctx context.Context) ([]string, error) {
	return r.store.Services(), nil
}

// QueryDelta returns the records and removals recorded after since. When since is zero or
// predates the tombstone horizon the full registry is returned with Full set.
func (r *Registry) QueryDelta(ctx context.Context, since uint64) (domain.Delta, error) {
	// Read the sequence first: every change up to it is visible to the scans below.
	seq := r.store.Sequence()
	delta := domain.Delta{Version: seq}

	if since == 0 || since < r.store.Horizon() || since > seq {
		delta.Full = true
		delta.Changed = r.store.GetAllByStatusFilter(nil)
	} else {
		delta.Changed = r.store.ChangedSince(since)
		delta.Deleted = r.store.TombstonesSince(since)
	}
	delta.HashCode = HashCode(r.store.StatusCounts())
	return delta, nil
}

// HashCode renders status counts as "DOWN_1_UP_5_" with statuses in name order, letting
// delta clients check that their reconstructed view matches the server.
func HashCode(counts map[domain.Status]int) string {
	statuses := make([]string, 0, len(counts))
	for st, n := range counts {
		if n > 0 {
			statuses = append(statuses, string(st))
		}
	}
	sort.Strings(statuses)

	var b strings.Builder
	for _, st := range statuses {
		fmt.Fprintf(&b, "%s_%d_", st, counts[domain.Status(st)])
	}
	return b.String()
}

// Status reports the node and its self-preservation state.
func (r *Registry) Status(ctx context.Context) (domain.RegistryStatus, error) {
	st := r.governor.State()
	return domain.RegistryStatus{
		NodeID:                 r.cfg.NodeID,
		Instances:              r.store.Count(),
		Services:               len(r.store.Services()),
		SelfPreservationActive: st.Active,
		ExpectedRenewsPerMin:   st.Expected,
		ObservedRenewsPerMin:   st.Observed,
		RenewalThreshold:       st.Threshold,
		Version:                r.versions.Current(),
	}, nil
}

// Evict runs one eviction pass: evaluate self-preservation, then remove expired evictable
// instances, all of them when INACTIVE, a random subset capped by the eviction cap when
// ACTIVE. Also purges tombstones older than the delta retention. Returns the number evicted.
func (r *Registry) Evict(ctx context.Context) int {
	now := r.clock.Now()
	state := r.governor.Evaluate(now, r.store.ExpectedRenewsPerMinute())

	if purged := r.store.PurgeTombstones(now.Add(-r.cfg.DeltaRetention)); purged > 0 {
		level.Debug(r.logger).Log("msg", "tombstones purged", "count", purged)
	}

	expired := r.store.Expired(now)
	if len(expired) == 0 {
		return 0
	}
	limit := r.governor.EvictionLimit(len(expired))
	if limit == 0 {
		// floor(cap × expired) is below one: nothing leaves until more instances expire
		// or self-preservation ends.
		level.Warn(r.logger).Log(
			"msg", "eviction cap allows no eviction",
			"expired", len(expired),
			"eviction_cap", r.cfg.SelfPreservation.EvictionCap,
		)
	}
	if limit < len(expired) {
		r.shuffle(len(expired), func(i, j int) { expired[i], expired[j] = expired[j], expired[i] })
		expired = expired[:limit]
	}

	evicted := 0
	for _, key := range expired {
		if ctx.Err() != nil {
			break
		}
		tomb, ok := r.store.RemoveIfExpired(key, now)
		if !ok {
			continue
		}
		r.emitTombstone(tomb)
		evicted++
	}
	telemetry.Evictions.Add(float64(evicted))
	telemetry.Instances.Set(float64(r.store.Count()))

	level.Info(r.logger).Log(
		"msg", "eviction pass",
		"expired", len(expired),
		"limit", limit,
		"evicted", evicted,
		"self_preservation", state.Active,
	)
	return evicted
}

// ApplyReplication applies events received from a peer and returns how many changed local
// state. Invalid events are skipped. Replicated renewals count towards the observed renewal rate.
func (r *Registry) ApplyReplication(ctx context.Context, events []domain.ReplicationEvent) int {
	now := r.clock.Now()
	applied := 0
	for _, ev := range events {
		if !r.validEvent(ev) {
			telemetry.ReplicationApplied.WithLabelValues("invalid").Inc()
			continue
		}
		if ev.Record != nil && ev.Record.LeaseDuration <= 0 {
			rec := ev.Record.Clone()
			rec.LeaseDuration = r.cfg.DefaultLease
			ev.Record = &rec
		}
		if ev.Action == domain.ActionRenew {
			r.governor.RecordRenewal(now)
		}
		if r.store.ApplyRemote(ev, now) {
			applied++
			telemetry.ReplicationApplied.WithLabelValues("applied").Inc()
		} else {
			telemetry.ReplicationApplied.WithLabelValues("ignored").Inc()
		}
	}
	telemetry.Instances.Set(float64(r.store.Count()))
	return applied
}

func (r *Registry) validEvent(ev domain.ReplicationEvent) bool {
	if !ev.Action.Valid() || ev.ServiceName == "" || ev.InstanceID == "" || ev.OriginNode == "" {
		level.Warn(r.logger).Log("msg", "invalid replication event", "action", ev.Action, "instance", ev.Key(), "origin", ev.OriginNode)
		return false
	}
	if !ev.IsTombstone() && ev.Record == nil {
		level.Warn(r.logger).Log("msg", "replication event without record", "action", ev.Action, "instance", ev.Key())
		return false
	}
	return true
}

// Snapshot returns copies of all records regardless of status.
func (r *Registry) Snapshot(ctx context.Context) []domain.InstanceRecord {
	return r.store.GetAllByStatusFilter(nil)
}

// ApplySnapshot merges a peer's full record set with last-writer-wins.
func (r *Registry) ApplySnapshot(ctx context.Context, records []domain.InstanceRecord) int {
	events := make([]domain.ReplicationEvent, 0, len(records))
	for i := range records {
		rec := records[i]
		events = append(events, domain.ReplicationEvent{
			Action:             domain.ActionRegister,
			ServiceName:        rec.ServiceName,
			InstanceID:         rec.InstanceID,
			Record:             &rec,
			LastDirtyTimestamp: rec.LastDirtyTimestamp,
			OriginNode:         rec.OriginNode,
		})
	}
	return r.ApplyReplication(ctx, events)
}

func (r *Registry) emit(action domain.Action, rec domain.InstanceRecord) {
	r.sink.Enqueue(domain.ReplicationEvent{
		Action:             action,
		ServiceName:        rec.ServiceName,
		InstanceID:         rec.InstanceID,
		Record:             &rec,
		LastDirtyTimestamp: rec.LastDirtyTimestamp,
		OriginNode:         rec.OriginNode,
		Sender:             r.cfg.NodeID,
	})
}

func (r *Registry) emitTombstone(t domain.Tombstone) {
	r.sink.Enqueue(domain.ReplicationEvent{
		Action:             t.Reason,
		ServiceName:        t.ServiceName,
		InstanceID:         t.InstanceID,
		LastDirtyTimestamp: t.LastDirtyTimestamp,
		OriginNode:         t.OriginNode,
		Sender:             r.cfg.NodeID,
	})
}
