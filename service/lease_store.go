package service

import (
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
)

const defaultShardCount = 32

// entry is a stored record. Entries are copy-on-write: an *entry is never modified after
// it is published, so readers may dereference pointers after releasing the lock.
type entry struct {
	record domain.InstanceRecord
	// seq is the local change sequence used by deltas. Unlike LastDirtyTimestamp it is
	// assigned by this node on every visible change, including replicated ones.
	seq uint64
}

type tombstoneEntry struct {
	tombstone domain.Tombstone
	seq       uint64
}

// leaseShard owns the services hashed to it.
type leaseShard struct {
	mu         sync.RWMutex
	services   map[string]map[string]*entry
	tombstones map[domain.Key]tombstoneEntry
}

// LeaseStore is the in-memory mapping service name → instances with their lease state.
// It is the only owner of InstanceRecord values; everything it returns is a copy.
type LeaseStore struct {
	nodeID   string
	versions *VersionClock
	shards   []*leaseShard
	// changes issues delta sequence numbers; always advanced under a shard write lock.
	changes atomic.Uint64
	// horizon is the highest sequence of a purged tombstone; deltas older than it are incomplete.
	horizon atomic.Uint64
}

// NewLeaseStore creates an empty store. Versions for local mutations come from versions and
// are stamped with nodeID as origin. shardCount <= 0 selects the default.
func NewLeaseStore(nodeID string, versions *VersionClock, shardCount int) *LeaseStore {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	s := &LeaseStore{
		nodeID:   helpers.StrPanic(nodeID, "service.lease_store.go: nodeID is required"),
		versions: helpers.NilPanic(versions, "service.lease_store.go: versions is required"),
		shards:   make([]*leaseShard, shardCount),
	}
	for i := range s.shards {
		s.shards[i] = &leaseShard{
			services:   make(map[string]map[string]*entry),
			tombstones: make(map[domain.Key]tombstoneEntry),
		}
	}
	return s
}

func (s *LeaseStore) shardFor(serviceName string) *leaseShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(serviceName))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

func (sh *leaseShard) lookup(key domain.Key) (*domain.InstanceRecord, bool) {
	e, ok := sh.services[key.ServiceName][key.InstanceID]
	if !ok {
		return nil, false
	}
	return &e.record, true
}

func (sh *leaseShard) put(e *entry) {
	instances := sh.services[e.record.ServiceName]
	if instances == nil {
		instances = make(map[string]*entry)
		sh.services[e.record.ServiceName] = instances
	}
	instances[e.record.InstanceID] = e
}

// publish stores r as a change visible to delta readers.
func (s *LeaseStore) publish(sh *leaseShard, r domain.InstanceRecord) {
	sh.put(&entry{record: r, seq: s.changes.Add(1)})
}

// refresh stores r without announcing a change; used for lease-only updates.
func (sh *leaseShard) refresh(r domain.InstanceRecord) {
	old := sh.services[r.ServiceName][r.InstanceID]
	sh.put(&entry{record: r, seq: old.seq})
}

func (s *LeaseStore) bury(sh *leaseShard, t domain.Tombstone) {
	sh.tombstones[t.Key()] = tombstoneEntry{tombstone: t, seq: s.changes.Add(1)}
}

func (sh *leaseShard) delete(key domain.Key) {
	instances := sh.services[key.ServiceName]
	delete(instances, key.InstanceID)
	if len(instances) == 0 {
		delete(sh.services, key.ServiceName)
	}
}

// Upsert inserts or replaces the record for (ServiceName, InstanceID). The stored record gets
// a fresh version, a lease of now+LeaseDuration and keeps a status override set on the prior
// record. Returns a copy of the prior record (nil if none) and of the stored one.
func (s *LeaseStore) Upsert(rec domain.InstanceRecord, now time.Time) (*domain.InstanceRecord, domain.InstanceRecord) {
	sh := s.shardFor(rec.ServiceName)
	next := rec.Clone()

	sh.mu.Lock()
	defer sh.mu.Unlock()

	var prior *domain.InstanceRecord
	if old, ok := sh.lookup(rec.Key()); ok {
		p := old.Clone()
		prior = &p
		if old.HasOverride() && !next.HasOverride() {
			next.OverriddenStatus = old.OverriddenStatus
		}
	}
	next.Status = next.EffectiveStatus()
	next.RegisteredAt = now
	next.LastRenewedAt = now
	next.LeaseExpiryAt = now.Add(next.LeaseDuration)
	next.LastDirtyTimestamp = s.versions.Next()
	next.OriginNode = s.nodeID

	s.publish(sh, next)
	delete(sh.tombstones, rec.Key())
	return prior, next.Clone()
}

// Renew resets the lease to now+LeaseDuration. The version is left alone: a renewal
// changes lease state, not the record. Returns false if the instance is unknown.
func (s *LeaseStore) Renew(key domain.Key, now time.Time) (domain.InstanceRecord, bool) {
	sh := s.shardFor(key.ServiceName)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	old, ok := sh.lookup(key)
	if !ok {
		return domain.InstanceRecord{}, false
	}
	next := *old
	next.LastRenewedAt = now
	next.LeaseExpiryAt = now.Add(next.LeaseDuration)
	sh.refresh(next)
	return next.Clone(), true
}

// SetStatus installs a status override and bumps the version.
func (s *LeaseStore) SetStatus(key domain.Key, status domain.Status) (domain.InstanceRecord, bool) {
	return s.update(key, func(r *domain.InstanceRecord) {
		r.OverriddenStatus = status
	})
}

// DeleteStatusOverride clears the override and bumps the version.
func (s *LeaseStore) DeleteStatusOverride(key domain.Key) (domain.InstanceRecord, bool) {
	return s.update(key, func(r *domain.InstanceRecord) {
		r.OverriddenStatus = domain.StatusUnknown
	})
}

func (s *LeaseStore) update(key domain.Key, mutate func(r *domain.InstanceRecord)) (domain.InstanceRecord, bool) {
	sh := s.shardFor(key.ServiceName)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	old, ok := sh.lookup(key)
	if !ok {
		return domain.InstanceRecord{}, false
	}
	next := old.Clone()
	mutate(&next)
	next.Status = next.EffectiveStatus()
	next.LastDirtyTimestamp = s.versions.Next()
	next.OriginNode = s.nodeID
	s.publish(sh, next)
	return next.Clone(), true
}

// Remove deletes the record and leaves a tombstone. Removing an absent instance is a no-op
// and returns false; the existing tombstone, if any, is not touched.
func (s *LeaseStore) Remove(key domain.Key, reason domain.Action, now time.Time) (domain.Tombstone, bool) {
	sh := s.shardFor(key.ServiceName)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.lookup(key); !ok {
		return domain.Tombstone{}, false
	}
	return s.removeLocked(sh, key, reason, now), true
}

// RemoveIfExpired evicts the record only if its lease is still expired at now. The check
// happens under the shard lock so a renewal that landed after the sweeper's scan wins.
func (s *LeaseStore) RemoveIfExpired(key domain.Key, now time.Time) (domain.Tombstone, bool) {
	sh := s.shardFor(key.ServiceName)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	r, ok := sh.lookup(key)
	if !ok || !r.IsExpired(now) {
		return domain.Tombstone{}, false
	}
	return s.removeLocked(sh, key, domain.ActionEvict, now), true
}

func (s *LeaseStore) removeLocked(sh *leaseShard, key domain.Key, reason domain.Action, now time.Time) domain.Tombstone {
	sh.delete(key)
	t := domain.Tombstone{
		ServiceName:        key.ServiceName,
		InstanceID:         key.InstanceID,
		Reason:             reason,
		LastDirtyTimestamp: s.versions.Next(),
		OriginNode:         s.nodeID,
		DeletedAt:          now,
	}
	s.bury(sh, t)
	return t
}

// newer reports whether version (av, ao) supersedes (bv, bo). Equal counters from different
// origins are ordered by origin id so every node picks the same winner.
func newer(av uint64, ao string, bv uint64, bo string) bool {
	if av != bv {
		return av > bv
	}
	return ao > bo
}

// ApplyRemote applies a peer's event using last-writer-wins on (LastDirtyTimestamp, OriginNode).
// Applied records get a fresh local lease of now+LeaseDuration. Returns whether local state changed.
func (s *LeaseStore) ApplyRemote(ev domain.ReplicationEvent, now time.Time) bool {
	s.versions.Observe(ev.LastDirtyTimestamp)

	key := ev.Key()
	sh := s.shardFor(key.ServiceName)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	local, exists := sh.lookup(key)
	te, tombstoned := sh.tombstones[key]
	tomb := te.tombstone
	// A renewal of the version held here refreshes the lease, whichever node served it.
	if exists && ev.Action == domain.ActionRenew && ev.LastDirtyTimestamp == local.LastDirtyTimestamp {
		next := *local
		next.LastRenewedAt = now
		next.LeaseExpiryAt = now.Add(next.LeaseDuration)
		sh.refresh(next)
		return true
	}
	if exists && !newer(ev.LastDirtyTimestamp, ev.OriginNode, local.LastDirtyTimestamp, local.OriginNode) {
		return false
	}
	if !exists && tombstoned && !newer(ev.LastDirtyTimestamp, ev.OriginNode, tomb.LastDirtyTimestamp, tomb.OriginNode) {
		return false
	}

	if ev.IsTombstone() {
		if exists {
			sh.delete(key)
		}
		s.bury(sh, domain.Tombstone{
			ServiceName:        key.ServiceName,
			InstanceID:         key.InstanceID,
			Reason:             ev.Action,
			LastDirtyTimestamp: ev.LastDirtyTimestamp,
			OriginNode:         ev.OriginNode,
			DeletedAt:          now,
		})
		return true
	}
	if ev.Record == nil {
		return false
	}

	next := ev.Record.Clone()
	next.ServiceName = key.ServiceName
	next.InstanceID = key.InstanceID
	next.Status = next.EffectiveStatus()
	next.LastDirtyTimestamp = ev.LastDirtyTimestamp
	next.OriginNode = ev.OriginNode
	next.LeaseExpiryAt = now.Add(next.LeaseDuration)
	s.publish(sh, next)
	delete(sh.tombstones, key)
	return true
}

// Get returns copies of the UP instances of serviceName ordered by instance id.
// An unknown service yields an empty result.
func (s *LeaseStore) Get(serviceName string) []domain.InstanceRecord {
	return s.GetService(serviceName, isUp)
}

// GetService returns copies of the instances of serviceName matching pred, ordered by instance id.
// A nil pred matches everything.
func (s *LeaseStore) GetService(serviceName string, pred func(domain.InstanceRecord) bool) []domain.InstanceRecord {
	sh := s.shardFor(serviceName)
	sh.mu.RLock()
	refs := make([]*entry, 0, len(sh.services[serviceName]))
	for _, e := range sh.services[serviceName] {
		refs = append(refs, e)
	}
	sh.mu.RUnlock()

	out := collect(refs, pred)
	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID < out[j].InstanceID })
	return out
}

// GetAllByStatusFilter returns copies of all records matching pred ordered by service then instance id.
func (s *LeaseStore) GetAllByStatusFilter(pred func(domain.InstanceRecord) bool) []domain.InstanceRecord {
	var out []domain.InstanceRecord
	for _, sh := range s.shards {
		out = append(out, collect(sh.references(), pred)...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ServiceName != out[j].ServiceName {
			return out[i].ServiceName < out[j].ServiceName
		}
		return out[i].InstanceID < out[j].InstanceID
	})
	return out
}

func (sh *leaseShard) references() []*entry {
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	var refs []*entry
	for _, instances := range sh.services {
		for _, e := range instances {
			refs = append(refs, e)
		}
	}
	return refs
}

func collect(refs []*entry, pred func(domain.InstanceRecord) bool) []domain.InstanceRecord {
	out := make([]domain.InstanceRecord, 0, len(refs))
	for _, e := range refs {
		if pred == nil || pred(e.record) {
			out = append(out, e.record.Clone())
		}
	}
	return out
}

func isUp(r domain.InstanceRecord) bool {
	return r.Status == domain.StatusUp
}

// Services returns the sorted names of services with at least one instance.
func (s *LeaseStore) Services() []string {
	var names []string
	for _, sh := range s.shards {
		sh.mu.RLock()
		for name := range sh.services {
			names = append(names, name)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(names)
	return names
}

// Count returns the number of stored records.
func (s *LeaseStore) Count() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, instances := range sh.services {
			n += len(instances)
		}
		sh.mu.RUnlock()
	}
	return n
}

// Expired returns the keys of evictable records whose lease ran out before now.
func (s *LeaseStore) Expired(now time.Time) []domain.Key {
	var keys []domain.Key
	for _, sh := range s.shards {
		for _, e := range sh.references() {
			if e.record.IsExpired(now) {
				keys = append(keys, e.record.Key())
			}
		}
	}
	return keys
}

// ExpectedRenewsPerMinute sums 60/D over evictable records.
func (s *LeaseStore) ExpectedRenewsPerMinute() float64 {
	var total float64
	for _, sh := range s.shards {
		for _, e := range sh.references() {
			if e.record.IsEvictable() && e.record.LeaseDuration > 0 {
				total += time.Minute.Seconds() / e.record.LeaseDuration.Seconds()
			}
		}
	}
	return total
}

// StatusCounts counts records per effective status.
func (s *LeaseStore) StatusCounts() map[domain.Status]int {
	counts := make(map[domain.Status]int)
	for _, sh := range s.shards {
		for _, e := range sh.references() {
			counts[e.record.Status]++
		}
	}
	return counts
}

// Sequence returns the last delta sequence issued. Read it before ChangedSince and
// TombstonesSince: every change numbered up to it is already visible to them.
func (s *LeaseStore) Sequence() uint64 {
	return s.changes.Load()
}

// ChangedSince returns copies of records changed after sequence since, oldest change first.
func (s *LeaseStore) ChangedSince(since uint64) []domain.InstanceRecord {
	var refs []*entry
	for _, sh := range s.shards {
		for _, e := range sh.references() {
			if e.seq > since {
				refs = append(refs, e)
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].seq < refs[j].seq })
	return collect(refs, nil)
}

// TombstonesSince returns tombstones recorded after sequence since, oldest first.
func (s *LeaseStore) TombstonesSince(since uint64) []domain.Tombstone {
	var found []tombstoneEntry
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, te := range sh.tombstones {
			if te.seq > since {
				found = append(found, te)
			}
		}
		sh.mu.RUnlock()
	}
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })
	out := make([]domain.Tombstone, len(found))
	for i, te := range found {
		out[i] = te.tombstone
	}
	return out
}

// PurgeTombstones drops tombstones deleted before cutoff and raises the delta horizon.
// Returns the number of purged tombstones.
func (s *LeaseStore) PurgeTombstones(cutoff time.Time) int {
	purged := 0
	var highest uint64
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, te := range sh.tombstones {
			if te.tombstone.DeletedAt.Before(cutoff) {
				delete(sh.tombstones, key)
				purged++
				if te.seq > highest {
					highest = te.seq
				}
			}
		}
		sh.mu.Unlock()
	}
	for {
		cur := s.horizon.Load()
		if highest <= cur || s.horizon.CompareAndSwap(cur, highest) {
			break
		}
	}
	return purged
}

// Horizon returns the highest purged tombstone sequence. A delta request with since
// below it may have missed deletions.
func (s *LeaseStore) Horizon() uint64 {
	return s.horizon.Load()
}
