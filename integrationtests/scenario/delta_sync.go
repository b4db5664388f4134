package scenario

import (
	"context"
	"fmt"
	"time"

	"myregistry/domain"
)

const scenarioDeltaSync = "delta_sync"

func init() {
	Register(scenarioDeltaSync, runDeltaSync)
}

// runDeltaSync keeps a client-side view of the registry with delta polling and checks
// it against full queries, the way caching discovery clients do.
func runDeltaSync(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := nodeClient(cfg, 0)
	if err != nil {
		return err
	}
	svc := uniqueService(scenarioDeltaSync)

	full, err := client.QueryDelta(ctx, 0)
	if err != nil {
		return fmt.Errorf("initial delta: %w", err)
	}
	if !full.Full {
		return fmt.Errorf("initial delta: full=false, want true")
	}
	view := make(map[domain.Key]domain.InstanceRecord, len(full.Changed))
	for _, r := range full.Changed {
		view[r.Key()] = r
	}
	version := full.Version

	for i, id := range []string{"a", "b"} {
		if _, err := client.Register(ctx, testRegistration(svc, id, 9300+i)); err != nil {
			return fmt.Errorf("register %s: %w", id, err)
		}
	}
	if err := client.Cancel(ctx, svc, "a"); err != nil {
		return fmt.Errorf("cancel a: %w", err)
	}

	delta, err := client.QueryDelta(ctx, version)
	if err != nil {
		return fmt.Errorf("delta: %w", err)
	}
	if delta.Full {
		view = make(map[domain.Key]domain.InstanceRecord, len(delta.Changed))
	}
	for _, r := range delta.Changed {
		view[r.Key()] = r
	}
	for _, t := range delta.Deleted {
		delete(view, t.Key())
	}

	if _, ok := view[domain.Key{ServiceName: svc, InstanceID: "a"}]; ok {
		return fmt.Errorf("delta view still holds cancelled instance a")
	}
	b, ok := view[domain.Key{ServiceName: svc, InstanceID: "b"}]
	if !ok {
		return fmt.Errorf("delta view misses instance b")
	}
	if b.Status != domain.StatusUp {
		return fmt.Errorf("delta view: b status=%s, want UP", b.Status)
	}
	if delta.Version < version {
		return fmt.Errorf("delta version went backwards: %d < %d", delta.Version, version)
	}

	return client.Cancel(ctx, svc, "b")
}
