package service

import (
	"context"
	"time"

	"myregistry/domain"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// SnapshotApplier merges a full record set into local state. Implemented by Registry.
type SnapshotApplier interface {
	ApplySnapshot(ctx context.Context, records []domain.InstanceRecord) int
}

const bootstrapAttempts = 3

// Bootstrap fills a (re)joining node from the first source that returns a snapshot.
// Sources are tried in order, each with up to three attempts within timeout. Returns the
// id of the source used, or "" when none answered and the node starts empty.
func Bootstrap(ctx context.Context, applier SnapshotApplier, sources []ReplicationTarget, timeout time.Duration, logger log.Logger) string {
	logger = log.WithPrefix(logger, "component", "Bootstrap")

	for _, src := range sources {
		records, err := fetchSnapshot(ctx, src, timeout)
		if err != nil {
			if ctx.Err() != nil {
				level.Warn(logger).Log("msg", "bootstrap interrupted", "err", ctx.Err())
				return ""
			}
			level.Warn(logger).Log("msg", "snapshot source unavailable", "source", src.ID, "err", err)
			continue
		}
		applied := applier.ApplySnapshot(ctx, records)
		level.Info(logger).Log("msg", "bootstrap completed", "source", src.ID, "records", len(records), "applied", applied)
		return src.ID
	}

	if len(sources) > 0 {
		level.Warn(logger).Log("msg", "no snapshot source reachable, starting empty", "sources", len(sources))
	}
	return ""
}

func fetchSnapshot(ctx context.Context, src ReplicationTarget, timeout time.Duration) ([]domain.InstanceRecord, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	return backoff.Retry(ctx, func() ([]domain.InstanceRecord, error) {
		records, err := src.Client.Snapshot(ctx)
		if IsEntityNotFoundError(err) {
			// An empty mirror is a valid, empty snapshot.
			return nil, nil
		}
		return records, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(bootstrapAttempts))
}
