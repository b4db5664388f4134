package service

import (
	"context"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/telemetry"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/time/rate"
)

// ReplicationConfig tunes the fan-out towards peers.
type ReplicationConfig struct {
	// QueueSize bounds the pending events per peer; overflow is dropped.
	QueueSize int
	// BatchSize is the maximum number of events per Replicate call.
	BatchSize int
	// MaxAttempts bounds the delivery attempts of one batch.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// RatePerSecond caps Replicate calls per peer; zero or less disables pacing.
	RatePerSecond float64
	// Timeout bounds a single Replicate call.
	Timeout time.Duration
}

// ReplicationTarget is a named destination of replication: a peer node or the mirror.
type ReplicationTarget struct {
	ID     string
	Client interfaces.PeerClient
}

type peerQueue struct {
	id      string
	client  interfaces.PeerClient
	events  chan domain.ReplicationEvent
	limiter *rate.Limiter
	logger  log.Logger
}

// Replicator fans local mutations out to every target. Each target has its own bounded
// queue and worker, so a slow or unreachable peer never delays clients or other peers.
// Delivery is best effort: a full queue drops the event and a batch that keeps failing is
// dropped after MaxAttempts; peers converge again through later writes or a snapshot on rejoin.
type Replicator struct {
	nodeID string
	cfg    ReplicationConfig
	queues []*peerQueue
	logger log.Logger

	wg sync.WaitGroup
}

var _ interfaces.EventSink = (*Replicator)(nil)

// NewReplicator creates a replicator for events originating on nodeID. Workers start with Run.
func NewReplicator(nodeID string, cfg ReplicationConfig, targets []ReplicationTarget, logger log.Logger) *Replicator {
	logger = log.WithPrefix(helpers.NilPanic(logger, "service.replicator.go: logger is required"), "component", "Replicator")
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	r := &Replicator{
		nodeID: helpers.StrPanic(nodeID, "service.replicator.go: nodeID is required"),
		cfg:    cfg,
		logger: logger,
	}
	for _, t := range targets {
		limit := rate.Inf
		if cfg.RatePerSecond > 0 {
			limit = rate.Limit(cfg.RatePerSecond)
		}
		r.queues = append(r.queues, &peerQueue{
			id:      helpers.StrPanic(t.ID, "service.replicator.go: target id is required"),
			client:  helpers.NilPanic(t.Client, "service.replicator.go: target client is required"),
			events:  make(chan domain.ReplicationEvent, cfg.QueueSize),
			limiter: rate.NewLimiter(limit, 1),
			logger:  log.With(logger, "peer", t.ID),
		})
	}
	return r
}

// Enqueue hands event to every target queue without blocking. Only events sent by this node
// are forwarded: replication is a single hop from the node that served the client.
func (r *Replicator) Enqueue(event domain.ReplicationEvent) {
	if event.Sender != r.nodeID {
		return
	}
	for _, q := range r.queues {
		select {
		case q.events <- event:
		default:
			telemetry.ReplicationEvents.WithLabelValues(q.id, "dropped").Inc()
			level.Warn(q.logger).Log("msg", "replication queue full, event dropped", "action", event.Action, "instance", event.Key())
		}
	}
}

// Run starts one worker per target and blocks until ctx is cancelled and all workers stopped.
// Events still queued at that point are discarded.
func (r *Replicator) Run(ctx context.Context) {
	for _, q := range r.queues {
		r.wg.Add(1)
		go func(q *peerQueue) {
			defer r.wg.Done()
			r.work(ctx, q)
		}(q)
	}
	level.Info(r.logger).Log("msg", "replication started", "targets", len(r.queues))
	r.wg.Wait()
	level.Info(r.logger).Log("msg", "replication stopped")
}

func (r *Replicator) work(ctx context.Context, q *peerQueue) {
	for {
		var first domain.ReplicationEvent
		select {
		case <-ctx.Done():
			return
		case first = <-q.events:
		}

		batch := r.collect(q, first)
		if err := r.deliver(ctx, q, batch); err != nil {
			if ctx.Err() != nil {
				return
			}
			telemetry.ReplicationEvents.WithLabelValues(q.id, "failed").Add(float64(len(batch)))
			level.Error(q.logger).Log("msg", "replication batch dropped", "events", len(batch), "err", err)
			continue
		}
		telemetry.ReplicationEvents.WithLabelValues(q.id, "sent").Add(float64(len(batch)))
	}
}

// collect drains whatever is already queued, up to the batch size.
func (r *Replicator) collect(q *peerQueue, first domain.ReplicationEvent) []domain.ReplicationEvent {
	batch := make([]domain.ReplicationEvent, 1, r.cfg.BatchSize)
	batch[0] = first
	for len(batch) < r.cfg.BatchSize {
		select {
		case ev := <-q.events:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
	return batch
}

func (r *Replicator) deliver(ctx context.Context, q *peerQueue, batch []domain.ReplicationEvent) error {
	if err := q.limiter.Wait(ctx); err != nil {
		return err
	}

	b := backoff.NewExponentialBackOff()
	if r.cfg.InitialBackoff > 0 {
		b.InitialInterval = r.cfg.InitialBackoff
	}
	if r.cfg.MaxBackoff > 0 {
		b.MaxInterval = r.cfg.MaxBackoff
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		callCtx := ctx
		if r.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
			defer cancel()
		}
		if err := q.client.Replicate(callCtx, r.nodeID, batch); err != nil {
			if IsBadParameterError(err) {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(r.cfg.MaxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			level.Debug(q.logger).Log("msg", "replication attempt failed", "retry_in", next, "err", err)
		}),
	)
	return err
}
