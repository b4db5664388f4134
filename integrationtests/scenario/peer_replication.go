package scenario

import (
	"context"
	"fmt"
	"time"

	"myregistry/domain"
)

const scenarioPeerReplication = "peer_replication"

func init() {
	Register(scenarioPeerReplication, runPeerReplication)
}

// runPeerReplication writes on the first node and waits for the second to converge:
// registration, status override and cancellation all have to arrive. A heartbeat sent
// to the second node has to reach the first.
func runPeerReplication(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	origin, err := nodeClient(cfg, 0)
	if err != nil {
		return err
	}
	peer, err := nodeClient(cfg, 1)
	if err != nil {
		return err
	}
	svc := uniqueService(scenarioPeerReplication)

	rec, err := origin.Register(ctx, testRegistration(svc, "a", 9200))
	if err != nil {
		return fmt.Errorf("register on origin: %w", err)
	}

	err = eventually(ctx, cfg, "registration on peer", func() (bool, error) {
		got, err := peer.Query(ctx, svc, false)
		if err != nil {
			return false, err
		}
		return len(got) == 1 && got[0].LastDirtyTimestamp == rec.LastDirtyTimestamp && got[0].OriginNode == rec.OriginNode, nil
	})
	if err != nil {
		return err
	}

	// A heartbeat sent to the peer must reach the origin, or the origin evicts the instance.
	if err := peer.Renew(ctx, svc, "a"); err != nil {
		return fmt.Errorf("renew on peer: %w", err)
	}
	err = eventually(ctx, cfg, "peer renewal on origin", func() (bool, error) {
		got, err := origin.Query(ctx, svc, false)
		if err != nil {
			return false, err
		}
		return len(got) == 1 && got[0].LeaseExpiryAt.After(rec.LeaseExpiryAt), nil
	})
	if err != nil {
		return err
	}

	if err := origin.SetStatus(ctx, svc, "a", domain.StatusOutOfService); err != nil {
		return fmt.Errorf("set status on origin: %w", err)
	}
	err = eventually(ctx, cfg, "status override on peer", func() (bool, error) {
		got, err := peer.Query(ctx, svc, true)
		if err != nil {
			return false, err
		}
		return len(got) == 1 && got[0].Status == domain.StatusOutOfService, nil
	})
	if err != nil {
		return err
	}

	if err := origin.Cancel(ctx, svc, "a"); err != nil {
		return fmt.Errorf("cancel on origin: %w", err)
	}
	return eventually(ctx, cfg, "cancellation on peer", func() (bool, error) {
		got, err := peer.Query(ctx, svc, true)
		if err != nil {
			return false, err
		}
		return len(got) == 0, nil
	})
}
