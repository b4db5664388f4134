package scenario

import (
	"context"
	"fmt"
	"time"

	"myregistry/domain"
)

const scenarioBasicWorkflow = "basic_workflow"

func init() {
	Register(scenarioBasicWorkflow, runBasicWorkflow)
}

// runBasicWorkflow walks one instance through its lifecycle on a single node.
func runBasicWorkflow(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := nodeClient(cfg, 0)
	if err != nil {
		return err
	}
	svc := uniqueService(scenarioBasicWorkflow)

	// 1. Register two instances
	for i, id := range []string{"b", "a"} {
		rec, err := client.Register(ctx, testRegistration(svc, id, 9000+i))
		if err != nil {
			return fmt.Errorf("register %s: %w", id, err)
		}
		if rec.Status != domain.StatusUp {
			return fmt.Errorf("register %s: status=%s, want UP", id, rec.Status)
		}
	}

	// 2. Query returns both, ordered by instance id
	got, err := client.Query(ctx, svc, false)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if ids := instanceIDs(got); !sameIDs(ids, "a", "b") {
		return fmt.Errorf("query: ids=%v, want [a b]", ids)
	}

	// 3. Renew
	if err := client.Renew(ctx, svc, "a"); err != nil {
		return fmt.Errorf("renew: %w", err)
	}

	// 4. Take a out of service: hidden from the default query, visible with include_all
	if err := client.SetStatus(ctx, svc, "a", domain.StatusOutOfService); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	got, err = client.Query(ctx, svc, false)
	if err != nil {
		return fmt.Errorf("query after set status: %w", err)
	}
	if ids := instanceIDs(got); !sameIDs(ids, "b") {
		return fmt.Errorf("query after set status: ids=%v, want [b]", ids)
	}
	all, err := client.Query(ctx, svc, true)
	if err != nil {
		return fmt.Errorf("query include_all: %w", err)
	}
	if len(all) != 2 || all[0].Status != domain.StatusOutOfService {
		return fmt.Errorf("query include_all: got %v", all)
	}

	// 5. Drop the override
	if err := client.DeleteStatusOverride(ctx, svc, "a"); err != nil {
		return fmt.Errorf("delete status override: %w", err)
	}

	// 6. Cancel twice; the second is a no-op
	for i := 0; i < 2; i++ {
		if err := client.Cancel(ctx, svc, "a"); err != nil {
			return fmt.Errorf("cancel (attempt %d): %w", i+1, err)
		}
	}
	got, err = client.Query(ctx, svc, true)
	if err != nil {
		return fmt.Errorf("query after cancel: %w", err)
	}
	if ids := instanceIDs(got); !sameIDs(ids, "b") {
		return fmt.Errorf("query after cancel: ids=%v, want [b]", ids)
	}

	return client.Cancel(ctx, svc, "b")
}
