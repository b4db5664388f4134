package scenario

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"myregistry/adapters/registryhttp"
	"myregistry/domain"
)

const (
	serviceNamePrefix   = "integration-test"
	defaultPollInterval = 200 * time.Millisecond
)

// nodeClient creates a client for the i-th configured node.
func nodeClient(cfg *Config, i int) (*registryhttp.Client, error) {
	if i >= len(cfg.NodeURLs) {
		return nil, fmt.Errorf("scenario needs %d nodes, %d configured", i+1, len(cfg.NodeURLs))
	}
	return registryhttp.NewClient(cfg.NodeURLs[i], &http.Client{Timeout: 5 * time.Second}), nil
}

// uniqueService returns a service name no earlier run has used, so scenarios can run
// against a long-lived cluster.
func uniqueService(scenario string) string {
	return fmt.Sprintf("%s-%s-%d", serviceNamePrefix, scenario, time.Now().UnixNano())
}

func testRegistration(serviceName, instanceID string, port int) domain.Registration {
	return domain.Registration{
		ServiceName:   serviceName,
		InstanceID:    instanceID,
		Endpoint:      domain.Endpoint{Host: "127.0.0.1", Port: port, Metadata: map[string]string{"scenario": serviceName}},
		LeaseDuration: 30 * time.Second,
	}
}

// eventually polls check until it reports done, returns an error, or ctx expires.
func eventually(ctx context.Context, cfg *Config, what string, check func() (bool, error)) error {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		done, err := check()
		if err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: not observed before deadline: %w", what, ctx.Err())
		case <-ticker.C:
		}
	}
}

// instanceIDs returns the ids of records in query order.
func instanceIDs(records []domain.InstanceRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.InstanceID)
	}
	return ids
}

func sameIDs(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
