package scenario

import (
	"context"
	"fmt"
	"time"

	"myregistry/domain"
	"myregistry/service"
)

const scenarioRenewUnknownInstance = "renew_unknown_instance"

func init() {
	Register(scenarioRenewUnknownInstance, runRenewUnknownInstance)
}

// runRenewUnknownInstance checks the client recovery path: a heartbeat for an instance the
// node does not know is rejected with entity_not_found, and re-registering fixes it.
func runRenewUnknownInstance(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := nodeClient(cfg, 0)
	if err != nil {
		return err
	}
	svc := uniqueService(scenarioRenewUnknownInstance)

	err = client.Renew(ctx, svc, "ghost")
	if !service.IsEntityNotFoundError(err) {
		return fmt.Errorf("renew unknown: err=%v, want entity_not_found", err)
	}
	err = client.SetStatus(ctx, svc, "ghost", domain.StatusDown)
	if !service.IsEntityNotFoundError(err) {
		return fmt.Errorf("set status unknown: err=%v, want entity_not_found", err)
	}

	if _, err := client.Register(ctx, testRegistration(svc, "ghost", 9100)); err != nil {
		return fmt.Errorf("re-register: %w", err)
	}
	if err := client.Renew(ctx, svc, "ghost"); err != nil {
		return fmt.Errorf("renew after re-register: %w", err)
	}

	_, err = client.Register(ctx, testRegistration(svc, "", 9100))
	if !service.IsBadParameterError(err) {
		return fmt.Errorf("register without id: err=%v, want bad_parameter", err)
	}

	return client.Cancel(ctx, svc, "ghost")
}
