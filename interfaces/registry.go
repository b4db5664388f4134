package interfaces

import (
	"context"

	"myregistry/domain"
)

// Registry is the operation surface consumed by the HTTP transport.
//
// Implemented by service.Registry. Errors are service.MyError values:
// entity_not_found for unknown instances on Renew/SetStatus/DeleteStatusOverride,
// bad_parameter for invalid input.
//
//go:generate moq -stub -out mock/registry.go -pkg mock . Registry
type Registry interface {
	// Register inserts or replaces the instance and returns the stored snapshot.
	Register(ctx context.Context, reg domain.Registration) (domain.InstanceRecord, error)

	// Renew resets the lease. entity_not_found means the client must re-register.
	Renew(ctx context.Context, serviceName, instanceID string) error

	// Cancel removes the instance; cancelling an absent instance succeeds.
	Cancel(ctx context.Context, serviceName, instanceID string) error

	// SetStatus overrides the effective status without re-registration.
	SetStatus(ctx context.Context, serviceName, instanceID string, status domain.Status) error

	// DeleteStatusOverride drops the override set by SetStatus.
	DeleteStatusOverride(ctx context.Context, serviceName, instanceID string) error

	// Query returns snapshots ordered by instance id; UP only unless includeAll.
	Query(ctx context.Context, serviceName string, includeAll bool) ([]domain.InstanceRecord, error)

	// Services returns the sorted names of all known services.
	Services(ctx context.Context) ([]string, error)

	// QueryDelta returns the changes with a version above since.
	QueryDelta(ctx context.Context, since uint64) (domain.Delta, error)

	// Status reports node and self-preservation state.
	Status(ctx context.Context) (domain.RegistryStatus, error)
}
