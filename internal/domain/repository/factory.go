package repository

import "context"

// Factory describes access to domain repositories and backing storage health.
type Factory interface {
	Orders() OrderRepository
	HealthCheck(ctx context.Context) error
}
