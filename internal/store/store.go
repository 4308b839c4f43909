package store

import (
	"context"

	"github.com/fixwell/mrt/internal/models"
)

// Store defines the persistence interface for maintenance requests.
type Store interface {
	// CreateRequest persists a new request, assigning ID, Reference, and
	// CreatedAt. The insert is all-or-nothing.
	CreateRequest(ctx context.Context, req *models.MaintenanceRequest) error
	GetRequest(ctx context.Context, id int64) (*models.MaintenanceRequest, error)
	// ListRequests returns a page of requests ordered newest first, plus
	// the total row count irrespective of pagination.
	ListRequests(ctx context.Context, skip, limit int) ([]*models.MaintenanceRequest, int, error)
	AnalyticsStats(ctx context.Context) (*models.AnalyticsStats, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
