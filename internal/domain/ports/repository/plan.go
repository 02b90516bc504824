package repository

import (
	"context"

	"ecoponto-backend/internal/domain/model"
)

// PlanRepository reads externally-owned plan descriptors. Duplicate or
// missing rows are a fact of life here (schema drift); callers layer
// fallbacks instead of trusting a single lookup.
type PlanRepository interface {
	// FindActiveByType returns the newest active descriptor for a category.
	FindActiveByType(ctx context.Context, tx Tx, planType string) (*model.PlanDescriptor, error)
	FindByID(ctx context.Context, tx Tx, planID string) (*model.PlanDescriptor, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.PlanDescriptor, error)
}
