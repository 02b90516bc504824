package repository

import (
	"context"

	"ecoponto-backend/internal/domain/model"
)

// UserRepository resolves tenant users. FindByContact is the fallback
// identity path when a correlation token cannot be decoded.
type UserRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByContact(ctx context.Context, tx Tx, contact string) (*model.User, error)
}
