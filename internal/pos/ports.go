package pos

import (
	"context"

	"github.com/Marcial-ar/tpv/internal/domain"
)

// Catalog returns the products that can be sold right now.
type Catalog interface {
	ActiveProducts(ctx context.Context) ([]domain.Product, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

type TableStatusUpdater interface {
	UpdateTableStatus(ctx context.Context, tableID string, status domain.TableStatus, currentOrder *string) error
}

// UserDirectory resolves the operator of a session. User returns nil, nil
// when the id is unknown.
type UserDirectory interface {
	User(ctx context.Context, id string) (*domain.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}
