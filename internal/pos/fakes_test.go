package pos

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Marcial-ar/tpv/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeCatalog struct {
	products []domain.Product
	err      error
	calls    int
}

func (c *fakeCatalog) ActiveProducts(ctx context.Context) ([]domain.Product, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

func (c *fakeCatalog) setPrice(id string, p decimal.Decimal) {
	for i := range c.products {
		if c.products[i].ID == id {
			c.products[i].FinalPrice = p
		}
	}
}

func product(id, name, finalPrice string) domain.Product {
	return domain.Product{ID: id, Name: name, FinalPrice: price(finalPrice), Stock: 10, Active: true}
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []*domain.Order
	err    error
}

func (s *fakeOrderStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.orders = append(s.orders, order)
	return nil
}

type statusUpdate struct {
	tableID      string
	status       domain.TableStatus
	currentOrder *string
}

type fakeTables struct {
	updates []statusUpdate
	err     error
}

func (t *fakeTables) UpdateTableStatus(ctx context.Context, tableID string, status domain.TableStatus, currentOrder *string) error {
	if t.err != nil {
		return t.err
	}
	t.updates = append(t.updates, statusUpdate{tableID: tableID, status: status, currentOrder: currentOrder})
	return nil
}

type published struct {
	key   string
	event any
}

type fakePublisher struct {
	events []published
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, key string, event any) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, published{key: key, event: event})
	return nil
}

type fakeUsers map[string]domain.User

func (u fakeUsers) User(ctx context.Context, id string) (*domain.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func decimalInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
