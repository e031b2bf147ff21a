package pos

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Marcial-ar/tpv/internal/domain"
)

// Builder holds one draft order: its lines in insertion order, the zone and
// the optional table. It is not safe for concurrent use; Session serializes
// access to it.
type Builder struct {
	catalog Catalog
	pricer  Pricer
	policy  ZonePolicy

	lines []domain.OrderLine
	zone  domain.Zone
	table *domain.Table
}

func NewBuilder(catalog Catalog, cfg Config) *Builder {
	return &Builder{
		catalog: catalog,
		pricer:  cfg.Pricer,
		policy:  cfg.ZonePolicy,
		zone:    cfg.DefaultZone,
	}
}

// DraftView is a detached copy of a draft.
type DraftView struct {
	Lines  []domain.OrderLine `json:"lines"`
	Zone   domain.Zone        `json:"zone"`
	Table  *domain.Table      `json:"table,omitempty"`
	Totals Totals             `json:"totals"`
}

// AddProduct adds one unit of an active catalog product. A product already in
// the draft keeps the unit price it had when first added. It reports false
// when the id does not resolve to an active product. The error is only set
// when the catalog could not be read.
func (b *Builder) AddProduct(ctx context.Context, productID string) (bool, error) {
	product, err := b.resolve(ctx, productID)
	if err != nil || product == nil {
		return false, err
	}

	if i := b.index(productID); i >= 0 {
		l := &b.lines[i]
		l.Quantity++
		l.Total = lineTotal(l.Quantity, l.UnitPrice)
		linesAdded.Add(ctx, 1, metric.WithAttributes(attribute.Bool("merged", true)))
		return true, nil
	}

	b.lines = append(b.lines, domain.OrderLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    1,
		UnitPrice:   product.FinalPrice,
		Total:       product.FinalPrice,
	})
	linesAdded.Add(ctx, 1, metric.WithAttributes(attribute.Bool("merged", false)))
	return true, nil
}

// UpdateQuantity replaces the quantity of a line. A quantity of zero or less
// removes it. It reports false when the product is not in the draft.
func (b *Builder) UpdateQuantity(productID string, quantity int) bool {
	i := b.index(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		b.lines = append(b.lines[:i], b.lines[i+1:]...)
		return true
	}
	b.lines[i].Quantity = quantity
	b.lines[i].Total = lineTotal(quantity, b.lines[i].UnitPrice)
	return true
}

func (b *Builder) RemoveProduct(productID string) bool {
	return b.UpdateQuantity(productID, 0)
}

// SelectTable attaches a table to the draft, or detaches it when table is nil.
func (b *Builder) SelectTable(table *domain.Table) error {
	if table == nil {
		b.table = nil
		return nil
	}
	if !b.policy.allows(b.zone, table) {
		return ErrTableZoneMismatch
	}
	t := *table
	b.table = &t
	return nil
}

// SetZone switches the draft zone. Lines are never touched.
func (b *Builder) SetZone(zone domain.Zone) error {
	if !zone.Valid() {
		return ErrInvalidZone
	}
	b.zone = zone
	if !b.policy.allows(zone, b.table) {
		b.table = nil
	}
	return nil
}

func (b *Builder) Totals() Totals {
	return b.pricer.Totals(b.lines)
}

func (b *Builder) Lines() []domain.OrderLine {
	out := make([]domain.OrderLine, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Builder) Zone() domain.Zone {
	return b.zone
}

func (b *Builder) Table() *domain.Table {
	if b.table == nil {
		return nil
	}
	t := *b.table
	return &t
}

func (b *Builder) Empty() bool {
	return len(b.lines) == 0
}

func (b *Builder) Snapshot() DraftView {
	return DraftView{
		Lines:  b.Lines(),
		Zone:   b.zone,
		Table:  b.Table(),
		Totals: b.Totals(),
	}
}

// Reset starts a fresh draft in the same zone.
func (b *Builder) Reset() {
	b.lines = nil
	b.table = nil
}

func (b *Builder) resolve(ctx context.Context, productID string) (*domain.Product, error) {
	products, err := b.catalog.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == productID && products[i].Active {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (b *Builder) index(productID string) int {
	for i, l := range b.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
