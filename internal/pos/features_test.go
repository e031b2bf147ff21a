package pos

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/Marcial-ar/tpv/internal/domain"
)

type tableRegistry struct {
	tables map[string]*domain.Table
}

func (r *tableRegistry) UpdateTableStatus(ctx context.Context, tableID string, status domain.TableStatus, currentOrder *string) error {
	t, ok := r.tables[tableID]
	if !ok {
		return fmt.Errorf("table %s not found", tableID)
	}
	t.Status = status
	t.CurrentOrder = currentOrder
	return nil
}

type posTestContext struct {
	catalog    *fakeCatalog
	orders     *fakeOrderStore
	tables     *tableRegistry
	users      fakeUsers
	session    *Session
	completion *Completion
	err        error
}

func (c *posTestContext) reset() {
	c.catalog = &fakeCatalog{}
	c.orders = &fakeOrderStore{}
	c.tables = &tableRegistry{tables: map[string]*domain.Table{}}
	c.users = fakeUsers{}
	c.session = nil
	c.completion = nil
	c.err = nil
}

func (c *posTestContext) theCatalogHasProduct(id, name, finalPrice string) error {
	c.catalog.products = append(c.catalog.products, product(id, name, finalPrice))
	return nil
}

func (c *posTestContext) aWaiterIsLoggedIn(id, name string) error {
	c.users[id] = domain.User{ID: id, Name: name, Role: domain.RoleWaiter, Active: true}
	cfg := DefaultConfig()
	finalizer := NewFinalizer(cfg, c.orders, c.tables, nil, testLogger())
	manager := NewSessionManager(cfg, c.users, c.catalog, finalizer, testLogger())
	s, err := manager.Start(context.Background(), id)
	if err != nil {
		return err
	}
	c.session = s
	return nil
}

func (c *posTestContext) tableInZoneIs(id, zone, status string) error {
	z, err := domain.ParseZone(zone)
	if err != nil {
		return err
	}
	st, err := domain.ParseTableStatus(status)
	if err != nil {
		return err
	}
	c.tables.tables[id] = &domain.Table{ID: id, Number: len(c.tables.tables) + 1, Zone: z, Seats: 4, Status: st}
	return nil
}

func (c *posTestContext) iAddProduct(id string) error {
	_, err := c.session.AddProduct(context.Background(), id)
	return err
}

func (c *posTestContext) iSetTheQuantityOfTo(id string, qty int) error {
	c.session.UpdateQuantity(id, qty)
	return nil
}

func (c *posTestContext) iRemoveProduct(id string) error {
	c.session.RemoveProduct(id)
	return nil
}

func (c *posTestContext) iSelectTable(id string) error {
	t, ok := c.tables.tables[id]
	if !ok {
		return fmt.Errorf("table %s not found", id)
	}
	return c.session.SelectTable(t)
}

func (c *posTestContext) iCompleteTheOrder() error {
	c.completion, c.err = c.session.Finalize(context.Background())
	return nil
}

func (c *posTestContext) theDraftHasLines(n int) error {
	if got := len(c.session.Draft().Lines); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *posTestContext) lineHasQuantityAndTotal(id string, qty int, total string) error {
	for _, l := range c.session.Draft().Lines {
		if l.ProductID != id {
			continue
		}
		if l.Quantity != qty {
			return fmt.Errorf("expected quantity %d, got %d", qty, l.Quantity)
		}
		if !l.Total.Equal(price(total)) {
			return fmt.Errorf("expected total %s, got %s", total, l.Total)
		}
		return nil
	}
	return fmt.Errorf("line %s not found", id)
}

func (c *posTestContext) theSubtotalIs(v string) error {
	return expectAmount("subtotal", c.session.Draft().Totals.Subtotal.String(), v)
}

func (c *posTestContext) theTaxIs(v string) error {
	return expectAmount("tax", c.session.Draft().Totals.TaxAmount.String(), v)
}

func (c *posTestContext) theTotalIs(v string) error {
	return expectAmount("total", c.session.Draft().Totals.Total.String(), v)
}

func (c *posTestContext) theOrderIsCompletedWithTotal(v string) error {
	if c.err != nil {
		return fmt.Errorf("expected order, got error: %v", c.err)
	}
	if c.completion.Order.Status != domain.OrderStatusCompleted {
		return fmt.Errorf("expected completed order, got %s", c.completion.Order.Status)
	}
	return expectAmount("order total", c.completion.Order.Total.String(), v)
}

func (c *posTestContext) theOrderTaxIs(v string) error {
	return expectAmount("order tax", c.completion.Order.TaxAmount.String(), v)
}

func (c *posTestContext) tableIs(id, status string) error {
	t := c.tables.tables[id]
	if string(t.Status) != status {
		return fmt.Errorf("expected table %s %s, got %s", id, status, t.Status)
	}
	if status == string(domain.TableStatusAvailable) && t.CurrentOrder != nil {
		return fmt.Errorf("expected table %s without current order", id)
	}
	return nil
}

func (c *posTestContext) noTableIsSelected() error {
	if c.session.Draft().Table != nil {
		return errors.New("expected no table selected")
	}
	return nil
}

func (c *posTestContext) completingFailsWith(msg string) error {
	if c.err == nil {
		return errors.New("expected an error")
	}
	if c.err.Error() != msg {
		return fmt.Errorf("expected error %q, got %q", msg, c.err.Error())
	}
	return nil
}

func (c *posTestContext) noOrderWasStored() error {
	if len(c.orders.orders) != 0 {
		return fmt.Errorf("expected no orders, got %d", len(c.orders.orders))
	}
	return nil
}

func expectAmount(what, got, want string) error {
	if !price(got).Equal(price(want)) {
		return fmt.Errorf("expected %s %s, got %s", what, want, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &posTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the catalog has product "([^"]*)" named "([^"]*)" priced (\d+\.\d+)$`, tc.theCatalogHasProduct)
	ctx.Step(`^a waiter "([^"]*)" named "([^"]*)" is logged in$`, tc.aWaiterIsLoggedIn)
	ctx.Step(`^table "([^"]*)" in the "([^"]*)" zone is "([^"]*)"$`, tc.tableInZoneIs)

	ctx.Step(`^I add product "([^"]*)"$`, tc.iAddProduct)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I remove product "([^"]*)"$`, tc.iRemoveProduct)
	ctx.Step(`^I select table "([^"]*)"$`, tc.iSelectTable)
	ctx.Step(`^I complete the order$`, tc.iCompleteTheOrder)

	ctx.Step(`^the draft has (\d+) lines?$`, tc.theDraftHasLines)
	ctx.Step(`^line "([^"]*)" has quantity (\d+) and total (\d+\.\d+)$`, tc.lineHasQuantityAndTotal)
	ctx.Step(`^the subtotal is (\d+\.\d+)$`, tc.theSubtotalIs)
	ctx.Step(`^the tax is (\d+\.\d+)$`, tc.theTaxIs)
	ctx.Step(`^the total is (\d+\.\d+)$`, tc.theTotalIs)
	ctx.Step(`^the order is completed with total (\d+\.\d+)$`, tc.theOrderIsCompletedWithTotal)
	ctx.Step(`^the order tax is (\d+\.\d+)$`, tc.theOrderTaxIs)
	ctx.Step(`^table "([^"]*)" is "([^"]*)"$`, tc.tableIs)
	ctx.Step(`^no table is selected$`, tc.noTableIsSelected)
	ctx.Step(`^completing fails with "([^"]*)"$`, tc.completingFailsWith)
	ctx.Step(`^no order was stored$`, tc.noOrderWasStored)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
