package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aquamarinepk/aqm"
	"golang.org/x/sync/errgroup"

	"github.com/appetiteclub/cafepos/pkg/enums/tablestatus"
	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// AllAreaID is the pseudo area that shows every table.
const AllAreaID = "all"

var allArea = api.TableArea{ID: AllAreaID, Name: "All", IsActive: true}

// SelectionModal is the pending confirm dialog of a table press.
type SelectionModal struct {
	TableID   string `json:"table_id"`
	TableName string `json:"table_name"`
	Deselect  bool   `json:"deselect"`
}

// TableController owns the table grid, the selection flow and table
// status writes.
type TableController struct {
	mu     sync.Mutex
	store  *Store
	tables TableAPI
	areas  AreaAPI
	outbox OccupancyOutbox
	events *StationEvents
	logger aqm.Logger
	modal  *SelectionModal
}

type TableControllerDeps struct {
	Store  *Store
	Tables TableAPI
	Areas  AreaAPI
	Outbox OccupancyOutbox
	Events *StationEvents
}

func NewTableController(deps TableControllerDeps, logger aqm.Logger) *TableController {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	store := deps.Store
	if store == nil {
		store = NewStore()
	}
	outbox := deps.Outbox
	if outbox == nil {
		outbox = NewMemoryOutbox()
	}
	return &TableController{
		store:  store,
		tables: deps.Tables,
		areas:  deps.Areas,
		outbox: outbox,
		events: deps.Events,
		logger: logger,
	}
}

// Load fetches tables and areas concurrently. Each list replaces its cache
// only when its own fetch succeeded.
func (c *TableController) Load(ctx context.Context) error {
	if c.tables == nil {
		return errors.New("table backend not configured")
	}

	var (
		g         errgroup.Group
		tables    []api.Table
		areas     []api.TableArea
		tablesErr error
		areasErr  error
	)

	g.Go(func() error {
		tables, tablesErr = c.tables.ListTables(ctx)
		return tablesErr
	})
	if c.areas != nil {
		g.Go(func() error {
			areas, areasErr = c.areas.ListAreas(ctx)
			return areasErr
		})
	}
	_ = g.Wait()

	if tablesErr == nil {
		c.store.ReplaceTables(tables)
	} else {
		c.logger.Error("cannot load tables", "error", tablesErr)
	}
	if c.areas != nil && areasErr == nil {
		c.store.ReplaceAreas(areas)
	} else if areasErr != nil {
		c.logger.Error("cannot load areas", "error", areasErr)
	}

	return errors.Join(tablesErr, areasErr)
}

// Sync is the poll tick: reload, then retry deferred occupancy writes.
func (c *TableController) Sync(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	c.Reconcile(ctx)
	return nil
}

// Areas returns the area filter list with the "All" entry first.
func (c *TableController) Areas() []api.TableArea {
	return append([]api.TableArea{allArea}, c.store.Areas()...)
}

// Filter returns the tables in areaID. Ids are compared in string form
// because the backend mixes numeric and string area ids.
func (c *TableController) Filter(areaID string) []api.Table {
	tables := c.store.Tables()
	areaID = strings.TrimSpace(areaID)
	if areaID == "" || strings.EqualFold(areaID, AllAreaID) {
		return tables
	}

	out := make([]api.Table, 0, len(tables))
	for _, t := range tables {
		if strings.TrimSpace(t.AreaID.String()) == areaID {
			out = append(out, t)
		}
	}
	return out
}

// Selectable returns the tables that may take a new order.
func (c *TableController) Selectable() []api.Table {
	var out []api.Table
	for _, t := range c.store.Tables() {
		if selectable(t) {
			out = append(out, t)
		}
	}
	return out
}

func selectable(t api.Table) bool {
	return availability(t) == nil
}

// availability is nil when the table may take a new order. A status code
// the terminal does not know is reported as such, not as occupied.
func availability(t api.Table) error {
	status, err := tablestatus.FromWire(t.Status)
	if err != nil {
		return fmt.Errorf("table %s: %w", t.ID, err)
	}
	if !status.Selectable() {
		return ErrTableOccupied
	}
	return nil
}

// Press opens the confirm modal for a table. Occupied tables are refused
// without a modal. Pressing the confirmed table offers a deselect.
func (c *TableController) Press(tableID string) (*SelectionModal, error) {
	table, ok := c.store.Table(tableID)
	if !ok {
		return nil, ErrTableNotFound
	}
	if err := availability(table); err != nil {
		c.logger.Info("unavailable table pressed", "table_id", tableID, "status", table.Status, "error", err)
		return nil, err
	}

	modal := &SelectionModal{
		TableID:   tableID,
		TableName: table.Name,
		Deselect:  c.store.IsConfirmed(tableID),
	}

	c.mu.Lock()
	c.modal = modal
	c.mu.Unlock()

	out := *modal
	return &out, nil
}

// Modal returns the pending selection, if any.
func (c *TableController) Modal() (*SelectionModal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modal == nil {
		return nil, false
	}
	out := *c.modal
	return &out, true
}

// ConfirmSelection applies the pending modal and returns the table now
// selected, or "" after a deselect.
func (c *TableController) ConfirmSelection() (string, error) {
	c.mu.Lock()
	modal := c.modal
	c.modal = nil
	c.mu.Unlock()

	if modal == nil {
		return "", ErrNoPendingSelection
	}

	if modal.Deselect {
		c.store.DeselectTable()
		return "", nil
	}

	// The table may have been taken by another station since the press.
	if table, ok := c.store.Table(modal.TableID); ok {
		if err := availability(table); err != nil {
			return "", err
		}
	}

	c.store.SelectTable(modal.TableID)
	return modal.TableID, nil
}

func (c *TableController) CancelSelection() {
	c.mu.Lock()
	c.modal = nil
	c.mu.Unlock()
}

// UpdateStatus writes the full table record with a new status. The local
// copy changes only after the backend accepted the write, and only its
// status field.
func (c *TableController) UpdateStatus(ctx context.Context, tableID string, status tablestatus.Status) error {
	if c.tables == nil {
		return errors.New("table backend not configured")
	}

	table, ok := c.store.Table(tableID)
	if !ok {
		fetched, err := c.tables.GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		table = *fetched
	}

	previous := table.Status
	if _, err := c.tables.UpdateTable(ctx, tableID, table.UpdateRequest(status.Value)); err != nil {
		c.logger.Error("cannot update table status", "table_id", tableID, "status", status.Name, "error", err)
		return err
	}

	c.store.SetTableStatus(tableID, status.Value)
	c.events.TableStatusChanged(ctx, tableID, status, previous, "")
	return nil
}

// MarkOccupied sets a table OCCUPIED for a new order. On failure the intent
// goes to the outbox and is retried on the next sync.
func (c *TableController) MarkOccupied(ctx context.Context, tableID, orderID string) error {
	err := c.UpdateStatus(ctx, tableID, tablestatus.Statuses.Occupied)
	if err == nil {
		return nil
	}

	intent := NewOccupancyIntent(tableID, orderID, err)
	if addErr := c.outbox.Add(ctx, intent); addErr != nil {
		c.logger.Error("cannot record occupancy intent", "table_id", tableID, "order_id", orderID, "error", addErr)
		return errors.Join(err, addErr)
	}
	return err
}

// Reconcile retries every pending occupancy intent once. Intents whose
// table is already OCCUPIED are dropped.
func (c *TableController) Reconcile(ctx context.Context) {
	intents, err := c.outbox.List(ctx)
	if err != nil {
		c.logger.Error("cannot read occupancy outbox", "error", err)
		return
	}

	for _, intent := range intents {
		if table, ok := c.store.Table(intent.TableID); ok && table.Status == tablestatus.Statuses.Occupied.Value {
			c.drop(ctx, intent)
			continue
		}

		if err := c.UpdateStatus(ctx, intent.TableID, tablestatus.Statuses.Occupied); err != nil {
			if markErr := c.outbox.MarkFailed(ctx, intent.ID, err.Error()); markErr != nil {
				c.logger.Error("cannot update occupancy intent", "intent_id", intent.ID, "error", markErr)
			}
			continue
		}
		c.drop(ctx, intent)
		c.logger.Info("deferred table occupancy applied", "table_id", intent.TableID, "order_id", intent.OrderID)
	}
}

func (c *TableController) drop(ctx context.Context, intent OccupancyIntent) {
	if err := c.outbox.Remove(ctx, intent.ID); err != nil {
		c.logger.Error("cannot remove occupancy intent", "intent_id", intent.ID, "error", err)
	}
}

// DeleteTable removes a table on the backend and reloads the grid.
func (c *TableController) DeleteTable(ctx context.Context, tableID string) error {
	if c.tables == nil {
		return errors.New("table backend not configured")
	}
	if err := c.tables.DeleteTable(ctx, tableID); err != nil {
		return err
	}
	if c.store.IsConfirmed(tableID) {
		c.store.DeselectTable()
	}
	return c.Load(ctx)
}

// Selected returns the table confirmed for the next order.
func (c *TableController) Selected() (string, bool) {
	return c.store.SelectedTable()
}

func (c *TableController) Table(id string) (api.Table, bool) {
	return c.store.Table(id)
}
