package property

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/property-dashboard/internal/logging"
	"github.com/example/property-dashboard/internal/notify"
	"github.com/example/property-dashboard/internal/storage"
)

// SnapshotKey is the storage key holding the persisted property snapshot.
const SnapshotKey = "property-dashboard-data"

// Container owns the property aggregate for the lifetime of the process.
// Mutation happens only through dispatched actions; every change schedules a
// debounced full-snapshot write to the key-value store.
type Container struct {
	kv       storage.KeyValueStore
	notifier notify.Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	state State

	saver *debouncer
}

// NewContainer constructs the container with the built-in default state.
// debounceWindow controls how long dispatches must stay quiet before the
// snapshot is written; zero or negative falls back to one second.
func NewContainer(kv storage.KeyValueStore, notifier notify.Notifier, debounceWindow time.Duration, logger *slog.Logger) *Container {
	if notifier == nil {
		notifier = notify.Nop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		kv:       kv,
		notifier: notifier,
		logger:   logger,
		state:    DefaultState(),
	}
	c.saver = newDebouncer(debounceWindow, c.saveSnapshot)
	return c
}

// Load reads the persisted snapshot once and merges it over the defaults. An
// absent or unparseable snapshot leaves the defaults standing; a read failure
// never prevents initialization.
func (c *Container) Load(ctx context.Context) {
	logger := c.loggerFor(ctx, "Load")

	raw, ok, err := c.kv.Get(SnapshotKey)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read saved snapshot, using defaults", "error", err)
		return
	}
	if !ok {
		return
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		logger.ErrorContext(ctx, "saved snapshot is corrupt, using defaults", "error", err)
		return
	}

	c.mu.Lock()
	c.state = Reduce(c.state, LoadData{Snapshot: snapshot})
	c.mu.Unlock()

	logger.InfoContext(ctx, "snapshot restored")
}

// State returns a deep copy of the current aggregate.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Dispatch applies an action and schedules the debounced snapshot write.
// Actions are applied in the order Dispatch is called.
func (c *Container) Dispatch(action Action) {
	c.mu.Lock()
	c.state = Reduce(c.state, action)
	c.mu.Unlock()

	c.saver.trigger()
}

// UpdateResident merges the given fields into the resident record and
// surfaces a success notification.
func (c *Container) UpdateResident(changes ResidentChanges) {
	c.Dispatch(UpdateResident{Changes: changes})
	c.notifier.Notify(notify.Notification{
		Title:       "Bewohner aktualisiert",
		Description: "Die Bewohnerdaten wurden erfolgreich gespeichert.",
	})
}

// UpdateInspection merges the given sections into the inspection data and
// surfaces a success notification.
func (c *Container) UpdateInspection(changes InspectionChanges) {
	c.Dispatch(UpdateInspection{Changes: changes})
	c.notifier.Notify(notify.Notification{
		Title:       "Inspektion aktualisiert",
		Description: "Die Inspektionsdaten wurden erfolgreich gespeichert.",
	})
}

// AddMaintenanceOrder appends a new order. It reports false, without
// notifying, when the id is already taken.
func (c *Container) AddMaintenanceOrder(order MaintenanceOrder) bool {
	c.mu.Lock()
	for _, existing := range c.state.Analytics.Orders {
		if existing.ID == order.ID {
			c.mu.Unlock()
			return false
		}
	}
	c.state = Reduce(c.state, AddMaintenanceOrder{Order: order})
	c.mu.Unlock()
	c.saver.trigger()

	c.notifier.Notify(notify.Notification{
		Title:       "Wartungsauftrag erstellt",
		Description: "Der neue Wartungsauftrag wurde erfolgreich hinzugefügt.",
	})
	return true
}

// UpdateMaintenanceOrder merges changes into the order with the given id and
// reports whether an order matched. A miss is not an error and dispatches
// nothing.
func (c *Container) UpdateMaintenanceOrder(id string, changes OrderChanges) bool {
	if !c.orderExists(id) {
		return false
	}
	c.Dispatch(UpdateMaintenanceOrder{ID: id, Changes: changes})
	c.notifier.Notify(notify.Notification{
		Title:       "Wartungsauftrag aktualisiert",
		Description: "Der Wartungsauftrag wurde erfolgreich aktualisiert.",
	})
	return true
}

// DeleteMaintenanceOrder removes the order with the given id and reports
// whether an order matched. A miss is not an error and dispatches nothing.
func (c *Container) DeleteMaintenanceOrder(id string) bool {
	if !c.orderExists(id) {
		return false
	}
	c.Dispatch(DeleteMaintenanceOrder{ID: id})
	c.notifier.Notify(notify.Notification{
		Title:       "Wartungsauftrag gelöscht",
		Description: "Der Wartungsauftrag wurde erfolgreich entfernt.",
		Destructive: true,
	})
	return true
}

func (c *Container) orderExists(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, order := range c.state.Analytics.Orders {
		if order.ID == id {
			return true
		}
	}
	return false
}

// SetLoading toggles the transient loading flag.
func (c *Container) SetLoading(loading bool) {
	c.Dispatch(SetLoading{Loading: loading})
}

// SetError records an error message; a non-empty message additionally
// surfaces a failure notification.
func (c *Container) SetError(message string) {
	c.Dispatch(SetError{Message: message})
	if message != "" {
		c.notifier.Notify(notify.Notification{
			Title:       "Fehler",
			Description: message,
			Destructive: true,
		})
	}
}

// SetActiveTab records the visible tab.
func (c *Container) SetActiveTab(tab string) {
	c.Dispatch(SetActiveTab{Tab: tab})
}

// SetSearchQuery records the furniture search query.
func (c *Container) SetSearchQuery(query string) {
	c.Dispatch(SetSearchQuery{Query: query})
}

// SetSelectedRoom records the selected room; empty clears the selection.
func (c *Container) SetSelectedRoom(room string) {
	c.Dispatch(SetSelectedRoom{Room: room})
}

// FilterFurniture returns the furniture items whose name or category matches
// the query case-insensitively. An empty query returns everything.
func (c *Container) FilterFurniture(query string) []FurnitureItem {
	needle := strings.ToLower(strings.TrimSpace(query))

	c.mu.Lock()
	items := append([]FurnitureItem(nil), c.state.Inspection.Items...)
	c.mu.Unlock()

	if needle == "" {
		return items
	}

	matched := items[:0]
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(item.Category), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

// OrderTally counts maintenance orders by status.
type OrderTally struct {
	Pending    int
	InProgress int
	Completed  int
}

// OrderTotals tallies the current maintenance orders by status.
func (c *Container) OrderTotals() OrderTally {
	c.mu.Lock()
	defer c.mu.Unlock()

	var tally OrderTally
	for _, order := range c.state.Analytics.Orders {
		switch order.Status {
		case OrderPending:
			tally.Pending++
		case OrderInProgress:
			tally.InProgress++
		case OrderCompleted:
			tally.Completed++
		}
	}
	return tally
}

// Flush writes any pending snapshot immediately. Called on shutdown.
func (c *Container) Flush() {
	c.saver.flush()
}

// Close stops the snapshot scheduler without writing.
func (c *Container) Close() {
	c.saver.stop()
}

// saveSnapshot serializes the aggregate and writes it under SnapshotKey.
// Failures are logged; persistence is best effort.
func (c *Container) saveSnapshot() {
	c.mu.Lock()
	encoded, err := json.Marshal(c.state)
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("failed to encode property snapshot", "error", err)
		return
	}
	if err := c.kv.Set(SnapshotKey, string(encoded)); err != nil {
		c.logger.Error("failed to save property snapshot", "error", err)
	}
}

func (c *Container) loggerFor(ctx context.Context, operation string) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = c.logger
	}
	return logger.With("container", "PropertyContainer", "operation", operation)
}
