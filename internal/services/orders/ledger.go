// Package orders records purchase submissions and drives each order from
// Pending to a terminal status through an asynchronous delivery step.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/rustdonate/internal/dependencies/clock"
	"github.com/mcoot/rustdonate/internal/metrics"
	"github.com/mcoot/rustdonate/internal/model"
	"github.com/mcoot/rustdonate/internal/notify"
)

// DefaultDelay is the time between submission and delivery
const DefaultDelay = 2 * time.Second

// Rejection reasons reported to metrics
const (
	RejectNoItemSelected        = "no_item_selected"
	RejectMissingDeliveryTarget = "missing_delivery_target"
)

// Notice titles
const (
	TitleValidationError   = "Error"
	TitleProcessingPayment = "Processing payment..."
	TitleItemDelivered     = "Item delivered!"
	TitleDeliveryFailed    = "Delivery failed"
)

// LedgerConfig configures a Ledger
type LedgerConfig struct {
	Delay time.Duration
}

// DefaultLedgerConfig returns the default ledger configuration
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{Delay: DefaultDelay}
}

// Ledger owns the ordered list of orders. All mutations go through its lock,
// and every status change is a check-and-set from Pending.
type Ledger struct {
	cfg       LedgerConfig
	deliverer Deliverer
	notifier  notify.Notifier
	clock     clock.Clock
	logger    *slog.Logger
	metrics   metrics.Recorder
	scheduler *Scheduler

	// ctx is cancelled on Close so in-flight deliveries can stop
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	orders []*model.Order // most recent first
	byID   map[model.OrderID]*model.Order
	lastID model.OrderID
	closed bool
}

// NewLedger creates an empty Ledger
func NewLedger(cfg LedgerConfig, deliverer Deliverer, notifier notify.Notifier, clk clock.Clock, logger *slog.Logger, recorder metrics.Recorder) *Ledger {
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Ledger{
		cfg:       cfg,
		deliverer: deliverer,
		notifier:  notifier,
		clock:     clk,
		logger:    logger.With(slog.String("component", "orders")),
		metrics:   recorder,
		scheduler: NewScheduler(clk),
		ctx:       ctx,
		cancel:    cancel,
		byID:      make(map[model.OrderID]*model.Order),
	}
}

// Submit validates a purchase and records it as Pending. Fulfillment runs
// asynchronously after the configured delay; Submit never waits for it.
//
// A nil item reports model.ErrNoItemSelected and a blank target reports
// model.ErrMissingDeliveryTarget, in that order. Rejected submissions never
// enter the ledger.
func (l *Ledger) Submit(ctx context.Context, item *model.CatalogItem, deliveryTarget string) (model.OrderID, error) {
	if item == nil {
		l.reject(RejectNoItemSelected, "Select an item to purchase")
		return 0, model.ErrNoItemSelected
	}
	deliveryTarget = strings.TrimSpace(deliveryTarget)
	if deliveryTarget == "" {
		l.reject(RejectMissingDeliveryTarget, "Enter your Steam ID")
		return 0, model.ErrMissingDeliveryTarget
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0, model.ErrLedgerClosed
	}
	now := l.clock.Now()
	id := l.nextIDLocked(now)
	order := &model.Order{
		ID:             id,
		Item:           *item,
		DeliveryTarget: deliveryTarget,
		Status:         model.OrderPending,
		CreatedAt:      now,
	}
	l.orders = append([]*model.Order{order}, l.orders...)
	l.byID[id] = order
	l.mu.Unlock()

	l.metrics.RecordOrderSubmitted()
	l.logger.InfoContext(ctx, "order submitted",
		slog.Int64("order_id", int64(id)),
		slog.Int("item_id", int(item.ID)),
		slog.String("item", item.Name),
		slog.Int("price", item.Price),
		slog.String("delivery_target", deliveryTarget))

	l.notifier.Notify(model.Notice{
		Title:       TitleProcessingPayment,
		Description: "Your item will be delivered in a few seconds",
		Variant:     model.NoticeDefault,
		OrderID:     id,
	})

	if !l.scheduler.Schedule(id, l.cfg.Delay, func() { l.fulfill(id) }) {
		l.logger.Warn("fulfillment not scheduled", slog.Int64("order_id", int64(id)))
	}

	return id, nil
}

// nextIDLocked allocates a time-derived, strictly increasing order ID
func (l *Ledger) nextIDLocked(now time.Time) model.OrderID {
	id := model.OrderID(now.UnixMilli())
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *Ledger) reject(reason, description string) {
	l.metrics.RecordOrderRejected(reason)
	l.logger.Info("order rejected", slog.String("reason", reason))
	l.notifier.Notify(model.Notice{
		Title:       TitleValidationError,
		Description: description,
		Variant:     model.NoticeDestructive,
	})
}

// fulfill runs the delivery step for one order
func (l *Ledger) fulfill(id model.OrderID) {
	order, err := l.Get(id)
	if err != nil || order.Status != model.OrderPending {
		return
	}

	deliverErr := l.deliverer.Deliver(l.ctx, order)
	if deliverErr != nil && l.ctx.Err() != nil {
		l.logger.Info("delivery interrupted by shutdown", slog.Int64("order_id", int64(id)))
		return
	}

	status, reason := model.OrderDelivered, ""
	if deliverErr != nil {
		status, reason = model.OrderFailed, deliverErr.Error()
	}
	if _, err := l.Resolve(id, status, reason); err != nil {
		l.logger.Error("failed to resolve order",
			slog.Int64("order_id", int64(id)),
			slog.Any("error", err))
	}
}

// Resolve moves a Pending order to a terminal status. It returns true if the
// transition was applied and false if the order had already left Pending,
// which is not an error.
func (l *Ledger) Resolve(id model.OrderID, status model.OrderStatus, reason string) (bool, error) {
	if !status.IsTerminal() {
		return false, fmt.Errorf("%w: to %s", model.ErrInvalidTransition, status)
	}

	l.mu.Lock()
	order, ok := l.byID[id]
	if !ok {
		l.mu.Unlock()
		return false, model.ErrOrderNotFound
	}
	if !order.Status.CanTransition(status) {
		l.mu.Unlock()
		return false, nil
	}
	now := l.clock.Now()
	order.Status = status
	order.ResolvedAt = now
	if status == model.OrderFailed {
		order.FailureReason = reason
	}
	snapshot := *order
	l.mu.Unlock()

	l.scheduler.Cancel(id)

	latency := snapshot.ResolvedAt.Sub(snapshot.CreatedAt)
	l.metrics.RecordOrderResolved(string(status), latency)

	switch status {
	case model.OrderDelivered:
		l.logger.Info("order delivered",
			slog.Int64("order_id", int64(id)),
			slog.Duration("latency", latency))
		l.notifier.Notify(model.Notice{
			Title:       TitleItemDelivered,
			Description: snapshot.Item.Name + " was delivered to the server",
			Variant:     model.NoticeDefault,
			OrderID:     id,
		})
	case model.OrderFailed:
		l.logger.Warn("order failed",
			slog.Int64("order_id", int64(id)),
			slog.String("reason", reason))
		l.notifier.Notify(model.Notice{
			Title:       TitleDeliveryFailed,
			Description: failureDescription(snapshot),
			Variant:     model.NoticeDestructive,
			OrderID:     id,
		})
	}

	return true, nil
}

func failureDescription(order model.Order) string {
	if order.FailureReason == "" {
		return order.Item.Name + " could not be delivered"
	}
	return order.Item.Name + " could not be delivered: " + order.FailureReason
}

// List returns orders most recent first, capped to limit when limit > 0
func (l *Ledger) List(limit int) []model.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.orders)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]model.Order, n)
	for i := range n {
		result[i] = *l.orders[i]
	}
	return result
}

// Get returns a snapshot of one order
func (l *Ledger) Get(id model.OrderID) (model.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	order, ok := l.byID[id]
	if !ok {
		return model.Order{}, model.ErrOrderNotFound
	}
	return *order, nil
}

// Len returns the number of orders in the ledger
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}

// Summary aggregates the ledger by status
func (l *Ledger) Summary() model.OrderSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var summary model.OrderSummary
	for _, order := range l.orders {
		summary.Total++
		switch order.Status {
		case model.OrderPending:
			summary.Pending++
		case model.OrderDelivered:
			summary.Delivered++
			summary.TotalSpent += order.Item.Price
		case model.OrderFailed:
			summary.Failed++
		}
	}
	return summary
}

// Close stops accepting orders, cancels pending fulfillment and waits for
// deliveries already running. Orders that never fired stay Pending.
func (l *Ledger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.cancel()
	l.scheduler.Close()

	pending := l.Summary().Pending
	if pending > 0 {
		l.logger.Info("ledger closed with pending orders", slog.Int("pending", pending))
	}
	return nil
}

// IsClosed reports whether Close has been called
func (l *Ledger) IsClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}
