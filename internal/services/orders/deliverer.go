package orders

import (
	"context"
	"log/slog"

	"github.com/mcoot/rustdonate/internal/model"
)

// Deliverer grants a purchased item to the order's delivery target
type Deliverer interface {
	Deliver(ctx context.Context, order model.Order) error
}

// DelivererFunc adapts a function to a Deliverer
type DelivererFunc func(ctx context.Context, order model.Order) error

func (f DelivererFunc) Deliver(ctx context.Context, order model.Order) error {
	return f(ctx, order)
}

// SimulatedDeliverer accepts every order without contacting a game server
type SimulatedDeliverer struct {
	logger *slog.Logger
}

// NewSimulatedDeliverer creates a SimulatedDeliverer
func NewSimulatedDeliverer(logger *slog.Logger) *SimulatedDeliverer {
	return &SimulatedDeliverer{logger: logger.With(slog.String("component", "deliverer"))}
}

func (d *SimulatedDeliverer) Deliver(ctx context.Context, order model.Order) error {
	d.logger.Debug("simulated delivery",
		slog.Int64("order_id", int64(order.ID)),
		slog.String("item", order.Item.Name),
		slog.String("delivery_target", order.DeliveryTarget))
	return nil
}
