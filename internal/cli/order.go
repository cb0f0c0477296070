package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Order commands",
		Long:  "Buy items and inspect the order history.",
	}

	cmd.AddCommand(newOrderBuyCmd())
	cmd.AddCommand(newOrderListCmd())
	cmd.AddCommand(newOrderGetCmd())

	return cmd
}

func newOrderBuyCmd() *cobra.Command {
	var (
		itemID       int
		steamID      string
		wait         bool
		pollInterval time.Duration
		waitTimeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Buy a catalog item",
		Long: `Submit an order for a catalog item.

The item is delivered to --steam-id. When it is omitted and a player is logged in,
the logged in player's Steam ID is used. With --wait the command polls until the
order is delivered or fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req := map[string]any{}
			if cmd.Flags().Changed("item") {
				req["item_id"] = itemID
			}

			target := steamID
			if target == "" {
				var sess Session
				if err := client.Get(ctx, "/api/v1/session", &sess); err != nil {
					return err
				}
				if sess.Authenticated && sess.Identity != nil {
					target = sess.Identity.SteamID
				}
			}
			req["steam_id"] = target

			var order Order
			if err := client.Post(ctx, "/api/v1/orders", req, &order); err != nil {
				return err
			}

			if wait {
				resolved, err := waitForOrder(ctx, order.ID, pollInterval, waitTimeout)
				if err != nil {
					return err
				}
				order = resolved
			}

			output(cmd).Print(order)
			return nil
		},
	}

	cmd.Flags().IntVarP(&itemID, "item", "i", 0, "Catalog item ID")
	cmd.Flags().StringVarP(&steamID, "steam-id", "s", "", "Steam ID to deliver to (defaults to the logged in player)")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Wait until the order is delivered or fails")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 500*time.Millisecond, "How often to check the order while waiting")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 30*time.Second, "Give up waiting after this long")

	return cmd
}

// errWaitTimeout is returned when an order is still pending after the wait timeout
var errWaitTimeout = errors.New("timed out waiting for order")

func waitForOrder(ctx context.Context, id int64, interval, timeout time.Duration) (Order, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	path := "/api/v1/orders/" + strconv.FormatInt(id, 10)
	for {
		var order Order
		if err := client.Get(ctx, path, &order); err != nil {
			if ctx.Err() != nil {
				return Order{}, fmt.Errorf("%w %d", errWaitTimeout, id)
			}
			return Order{}, err
		}
		if order.Status != "pending" {
			return order, nil
		}

		select {
		case <-ctx.Done():
			return Order{}, fmt.Errorf("%w %d", errWaitTimeout, id)
		case <-ticker.C:
		}
	}
}

func newOrderListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/orders"
			if cmd.Flags().Changed("limit") {
				path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
			}

			var result OrderList
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of orders (0 for all; server default when omitted)")

	return cmd
}

func newOrderGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var order Order
			if err := client.Get(cmd.Context(), "/api/v1/orders/"+url.PathEscape(args[0]), &order); err != nil {
				return err
			}
			output(cmd).Print(order)
			return nil
		},
	}
}
