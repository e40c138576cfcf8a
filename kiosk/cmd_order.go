package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"menugenius/domain"
	"menugenius/kiosk/internal/service"

	"github.com/spf13/cobra"
)

var (
	orderTable    string
	orderCustomer string
	orderWatch    bool
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place and track orders",
}

var orderPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Send the basket to the kitchen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := svc.orders.PlaceOrder(cmd.Context(), svc.basket, orderTable, orderCustomer, svc.preferences.SelectedLanguage())
		if err != nil {
			return userError(err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Order %s placed.\n", order.Ref())
		printOrder(out, order)
		return nil
	},
}

var orderStatusCmd = &cobra.Command{
	Use:   "status [order-id-or-number]",
	Short: "Show an order; defaults to your current order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		} else if current := svc.orders.LoadCurrentUserOrder(); current != nil {
			ref = current.Ref()
		}
		if ref == "" {
			return errors.New("you have no current order; pass an order id or number")
		}

		if orderWatch {
			return watchOrder(cmd.Context(), cmd.OutOrStdout(), ref)
		}
		order, err := svc.orders.RefreshOrder(cmd.Context(), ref)
		if err != nil {
			return userError(err)
		}
		printOrder(cmd.OutOrStdout(), order)
		return nil
	},
}

var orderClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the current order on this kiosk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc.orders.ClearCurrentUserOrder()
		fmt.Fprintln(cmd.OutOrStdout(), "Current order cleared.")
		return nil
	},
}

func init() {
	orderPlaceCmd.Flags().StringVarP(&orderTable, "table", "t", "", "Table number (required)")
	orderPlaceCmd.Flags().StringVar(&orderCustomer, "name", "", "Name for the order")
	orderPlaceCmd.MarkFlagRequired("table")
	orderStatusCmd.Flags().BoolVarP(&orderWatch, "watch", "w", false, "Keep polling until the order is completed or cancelled")

	orderCmd.AddCommand(orderPlaceCmd, orderStatusCmd, orderClearCmd)
}

// watchOrder prints every status change of ref until the order reaches a
// terminal status or ctx is cancelled.
func watchOrder(ctx context.Context, out io.Writer, ref string) error {
	poller := service.NewPoller(svc.orders, svc.logger, svc.cfg.PollInterval, nil)

	var last *domain.Status
	var lastErr string
	unsubscribe := poller.View().Subscribe(func(view service.OrderView) {
		if view.Err != nil {
			if msg := domain.UserMessage(view.Err); msg != lastErr {
				lastErr = msg
				fmt.Fprintf(out, "  ! %s\n", msg)
			}
			return
		}
		lastErr = ""
		if view.Order == nil {
			return
		}
		status := view.Order.Status
		if last != nil && *last == status {
			return
		}
		last = &status
		fmt.Fprintf(out, "%-10s %s %3d%%\n", status, progressBar(status), status.Progress())
	})
	defer unsubscribe()

	poller.Watch(ref)
	done := make(chan struct{})
	go func() {
		poller.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		poller.Stop()
		<-done
	}
	return nil
}

func progressBar(status domain.Status) string {
	filled := status.Progress() / 10
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + "]"
}

func printOrder(out io.Writer, order domain.Order) {
	fmt.Fprintf(out, "Order %s  table %s  %s\n", order.Ref(), order.TableNumber, order.CustomerName)
	fmt.Fprintf(out, "Status: %s %s\n", order.Status, progressBar(order.Status))
	printLines(out, order.Items)
	fmt.Fprintf(out, "Total %s", order.TotalAmount.StringFixed(2))
	if order.ServiceCharge.IsPositive() {
		fmt.Fprintf(out, " + service %s = %s", order.ServiceCharge.StringFixed(2), order.FinalAmount().StringFixed(2))
	}
	fmt.Fprintln(out)
	if order.Notes != "" {
		fmt.Fprintf(out, "Notes: %s\n", order.Notes)
	}
}

func printLines(out io.Writer, items []domain.BasketItem) {
	for _, item := range items {
		fmt.Fprintf(out, "  %2d x %-28s %8s\n", item.Quantity, item.MenuItem.Name, item.Subtotal().StringFixed(2))
		if item.SpecialInstructions != "" {
			fmt.Fprintf(out, "       %s\n", item.SpecialInstructions)
		}
	}
}
