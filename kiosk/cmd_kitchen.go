package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"menugenius/domain"

	"github.com/spf13/cobra"
)

var advanceNotes string

var kitchenCmd = &cobra.Command{
	Use:   "kitchen",
	Short: "Kitchen staff commands",
}

var kitchenLoginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Start a kitchen session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := svc.auth.Login(args[0], args[1])
		if err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s (%s). Session valid until %s.\n",
			session.User.FullName, session.User.Role, session.ExpiresAt.Local().Format("15:04"))
		return nil
	},
}

var kitchenLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the kitchen session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc.auth.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var kitchenWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current kitchen session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		user := svc.auth.CurrentUser()
		if user == nil {
			fmt.Fprintln(out, "Not logged in.")
			return nil
		}
		fmt.Fprintf(out, "%s (%s), %s remaining\n", user.Username, user.Role, svc.auth.TimeRemaining().Round(time.Second))
		if svc.auth.AboutToExpire() {
			fmt.Fprintln(out, "Your session is about to expire.")
		}
		return nil
	},
}

var kitchenOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show the active orders board",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.requireKitchen(domain.PermViewOrders); err != nil {
			return err
		}
		orders, err := svc.orders.ActiveOrders(cmd.Context())
		if err != nil {
			return userError(err)
		}
		out := cmd.OutOrStdout()
		if len(orders) == 0 {
			fmt.Fprintln(out, "No active orders.")
			return nil
		}
		for _, order := range orders {
			fmt.Fprintf(out, "%-22s table %-4s %-10s %s\n", order.Ref(), order.TableNumber, order.Status, order.CreatedAt.Local().Format("15:04"))
		}
		return nil
	},
}

var kitchenAdvanceCmd = &cobra.Command{
	Use:   "advance <order-id-or-number> <status>",
	Short: "Move an order to a new status (name or number)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.requireKitchen(domain.PermManageOrders); err != nil {
			return err
		}
		status, err := parseStatus(args[1])
		if err != nil {
			return userError(err)
		}
		order, err := svc.orders.UpdateOrderStatus(cmd.Context(), args[0], status, advanceNotes)
		if err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s.\n", order.Ref(), order.Status)
		return nil
	},
}

var kitchenUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List kitchen accounts (admin only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := svc.auth.ListUsers()
		if err != nil {
			return userError(err)
		}
		for _, user := range users {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-8s %s\n", user.Username, user.Role, user.FullName)
		}
		return nil
	},
}

func init() {
	kitchenAdvanceCmd.Flags().StringVar(&advanceNotes, "notes", "", "Notes to store with the order")

	kitchenCmd.AddCommand(kitchenLoginCmd, kitchenLogoutCmd, kitchenWhoamiCmd, kitchenOrdersCmd, kitchenAdvanceCmd, kitchenUsersCmd)
}

func parseStatus(raw string) (domain.Status, error) {
	if ordinal, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return domain.StatusFromOrdinal(ordinal)
	}
	return domain.ParseStatus(raw)
}
