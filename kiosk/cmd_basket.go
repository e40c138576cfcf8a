package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"menugenius/domain"

	"github.com/spf13/cobra"
)

var basketCmd = &cobra.Command{
	Use:   "basket",
	Short: "Build the order basket",
}

var basketAddCmd = &cobra.Command{
	Use:   "add <menu-item-id> [quantity]",
	Short: "Add a dish to the basket",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		quantity := 1
		if len(args) == 2 {
			if quantity, err = parseQuantity(args[1]); err != nil {
				return err
			}
		}
		item, err := findMenuItem(cmd.Context(), id)
		if err != nil {
			return err
		}
		svc.basket.AddToBasket(item, quantity)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d x %s. Basket has %d items.\n", quantity, item.Name, svc.basket.ItemCount())
		return nil
	},
}

var basketRemoveCmd = &cobra.Command{
	Use:   "remove <menu-item-id>",
	Short: "Remove a dish from the basket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		svc.basket.RemoveFromBasket(id)
		return printBasket(cmd)
	},
}

var basketQtyCmd = &cobra.Command{
	Use:   "qty <menu-item-id> <quantity>",
	Short: "Set the quantity of a dish; zero removes it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be a number, got %q", args[1])
		}
		svc.basket.UpdateQuantity(id, quantity)
		return printBasket(cmd)
	},
}

var basketNoteCmd = &cobra.Command{
	Use:   "note <menu-item-id> <special instructions>",
	Short: "Attach special instructions to a dish",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		svc.basket.UpdateSpecialInstructions(id, strings.Join(args[1:], " "))
		return printBasket(cmd)
	},
}

var basketShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the basket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printBasket(cmd)
	},
}

var basketClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the basket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc.basket.Clear()
		fmt.Fprintln(cmd.OutOrStdout(), "Basket cleared.")
		return nil
	},
}

func init() {
	basketCmd.AddCommand(basketAddCmd, basketRemoveCmd, basketQtyCmd, basketNoteCmd, basketShowCmd, basketClearCmd)
}

func printBasket(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	items := svc.basket.Items()
	if len(items) == 0 {
		fmt.Fprintln(out, "Your basket is empty.")
		return nil
	}
	printLines(out, items)
	fmt.Fprintf(out, "%d items, total %s\n", svc.basket.ItemCount(), svc.basket.TotalAmount().StringFixed(2))
	return nil
}

func findMenuItem(ctx context.Context, id int) (domain.MenuItem, error) {
	items, err := svc.menu.MenuItems(ctx)
	if err != nil {
		return domain.MenuItem{}, userError(err)
	}
	for _, item := range items {
		if item.ID != id {
			continue
		}
		if !item.IsAvailable {
			return domain.MenuItem{}, fmt.Errorf("%s is sold out", item.Name)
		}
		return item, nil
	}
	return domain.MenuItem{}, fmt.Errorf("there is no menu item %d", id)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("menu item id must be a positive number, got %q", raw)
	}
	return id, nil
}

func parseQuantity(raw string) (int, error) {
	quantity, err := strconv.Atoi(raw)
	if err != nil || quantity < 1 {
		return 0, fmt.Errorf("quantity must be at least 1, got %q", raw)
	}
	return quantity, nil
}
