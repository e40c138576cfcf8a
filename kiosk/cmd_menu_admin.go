package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"menugenius/domain"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type menuItemFlags struct {
	name        string
	price       string
	description string
	category    string
	cuisine     string
	ingredients []string
	diet        []string
	spice       string
	calories    int
	imageURL    string
	available   bool
}

func (f *menuItemFlags) bind(flags *pflag.FlagSet) {
	flags.StringVar(&f.price, "price", "", "Price, e.g. 12.50")
	flags.StringVar(&f.description, "description", "", "Short description")
	flags.StringVar(&f.category, "category", "", "Category, e.g. Main Course")
	flags.StringVar(&f.cuisine, "cuisine", "", "Cuisine, e.g. Thai")
	flags.StringSliceVar(&f.ingredients, "ingredients", nil, "Ingredients")
	flags.StringSliceVar(&f.diet, "diet", nil, "Dietary tags (e.g. vegan,gluten-free)")
	flags.StringVar(&f.spice, "spice", "", "Spice level: None, Mild, Medium, Hot or Very Hot")
	flags.IntVar(&f.calories, "calories", 0, "Calories per portion")
	flags.StringVar(&f.imageURL, "image-url", "", "Image URL")
	flags.BoolVar(&f.available, "available", true, "Whether guests can order it")
}

// apply copies every flag the user set onto req.
func (f *menuItemFlags) apply(flags *pflag.FlagSet, req *domain.MenuItemRequest) error {
	if flags.Changed("name") {
		req.Name = f.name
	}
	if flags.Changed("price") {
		price, err := decimal.NewFromString(strings.TrimSpace(f.price))
		if err != nil {
			return fmt.Errorf("price must be a number, got %q", f.price)
		}
		req.Price = price
	}
	if flags.Changed("description") {
		req.Description = f.description
	}
	if flags.Changed("category") {
		req.Category = f.category
	}
	if flags.Changed("cuisine") {
		req.Cuisine = f.cuisine
	}
	if flags.Changed("ingredients") {
		req.Ingredients = f.ingredients
	}
	if flags.Changed("diet") {
		req.DietaryTags = f.diet
	}
	if flags.Changed("spice") {
		req.SpiceLevel = domain.SpiceLevel(f.spice)
	}
	if flags.Changed("calories") {
		req.Calories = f.calories
	}
	if flags.Changed("image-url") {
		req.ImageURL = f.imageURL
	}
	if flags.Changed("available") {
		available := f.available
		req.IsAvailable = &available
	}
	return nil
}

var (
	addFlags  menuItemFlags
	editFlags menuItemFlags
)

var menuAddCmd = &cobra.Command{
	Use:   "add <name...> --price <price>",
	Short: "Add a dish to the menu",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.requireKitchen(domain.PermManageMenu); err != nil {
			return err
		}
		req := domain.MenuItemRequest{Name: strings.Join(args, " ")}
		if err := addFlags.apply(cmd.Flags(), &req); err != nil {
			return err
		}

		item, err := svc.menuEditor.CreateMenuItem(cmd.Context(), req)
		if err != nil {
			return menuError(err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Added menu item #%d:\n", item.ID)
		printMenuItem(out, item)
		return nil
	},
}

var menuEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a dish; only the flags given are updated",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.requireKitchen(domain.PermManageMenu); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		current, err := lookupMenuItem(cmd.Context(), id)
		if err != nil {
			return err
		}

		req := domain.MenuItemRequestFrom(current)
		if err := editFlags.apply(cmd.Flags(), &req); err != nil {
			return err
		}
		item, err := svc.menuEditor.UpdateMenuItem(cmd.Context(), id, req)
		if err != nil {
			return menuError(err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Updated menu item #%d:\n", item.ID)
		printMenuItem(out, item)
		return nil
	},
}

var menuDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a dish from the menu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.requireKitchen(domain.PermManageMenu); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := svc.menuEditor.DeleteMenuItem(cmd.Context(), id); err != nil {
			return menuError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed menu item #%d.\n", id)
		return nil
	},
}

func init() {
	addFlags.bind(menuAddCmd.Flags())
	menuAddCmd.MarkFlagRequired("price")

	editFlags.bind(menuEditCmd.Flags())
	menuEditCmd.Flags().StringVar(&editFlags.name, "name", "", "New name")

	menuCmd.AddCommand(menuAddCmd, menuEditCmd, menuDeleteCmd)
}

// lookupMenuItem finds id on the menu, sold out or not.
func lookupMenuItem(ctx context.Context, id int) (domain.MenuItem, error) {
	items, err := svc.menu.MenuItems(ctx)
	if err != nil {
		return domain.MenuItem{}, userError(err)
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.MenuItem{}, fmt.Errorf("there is no menu item %d", id)
}

// menuError words menu management failures. The order service answers 409
// when past orders still reference the dish.
func menuError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errors.New("menu item not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		return errors.New("this dish is part of past orders; mark it sold out with --available=false instead")
	}
	return userError(err)
}
