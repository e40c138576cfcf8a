package main

import (
	"fmt"
	"io"
	"strings"

	"menugenius/domain"
	"menugenius/kiosk/internal/service"

	"github.com/spf13/cobra"
)

var menuCategory string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Browse the menu and ask for recommendations",
}

var menuListCmd = &cobra.Command{
	Use:   "list",
	Short: "List menu items",
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := svc.menu.MenuItems(cmd.Context())
		if err != nil {
			return userError(err)
		}
		out := cmd.OutOrStdout()
		shown := 0
		for _, item := range items {
			if menuCategory != "" && !strings.EqualFold(item.Category, menuCategory) {
				continue
			}
			printMenuItem(out, item)
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No menu items found.")
		}
		return nil
	},
}

var recommendFlags struct {
	diet     []string
	maxPrice float64
	topK     int
	context  service.DiningContext
}

var menuRecommendCmd = &cobra.Command{
	Use:   "recommend <what you're craving>",
	Short: "Get dish recommendations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := domain.RecommendationRequest{
			Query:               strings.Join(args, " "),
			DietaryRestrictions: recommendFlags.diet,
			TopK:                recommendFlags.topK,
		}
		if cmd.Flags().Changed("max-price") {
			req.MaxPrice = &recommendFlags.maxPrice
		}

		resp, err := svc.recommender.Recommend(cmd.Context(), req, recommendFlags.context)
		if err != nil {
			return userError(err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, resp.Recommendation)
		if len(resp.MatchedItems) > 0 {
			fmt.Fprintf(out, "\nShowing %d of %d matches:\n", len(resp.MatchedItems), resp.TotalMatches)
		}
		for _, item := range resp.MatchedItems {
			printMenuItem(out, item)
		}
		return nil
	},
}

func init() {
	menuListCmd.Flags().StringVar(&menuCategory, "category", "", "Only show items of this category")

	flags := menuRecommendCmd.Flags()
	flags.StringSliceVar(&recommendFlags.diet, "diet", nil, "Dietary tags, any of which qualifies (e.g. vegan,gluten-free)")
	flags.Float64Var(&recommendFlags.maxPrice, "max-price", 0, "Highest acceptable price")
	flags.IntVar(&recommendFlags.topK, "top", 0, "Number of dishes to show")
	flags.StringVar(&recommendFlags.context.MealTime, "meal-time", "", "Meal time, e.g. lunch")
	flags.StringVar(&recommendFlags.context.Weather, "weather", "", "Current weather")
	flags.StringVar(&recommendFlags.context.Occasion, "occasion", "", "Occasion, e.g. a date")
	flags.StringSliceVar(&recommendFlags.context.Preferences, "prefer", nil, "Taste preferences")

	menuCmd.AddCommand(menuListCmd, menuRecommendCmd)
}

func printMenuItem(out io.Writer, item domain.MenuItem) {
	line := fmt.Sprintf("%4d  %-28s %8s  %s", item.ID, item.Name, item.Price.StringFixed(2), item.Category)
	if len(item.DietaryTags) > 0 {
		line += "  [" + strings.Join(item.DietaryTags, ", ") + "]"
	}
	if !item.IsAvailable {
		line += "  (sold out)"
	}
	fmt.Fprintln(out, line)
}
