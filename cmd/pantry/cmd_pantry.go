package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pantry/pkg/app"
)

// pantry recipes:available [--all]
var recipesAvailableCmd = &cobra.Command{
	Use:   "recipes:available",
	Short: "List recipes that can be cooked with the current stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		a, err := app.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		reports, err := a.Services.Tracker.ListAvailableRecipes(cmd.Context(), all)
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No recipes.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tRECIPE\tAVAILABLE\tMISSING")
		for _, rep := range reports {
			missing := "-"
			for i, g := range rep.Availability.Missing {
				item := fmt.Sprintf("%s %s %s", g.Amount, g.Unit, g.ProductName)
				if i == 0 {
					missing = item
				} else {
					missing += ", " + item
				}
			}
			fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", rep.Recipe.ID, rep.Recipe.Name, rep.Availability.Available, missing)
		}
		return w.Flush()
	},
}

// pantry storage:add <product-id> <amount> <unit>
var storageAddCmd = &cobra.Command{
	Use:   "storage:add <product-id> <amount> <unit>",
	Short: "Add stock for a product",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}

		a, err := app.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		s, err := a.Services.Storage.AddStock(cmd.Context(), uint(id), amount, args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Product %d now has %s %s\n", s.ProductID(), s.Quantity(), s.Unit())
		return nil
	},
}
