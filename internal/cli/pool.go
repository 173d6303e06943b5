package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/craftwise/pkg/pool"
)

// poolCommand creates the pool management command.
func (c *CLI) poolCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Inspect and edit the resource pool",
	}

	cmd.AddCommand(c.poolShowCommand())
	cmd.AddCommand(c.poolGetCommand())
	cmd.AddCommand(c.poolSetCommand())
	cmd.AddCommand(c.poolAddCommand())
	cmd.AddCommand(c.poolRemoveCommand())
	cmd.AddCommand(c.poolClearCommand())
	cmd.AddCommand(c.poolImportCommand())

	return cmd
}

func (c *CLI) poolShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List everything in the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx, appOptions{noCache: true})
			if err != nil {
				return err
			}
			defer a.Close()

			stock, err := a.workshop.Pool.Snapshot(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(stock)
			}
			if len(stock) == 0 {
				printInfo("Pool is empty (%s)", a.workshop.Pool.Backend())
				return nil
			}
			fmt.Println(stockTable(stock, a.workshop.Known))
			printDetail("%d items · %d total · %s", len(stock), stock.Total(), a.workshop.Pool.Backend())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the pool as JSON")
	return cmd
}

// stockTable renders stock as a table. Items with a recipe are marked as
// craftable so raw materials stand out.
func stockTable(stock pool.Stock, craftable func(string) bool) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	items := stock.Items()
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		kind := "raw"
		if craftable(item) {
			kind = "crafted"
		}
		rows = append(rows, []string{item, strconv.Itoa(stock[item]), kind})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Item", "Qty", "Kind").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return StyleNumber.Align(lipgloss.Right)
			case col == 2:
				return StyleDim
			case stock[items[row]] == 0:
				return StyleDim
			}
			return StyleValue
		})

	return t.Render()
}

func (c *CLI) poolGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "get <item>",
		Short:             "Print the quantity of one item",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completePoolItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx, appOptions{noCache: true})
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.workshop.Pool.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}
}

func (c *CLI) poolSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "set <item> <qty>",
		Short:             "Set the quantity of one item",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be an integer, got %q", args[1])
			}
			ctx := cmd.Context()
			a, err := c.openApp(ctx, appOptions{noCache: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.workshop.Pool.Set(ctx, args[0], qty); err != nil {
				return err
			}
			printSuccess("%s = %d", args[0], qty)
			return nil
		},
	}
}

func (c *CLI) poolAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <item> <qty> [<item> <qty>...]",
		Short: "Add to (or with a negative qty, take from) item quantities",
		Long: `Add merges quantities into the pool. Names with a rarity qualifier such as
"Rare Iron" are folded into an existing "Iron" entry when the pool has no
"Rare Iron" of its own. Results below zero are clamped.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("expected <item> <qty> pairs, got %d args", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			delta := pool.Stock{}
			for i := 0; i < len(args); i += 2 {
				qty, err := strconv.Atoi(args[i+1])
				if err != nil {
					return fmt.Errorf("quantity for %s must be an integer, got %q", args[i], args[i+1])
				}
				delta[args[i]] += qty
			}
			return c.mergeIntoPool(cmd, delta)
		},
	}
}

func (c *CLI) poolImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Merge a JSON object of item quantities into the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var delta pool.Stock
			if err := json.Unmarshal(data, &delta); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return c.mergeIntoPool(cmd, delta)
		},
	}
}

func (c *CLI) mergeIntoPool(cmd *cobra.Command, delta pool.Stock) error {
	ctx := cmd.Context()
	a, err := c.openApp(ctx, appOptions{noCache: true})
	if err != nil {
		return err
	}
	defer a.Close()

	redirected, err := a.workshop.Pool.MergeAdd(ctx, delta)
	if err != nil {
		return err
	}
	printSuccess("Merged %d items", len(delta))
	for _, from := range sortedKeys(redirected) {
		printDetail("%s %s %s", from, iconArrow, redirected[from])
	}
	return nil
}

func (c *CLI) poolRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <item>...",
		Short:             "Delete items from the pool",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completePoolItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx, appOptions{noCache: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.workshop.Pool.Remove(ctx, args...); err != nil {
				return err
			}
			printSuccess("Removed %d items", len(args))
			return nil
		},
	}
}

func (c *CLI) poolClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the pool without --yes")
			}
			ctx := cmd.Context()
			a, err := c.openApp(ctx, appOptions{noCache: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.workshop.Pool.Clear(ctx); err != nil {
				return err
			}
			printSuccess("Pool cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing")
	return cmd
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
