package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/craftwise/pkg/render"
	"github.com/matzehuels/craftwise/pkg/workshop"
)

// craftCommand creates the craft command.
func (c *CLI) craftCommand() *cobra.Command {
	var opts workshop.CraftOptions

	cmd := &cobra.Command{
		Use:   "craft <item> [amount]",
		Short: "Craft an item, consuming ingredients from the pool",
		Long: `Craft adds the item to the pool and consumes its ingredients. Intermediates
that are not in stock are produced on the fly from their own ingredients.

The craft is refused when the pool does not cover it. --force commits it
anyway and clamps missing raw items at zero.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: c.completeItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args, 1)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			a, err := c.openApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.workshop.Craft(ctx, args[0], amount, opts)
			var insufficient *workshop.InsufficientStockError
			if stderrors.As(err, &insufficient) {
				printError("Not enough stock for %s ×%d", args[0], amount)
				fmt.Print(render.Text(insufficient.Tree, render.Options{Deficit: true}))
				printNextStep("Commit anyway", fmt.Sprintf("%s craft %q %d --force", appName, args[0], amount))
				return err
			}
			if err != nil {
				return err
			}

			printCraft(res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "craft even when ingredients are missing")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show the result without changing the pool")

	return cmd
}

func printCraft(res *workshop.CraftResult) {
	r := res.Receipt
	switch {
	case res.DryRun:
		printInfo("Dry run: %s ×%d would be crafted", r.Target, r.Amount)
	case res.Forced:
		printWarning("Crafted %s ×%d with missing ingredients", r.Target, r.Amount)
	default:
		printSuccess("Crafted %s ×%d", r.Target, r.Amount)
	}

	for _, item := range sortedKeys(r.AutoCrafted) {
		printDetail("auto-crafted %s ×%d", item, r.AutoCrafted[item])
	}
	for _, item := range sortedKeys(r.Consumed) {
		printDetail("used %s ×%d (%d left)", item, r.Consumed[item], res.Pool[item])
	}
	for _, item := range sortedKeys(r.Shortfall) {
		printDetail("short %s ×%d", item, r.Shortfall[item])
	}
}
