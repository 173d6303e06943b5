package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/craftwise/pkg/render"
	"github.com/matzehuels/craftwise/pkg/workshop"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		asJSON      bool
		interactive bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <item> [amount]",
		Short: "Show what is missing to craft an item from the current pool",
		Long: `Resolve simulates crafting an item from the resource pool.

Intermediates that can be made from owned stock are synthesized first,
limited by their scarcest ingredient. The remaining deficit is then shown as
a tree: every node lists how many units are still missing.`,
		Example: `  craftwise resolve Lantern
  craftwise resolve "Iron Plate" 4 --json
  craftwise resolve Clockwork --interactive`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: c.completeItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args, 1)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			a, err := c.openApp(ctx, appOptions{noCache: noCache})
			if err != nil {
				return err
			}
			defer a.Close()

			target := args[0]
			res, hit, err := a.workshop.Resolve(ctx, target, amount, workshop.ResolveOptions{NoCache: noCache})
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				return printJSON(res)
			case interactive:
				return runTreeBrowser(fmt.Sprintf("%s ×%d", target, amount), res.FullRecipe, true)
			}

			if !a.workshop.Known(target) {
				printWarning("%s is not in any recipe; treating it as a raw item", target)
				if s := a.workshop.Suggest(target); len(s) > 0 {
					printDetail("Did you mean: %s", strings.Join(s, ", "))
				}
			}
			printResolution(res, hit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolution as JSON")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the deficit tree interactively")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the resolution cache")
	cmd.MarkFlagsMutuallyExclusive("json", "interactive")

	return cmd
}

func printResolution(res *workshop.ResolveResult, cached bool) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("%s ×%d", res.Name, res.Amount)))
	if res.FromStock {
		printInfo("Nothing is missing anywhere in the tree")
	} else {
		fmt.Print(render.Text(res.FullRecipe, render.Options{Deficit: true}))
	}
	printNewline()

	if len(res.Synthesized) > 0 {
		printInfo("Craft from stock first:")
		for _, e := range res.Synthesized {
			printDetail("%s ×%d", e.Item, e.Qty)
		}
	}

	if res.Craftable {
		printSuccess("Ready to craft %s ×%d", res.Name, res.Amount)
		printNextStep("Commit it", fmt.Sprintf("%s craft %q %d", appName, res.Name, res.Amount))
	} else {
		printError("Missing ingredients for %s ×%d", res.Name, res.Amount)
		for _, item := range sortedKeys(res.Missing) {
			printKeyValue(item, fmt.Sprintf("%d", res.Missing[item]))
		}
	}
	printStats(len(res.Synthesized), sumValues(res.Missing), cached)
}
