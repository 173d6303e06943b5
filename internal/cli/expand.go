package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/craftwise/pkg/render"
)

// expandCommand creates the expand command.
func (c *CLI) expandCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "expand <item> [amount]",
		Short: "Show the full recipe tree for an item, ignoring the pool",
		Long: `Expand prints the total cost of producing an item from nothing: every
ingredient, recursively, scaled by the requested amount.

Formats: text (default), json, dot, svg. svg is rendered with Graphviz and
is best written to a file with -o.`,
		Example: `  craftwise expand Lantern 2
  craftwise expand Clockwork --format svg -o clockwork.svg`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: c.completeItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args, 1)
			if err != nil {
				return err
			}
			f := render.Format(strings.ToLower(format))
			if !slices.Contains(render.Formats, f) {
				return fmt.Errorf("unknown format %q (want one of text, json, dot, svg)", format)
			}
			ctx := cmd.Context()

			a, err := c.openApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			tree, err := a.workshop.Expand(ctx, args[0], amount)
			if err != nil {
				return err
			}

			var data []byte
			switch f {
			case render.FormatText:
				data = []byte(render.Text(tree, render.Options{}))
			case render.FormatJSON:
				data, err = render.JSON(tree)
			case render.FormatDOT:
				data = []byte(render.ToDOT(tree, render.Options{Title: fmt.Sprintf("%s ×%d", args[0], amount)}))
			case render.FormatSVG:
				prog := newProgress(c.Logger, log.InfoLevel)
				dot := render.ToDOT(tree, render.Options{Title: fmt.Sprintf("%s ×%d", args[0], amount)})
				data, err = render.RenderSVG(ctx, dot)
				if err == nil {
					prog.done("Rendered SVG", "item", args[0], "nodes", tree.Size())
				}
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote %s ×%d (%d nodes)", args[0], amount, tree.Size())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatText), "output format: text, json, dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

// materialsCommand creates the materials command.
func (c *CLI) materialsCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "materials <item> [amount]",
		Short:             "List the direct ingredients and raw materials for an item",
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

			m, err := a.workshop.Materials(ctx, args[0], amount)
			if err != nil {
				return err
			}
			if len(m.Direct) == 0 {
				printInfo("%s has no recipe; it is a raw item", args[0])
				return nil
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("%s ×%d", m.Name, m.Amount)))
			printInfo("Direct ingredients")
			for _, item := range sortedKeys(m.Direct) {
				printKeyValue("  "+item, StyleNumber.Render(fmt.Sprintf("%d", m.Direct[item])))
			}
			printInfo("Raw materials")
			for _, item := range sortedKeys(m.Raw) {
				printKeyValue("  "+item, StyleNumber.Render(fmt.Sprintf("%d", m.Raw[item])))
			}
			return nil
		},
	}
}
