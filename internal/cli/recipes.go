package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/craftwise/pkg/recipe"
)

// recipesCommand creates the recipes command.
func (c *CLI) recipesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Inspect the loaded recipe table",
	}

	cmd.AddCommand(c.recipesListCommand())
	cmd.AddCommand(c.recipesShowCommand())
	cmd.AddCommand(c.recipesSourcesCommand())
	cmd.AddCommand(c.recipesCheckCommand())

	return cmd
}

func (c *CLI) recipesListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context(), appOptions{noCache: true})
			if err != nil {
				return err
			}
			defer a.Close()

			t := a.workshop.Recipes.Table()
			if asJSON {
				return printJSON(t)
			}
			if t.Len() == 0 {
				printWarning("No recipes loaded")
				return nil
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			rows := make([][]string, 0, t.Len())
			for _, r := range t.Recipes() {
				parts := make([]string, len(r.Ingredients))
				for i, ing := range r.Ingredients {
					parts[i] = fmt.Sprintf("%d×%s", ing.Qty, ing.Name)
				}
				rows = append(rows, []string{r.Output, strings.Join(parts, ", ")})
			}
			fmt.Println(table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Output", "Ingredients").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					if col == 0 {
						return StyleHighlight
					}
					return StyleValue
				}).
				Render())
			printDetail("%d recipes · version %s", t.Len(), t.Version())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	return cmd
}

func (c *CLI) recipesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <item>",
		Short:             "Show the recipe for one item",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context(), appOptions{noCache: true})
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.workshop.Recipe(args[0])
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(r.Output))
			for _, ing := range r.Ingredients {
				printKeyValue("  "+ing.Name, StyleNumber.Render(strconv.Itoa(ing.Qty)))
			}
			return nil
		},
	}
}

func (c *CLI) recipesSourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show how each recipe source contributed to the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context(), appOptions{noCache: true})
			if err != nil {
				return err
			}
			defer a.Close()

			reports := a.workshop.Recipes.Reports()
			if len(reports) == 0 {
				printWarning("No recipe sources configured")
				return nil
			}
			for _, r := range reports {
				if r.Err != nil {
					printError("%s %s", r.Source, StyleDim.Render(fmt.Sprintf("priority %d", r.Priority)))
					printDetail("%v", r.Err)
					continue
				}
				printSuccess("%s %s", r.Source, StyleDim.Render(fmt.Sprintf("priority %d", r.Priority)))
				printDetail("%d loaded · %d in table · %s", r.Recipes, r.Won, r.Duration.Round(time.Millisecond))
			}
			t := a.workshop.Recipes.Table()
			printNewline()
			printKeyValue("Recipes", strconv.Itoa(t.Len()))
			printKeyValue("Version", t.Version())
			return nil
		},
	}
}

func (c *CLI) recipesCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse recipe files and report errors and cycles",
		Long: `Check parses each file on its own (JSON or TOML, by extension) and reports
parse errors and recipe cycles. The pool and configuration are not touched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if err := checkRecipeFile(path); err != nil {
					printError("%s", path)
					printDetail("%v", err)
					failed++
					continue
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func checkRecipeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	recipes, err := recipe.Parse(data, recipe.FormatFromPath(path))
	if err != nil {
		return err
	}
	t := recipe.NewTable(recipes)
	if err := t.Validate(); err != nil {
		return err
	}
	printSuccess("%s %s", path, StyleDim.Render(fmt.Sprintf("%d recipes", t.Len())))
	return nil
}
