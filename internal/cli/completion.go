package cli

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for your shell.

Item arguments complete from the configured recipe table, and pool get and
remove complete from what the pool currently holds, so "craftwise resolve Ir<TAB>"
offers "Iron Ingot", "Iron Ore" and "Iron Plate".

  bash        source <(craftwise completion bash)
  zsh         craftwise completion zsh > "${fpath[1]}/_craftwise"
  fish        craftwise completion fish > ~/.config/fish/completions/craftwise.fish
  powershell  craftwise completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// completeItems completes the first argument with item names from the
// recipe table. Later arguments are amounts.
func (c *CLI) completeItems(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	a, err := c.openApp(completionContext(cmd), appOptions{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer a.Close()
	return matchItems(a.workshop.Recipes.Table().Items(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completePoolItems completes every argument with items held in the pool,
// skipping ones already given.
func (c *CLI) completePoolItems(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := completionContext(cmd)
	a, err := c.openApp(ctx, appOptions{noCache: true})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer a.Close()

	stock, err := a.workshop.Pool.Snapshot(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var held []string
	for _, name := range sortedKeys(stock) {
		if !slices.Contains(args, name) {
			held = append(held, name)
		}
	}
	return matchItems(held, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// matchItems keeps the names starting with prefix, ignoring case.
func matchItems(names []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			out = append(out, name)
		}
	}
	return out
}

func completionContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
