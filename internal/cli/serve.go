package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/craftwise/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve exposes resolve, craft, pool and recipe operations as a JSON API.

When recipes.refresh_interval is set, the recipe table is rebuilt from its
sources in the background and swapped in without interrupting requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			a, err := c.loadServerApp(ctx, os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if interval := a.cfg.Recipes.RefreshInterval; interval > 0 {
				go a.workshop.Recipes.Watch(ctx, interval)
				logger.Debug("watching recipe sources", "interval", interval)
			}

			srv := server.New(a.workshop, server.Options{
				RateLimit:       a.cfg.Server.RateLimit,
				Burst:           a.cfg.Server.Burst,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
				Logger:          logger,
			})

			return srv.ListenAndServe(ctx, addr, func(ln net.Addr) {
				printSuccess("Listening on %s", StyleLink.Render("http://"+ln.String()))
				printDetail("pool: %s · recipes: %d", a.workshop.Pool.Backend(), a.workshop.Recipes.Table().Len())
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

// loadServerApp opens the app for serving behind a spinner on w, since
// remote recipe sources can take a while on a cold cache.
func (c *CLI) loadServerApp(ctx context.Context, w io.Writer) (*app, error) {
	spin := newSpinner(ctx, w, "Loading recipes...")
	spin.Start()

	a, err := c.openApp(ctx, appOptions{memoryCache: true})
	if err != nil {
		spin.StopWithError("Failed to load recipes")
		return nil, err
	}
	spin.StopWithSuccess(fmt.Sprintf("Loaded %d recipes", a.workshop.Recipes.Table().Len()))
	return a, nil
}
