package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/craftwise/internal/config"
	"github.com/matzehuels/craftwise/pkg/cache"
	"github.com/matzehuels/craftwise/pkg/pool"
	"github.com/matzehuels/craftwise/pkg/recipe"
	"github.com/matzehuels/craftwise/pkg/workshop"
)

// app is everything a command needs, built from configuration.
type app struct {
	cfg      *config.Config
	workshop *workshop.Workshop
}

func (a *app) Close() error { return a.workshop.Close() }

// appOptions tweak how the app is built for a single command.
type appOptions struct {
	noCache bool

	// memoryCache replaces a file cache with an in-process one. The server
	// uses it for resolutions since it outlives any single request.
	memoryCache bool
}

// loadConfig reads configuration and applies the configured log level unless
// --verbose already lowered it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.Logger.SetLevel(lvl)
		}
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	return cfg, nil
}

// openApp loads config, opens the pool store and cache, and loads recipes.
func (c *CLI) openApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg.Pool, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	cc, err := openCache(ctx, cfg.Cache, opts)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}

	registry := recipe.NewRegistry(recipe.NewBuilder(c.Logger, recipeSources(cfg.Recipes, cc, c.Logger)...))

	p := pool.New(store,
		pool.WithNormalizer(pool.NewNormalizer(cfg.Pool.Qualifiers...)),
		pool.WithLogger(c.Logger),
	)
	w := workshop.New(registry, p, cc, nil, c.Logger)

	prog := newProgress(c.Logger, log.DebugLevel)
	t, err := w.ReloadRecipes(ctx)
	if err != nil {
		w.Close()
		return nil, err
	}
	prog.done("recipes ready", "recipes", t.Len(), "version", t.Version())

	return &app{cfg: cfg, workshop: w}, nil
}

func openStore(ctx context.Context, cfg config.PoolConfig, logger *log.Logger) (pool.Store, error) {
	switch cfg.Backend {
	case "file":
		return pool.NewFileStore(cfg.Path, logger), nil
	case "sqlite":
		return pool.OpenSQLiteStore(ctx, cfg.DSN)
	case "redis":
		return pool.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisKey)
	case "mongo":
		return pool.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case "memory":
		return pool.NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown pool backend %q", cfg.Backend)
	}
}

func openCache(ctx context.Context, cfg config.CacheConfig, opts appOptions) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "memory":
		return cache.NewMemoryCache(cfg.TTL), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.RedisAddr, appName+":")
	case "file":
		if opts.memoryCache {
			return cache.NewMemoryCache(cfg.TTL), nil
		}
		return cache.NewFileCache(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// recipeSources lists the configured sources in load order: bundled, files,
// then remote. Later sources win priority ties.
func recipeSources(cfg config.RecipesConfig, cc cache.Cache, logger *log.Logger) []recipe.Source {
	var sources []recipe.Source
	if cfg.Bundled {
		sources = append(sources, recipe.NewBundledSource(cfg.BundledPriority))
	}
	for _, f := range cfg.Files {
		sources = append(sources, recipe.NewFileSource(f.Path, f.Priority))
	}
	if cfg.RemoteURL != "" {
		sources = append(sources, recipe.NewRemoteSource(cfg.RemoteURL, cfg.RemotePriority,
			recipe.WithCache(cc),
			recipe.WithLogger(logger),
		))
	}
	return sources
}

// parseAmount parses the optional [amount] argument, defaulting to 1.
func parseAmount(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("amount must be an integer, got %q", args[i])
	}
	return n, nil
}
