package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultQualifiers are the rarity words stripped from imported item names.
var DefaultQualifiers = []string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}

// SetDefaults registers the default value of every key. Registering each key
// also makes it visible to environment variable lookup.
func SetDefaults(v *viper.Viper) {
	data := DataDir()

	v.SetDefault("pool.backend", "file")
	v.SetDefault("pool.path", filepath.Join(data, "pool.json"))
	v.SetDefault("pool.dsn", filepath.Join(data, "pool.db"))
	v.SetDefault("pool.redis_addr", "localhost:6379")
	v.SetDefault("pool.redis_key", "craftwise:pool")
	v.SetDefault("pool.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("pool.mongo_database", "craftwise")
	v.SetDefault("pool.mongo_collection", "pool")
	v.SetDefault("pool.qualifiers", DefaultQualifiers)

	v.SetDefault("recipes.bundled", true)
	v.SetDefault("recipes.bundled_priority", 0)
	v.SetDefault("recipes.files", []map[string]any{})
	v.SetDefault("recipes.remote_url", "")
	v.SetDefault("recipes.remote_priority", 10)
	v.SetDefault("recipes.refresh_interval", time.Duration(0))

	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.dir", CacheDir())
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.redis_addr", "localhost:6379")

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.burst", 10)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
}
