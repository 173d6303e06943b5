package recipe

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Registry publishes the current recipe table.
//
// Readers call [Registry.Table] and keep the returned pointer for the
// duration of their work. Reloads build a new table and swap it in
// atomically; tables are never modified in place.
type Registry struct {
	builder *Builder
	logger  *log.Logger
	current atomic.Pointer[Table]

	mu      sync.Mutex // serializes reloads
	reports []Report
	loaded  time.Time
}

// NewRegistry creates a registry that starts with an empty table.
// Call [Registry.Reload] to populate it.
func NewRegistry(b *Builder) *Registry {
	r := &Registry{builder: b, logger: b.logger}
	r.current.Store(Empty())
	return r
}

// NewStaticRegistry creates a registry that always serves t.
// Reload on a static registry rebuilds nothing and keeps t.
func NewStaticRegistry(t *Table) *Registry {
	r := &Registry{builder: NewBuilder(nil), logger: log.Default()}
	r.current.Store(t)
	return r
}

// Table returns the current table. It never returns nil.
func (r *Registry) Table() *Table {
	return r.current.Load()
}

// Reports returns the source reports from the most recent reload.
func (r *Registry) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// LoadedAt returns when the current table was published, or the zero time
// if Reload has not completed yet.
func (r *Registry) LoadedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Reload rebuilds the table from the builder's sources and publishes it.
// A registry without sources keeps its current table.
func (r *Registry) Reload(ctx context.Context) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.builder.sources) == 0 {
		return r.current.Load(), nil
	}

	res, err := r.builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	prev := r.current.Swap(res.Table)
	r.reports = res.Reports
	r.loaded = time.Now()

	if prev == nil || prev.Version() != res.Table.Version() {
		r.logger.Info("recipe table published", "recipes", res.Table.Len(), "version", res.Table.Version())
	}
	return res.Table, nil
}

// Watch reloads the table every interval until ctx is done.
// Reload failures are logged and the previous table stays published.
func (r *Registry) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Reload(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("recipe reload failed", "err", err)
			}
		}
	}
}
