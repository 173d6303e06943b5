package pool

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/craftwise/pkg/errors"
	"github.com/matzehuels/craftwise/pkg/observability"
)

// Pool is the resource pool. All mutations are serialized load-modify-store
// cycles against the underlying [Store]; reads always load fresh state.
// A Pool is safe for concurrent use by multiple goroutines. Separate
// processes sharing one store are not coordinated.
type Pool struct {
	store      Store
	normalizer *Normalizer
	logger     *log.Logger

	mu sync.Mutex // serializes load-modify-store
}

// Option configures a [Pool].
type Option func(*Pool)

// WithNormalizer sets the normalizer used by [Pool.MergeAdd].
func WithNormalizer(n *Normalizer) Option {
	return func(p *Pool) { p.normalizer = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// New creates a pool backed by store.
func New(store Store, opts ...Option) *Pool {
	p := &Pool{
		store:      store,
		normalizer: NewNormalizer(),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Backend returns the store's name.
func (p *Pool) Backend() string { return p.store.Name() }

// Close closes the underlying store.
func (p *Pool) Close() error { return p.store.Close() }

// Get returns the owned quantity of name, or 0 if the pool has no entry.
func (p *Pool) Get(ctx context.Context, name string) (int, error) {
	s, err := p.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return s.Get(name), nil
}

// Snapshot loads a point-in-time copy of the pool. The copy is owned by the
// caller and never observes later mutations.
func (p *Pool) Snapshot(ctx context.Context) (Stock, error) {
	start := time.Now()
	s, err := p.store.Load(ctx)
	observability.Pool().OnPoolLoad(ctx, p.store.Name(), len(s), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load pool from %s", p.store.Name())
	}
	if s == nil {
		s = Stock{}
	}
	return s, nil
}

// SetAll replaces the whole pool with m. Negative quantities are rejected.
func (p *Pool) SetAll(ctx context.Context, m Stock) error {
	for _, name := range m.Items() {
		if err := errors.ValidateItemName(name); err != nil {
			return err
		}
		if err := errors.ValidateQuantity(name, m[name]); err != nil {
			return err
		}
	}
	return p.Apply(ctx, "set_all", func(s Stock) error {
		clear(s)
		for name, q := range m {
			s[name] = q
		}
		return nil
	})
}

// Set sets a single item's quantity.
func (p *Pool) Set(ctx context.Context, name string, qty int) error {
	if err := errors.ValidateItemName(name); err != nil {
		return err
	}
	if err := errors.ValidateQuantity(name, qty); err != nil {
		return err
	}
	return p.Apply(ctx, "set", func(s Stock) error {
		s[name] = qty
		return nil
	})
}

// MergeAdd adds each delta to the current quantity, creating missing
// entries. Names carrying a qualifier the pool does not use are folded into
// an existing canonical entry (see [Normalizer.Merge]). Results below zero
// are clamped. It returns the names that were redirected.
func (p *Pool) MergeAdd(ctx context.Context, delta Stock) (map[string]string, error) {
	for _, name := range delta.Items() {
		if err := errors.ValidateItemName(name); err != nil {
			return nil, err
		}
	}
	var redirected map[string]string
	err := p.Apply(ctx, "merge_add", func(s Stock) error {
		redirected = p.normalizer.Merge(s, delta)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for from, to := range redirected {
		p.logger.Debug("merged qualified item into canonical entry", "from", from, "to", to)
	}
	return redirected, nil
}

// Remove deletes items from the pool.
func (p *Pool) Remove(ctx context.Context, names ...string) error {
	return p.Apply(ctx, "remove", func(s Stock) error {
		for _, n := range names {
			delete(s, n)
		}
		return nil
	})
}

// Clear empties the pool.
func (p *Pool) Clear(ctx context.Context) error {
	return p.Apply(ctx, "clear", func(s Stock) error {
		clear(s)
		return nil
	})
}

// Apply runs one serialized load-modify-store cycle: it loads the persisted
// pool, lets fn modify it in place, clamps negative quantities to zero and
// saves the result. If fn returns an error nothing is saved.
func (p *Pool) Apply(ctx context.Context, op string, fn func(Stock) error) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	defer func() {
		observability.Pool().OnPoolMutation(ctx, p.store.Name(), op, time.Since(start), err)
	}()

	s, err := p.store.Load(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "load pool from %s", p.store.Name())
	}
	if s == nil {
		s = Stock{}
	}
	if err := fn(s); err != nil {
		return err
	}
	if clamped := s.Clamp(); len(clamped) > 0 {
		p.logger.Debug("clamped negative quantities", "op", op, "items", clamped)
	}
	if err := p.store.Save(ctx, s); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save pool to %s", p.store.Name())
	}
	p.logger.Debug("pool updated", "op", op, "backend", p.store.Name(), "items", len(s))
	return nil
}
