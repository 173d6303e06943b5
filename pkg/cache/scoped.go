package cache

// ScopedKeyer wraps a Keyer with a prefix so several pools can share one
// cache backend without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "pool:guild-bank:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SourceKey generates a prefixed key for a recipe document.
func (k *ScopedKeyer) SourceKey(url string) string {
	return k.prefix + k.inner.SourceKey(url)
}

// ResolveKey generates a prefixed key for a resolution response.
func (k *ScopedKeyer) ResolveKey(target string, amount int, opts ResolveKeyOpts) string {
	return k.prefix + k.inner.ResolveKey(target, amount, opts)
}
