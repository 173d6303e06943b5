package recipe

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/craftwise/pkg/cache"
	"github.com/matzehuels/craftwise/pkg/errors"
	"github.com/matzehuels/craftwise/pkg/httputil"
	"github.com/matzehuels/craftwise/pkg/observability"
)

// Source yields recipes for the [Builder].
type Source interface {
	// Name identifies the source in logs and reports.
	Name() string
	// Priority decides which source wins when several define the same output.
	// Higher wins.
	Priority() int
	// Load returns the source's recipes in declaration order.
	Load(ctx context.Context) ([]Recipe, error)
}

// =============================================================================
// Map Source
// =============================================================================

// MapSource serves recipes held in memory.
type MapSource struct {
	name     string
	priority int
	recipes  []Recipe
}

// NewMapSource creates a source that returns recipes as given.
func NewMapSource(name string, priority int, recipes ...Recipe) *MapSource {
	return &MapSource{name: name, priority: priority, recipes: recipes}
}

func (s *MapSource) Name() string  { return s.name }
func (s *MapSource) Priority() int { return s.priority }

// Load returns the in-memory recipes.
func (s *MapSource) Load(context.Context) ([]Recipe, error) {
	return s.recipes, nil
}

// =============================================================================
// Bundled Source
// =============================================================================

//go:embed bundled/default.json
var bundledRecipes []byte

// BundledSource serves the default recipes compiled into the binary.
type BundledSource struct {
	priority int
}

// NewBundledSource creates the bundled defaults source.
func NewBundledSource(priority int) *BundledSource {
	return &BundledSource{priority: priority}
}

func (s *BundledSource) Name() string  { return "bundled" }
func (s *BundledSource) Priority() int { return s.priority }

// Load parses the embedded default recipes.
func (s *BundledSource) Load(context.Context) ([]Recipe, error) {
	return ParseJSON(bundledRecipes)
}

// =============================================================================
// File Source
// =============================================================================

// FileSource reads a JSON or TOML recipe document from disk.
// The format is chosen by file extension.
type FileSource struct {
	path     string
	priority int
}

// NewFileSource creates a source reading path.
func NewFileSource(path string, priority int) *FileSource {
	return &FileSource{path: path, priority: priority}
}

func (s *FileSource) Name() string  { return "file:" + s.path }
func (s *FileSource) Priority() int { return s.priority }

// Load reads and parses the file.
func (s *FileSource) Load(context.Context) ([]Recipe, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", s.path)
	}
	return Parse(data, FormatFromPath(s.path))
}

// =============================================================================
// Remote Source
// =============================================================================

// remoteTTL is how long a fetched remote document stays usable as a fallback.
const remoteTTL = 7 * 24 * time.Hour

// RemoteSource fetches a JSON recipe document over HTTP.
//
// Transient failures (network errors, 5xx, 429) are retried with exponential
// backoff. Every successful body is stored in the cache; when the remote is
// unreachable the last cached body is used instead.
type RemoteSource struct {
	url      string
	priority int
	client   *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	logger   *log.Logger

	// attempts and delay control the retry loop.
	attempts int
	delay    time.Duration
}

// RemoteOption customizes a [RemoteSource].
type RemoteOption func(*RemoteSource)

// WithHTTPClient sets the HTTP client used for fetching.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(s *RemoteSource) { s.client = c }
}

// WithCache sets the cache used for offline fallback. A nil cache is ignored.
func WithCache(c cache.Cache) RemoteOption {
	return func(s *RemoteSource) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *log.Logger) RemoteOption {
	return func(s *RemoteSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) RemoteOption {
	return func(s *RemoteSource) {
		s.attempts = attempts
		s.delay = delay
	}
}

// NewRemoteSource creates a source fetching url.
func NewRemoteSource(url string, priority int, opts ...RemoteOption) *RemoteSource {
	s := &RemoteSource{
		url:      url,
		priority: priority,
		client:   &http.Client{Timeout: 30 * time.Second},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		logger:   log.Default(),
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RemoteSource) Name() string  { return "remote:" + s.url }
func (s *RemoteSource) Priority() int { return s.priority }

// Load fetches and parses the remote document, falling back to the cached
// copy when the fetch fails.
func (s *RemoteSource) Load(ctx context.Context) ([]Recipe, error) {
	key := s.keyer.SourceKey(s.url)

	body, fetchErr := s.fetch(ctx)
	if fetchErr == nil {
		recipes, err := ParseJSON(body)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, body, remoteTTL); err != nil {
			s.logger.Debug("cache remote recipes", "url", s.url, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "source", len(body))
		}
		return recipes, nil
	}

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "source")
		return nil, fetchErr
	}
	observability.Cache().OnCacheHit(ctx, "source")
	s.logger.Warn("remote recipes unavailable, using cached copy", "url", s.url, "err", fetchErr)
	return ParseJSON(cached)
}

func (s *RemoteSource) fetch(ctx context.Context) ([]byte, error) {
	var body []byte
	err := httputil.Retry(ctx, s.attempts, s.delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", s.url))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", s.url, resp.StatusCode))
		default:
			return errors.New(errors.ErrCodeSourceUnavailable, "fetch %s: status %d", s.url, resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return httputil.Retryable(fmt.Errorf("read body: %w", err))
		}
		return nil
	})
	return body, err
}
