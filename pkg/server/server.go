// Package server exposes a [workshop.Workshop] over an HTTP JSON API.
//
// Routes:
//
//	GET    /healthz
//	GET    /v1/recipes               current recipe table
//	GET    /v1/recipes/{item}        one recipe
//	POST   /v1/recipes/reload        rebuild the table from its sources
//	GET    /v1/expand/{item}?amount=N
//	GET    /v1/materials/{item}?amount=N
//	POST   /v1/resolve               {"target", "amount", "no_cache"}
//	POST   /v1/craft                 {"target", "amount", "force", "dry_run"}
//	GET    /v1/pool
//	GET    /v1/pool/{item}
//	PUT    /v1/pool                  replace the pool
//	PATCH  /v1/pool                  merge quantities into the pool
//
// Mutating routes share one token-bucket rate limiter. Errors are returned as
// {"error": {"code", "message", "suggestions"}}.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/matzehuels/craftwise/pkg/errors"
	"github.com/matzehuels/craftwise/pkg/workshop"
)

// Options configures a [Server].
type Options struct {
	// RateLimit is the sustained rate of mutating requests per second.
	// Zero disables limiting.
	RateLimit float64

	// Burst is the limiter's bucket size. Values below 1 are treated as 1.
	Burst int

	// ShutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
	ShutdownTimeout time.Duration

	Logger *log.Logger
}

// Server serves the craftwise API.
type Server struct {
	workshop *workshop.Workshop
	logger   *log.Logger
	limiter  *rate.Limiter
	validate *validator.Validate
	opts     Options
}

// New creates a server for w.
func New(w *workshop.Workshop, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		workshop: w,
		logger:   opts.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		opts:     opts,
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, opts.Burst))
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/recipes", s.handleRecipes)
		r.Get("/recipes/{item}", s.handleRecipe)
		r.Get("/expand/{item}", s.handleExpand)
		r.Get("/materials/{item}", s.handleMaterials)
		r.Get("/pool", s.handlePool)
		r.Get("/pool/{item}", s.handlePoolItem)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/recipes/reload", s.handleReload)
			r.Post("/resolve", s.handleResolve)
			r.Post("/craft", s.handleCraft)
			r.Put("/pool", s.handleSetPool)
			r.Patch("/pool", s.handleMergePool)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, http.StatusNotFound, errors.ErrCodeNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, http.StatusMethodNotAllowed, errors.ErrCodeUnsupported, r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. ready, if non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	if ready != nil {
		ready(ln.Addr())
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.opts.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
