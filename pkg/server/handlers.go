package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/craftwise/pkg/errors"
	"github.com/matzehuels/craftwise/pkg/pool"
	"github.com/matzehuels/craftwise/pkg/recipe"
	"github.com/matzehuels/craftwise/pkg/workshop"
)

// maxBodyBytes bounds request bodies. A full pool replacement is the largest
// legitimate payload.
const maxBodyBytes = 4 << 20

type resolveRequest struct {
	Target  string `json:"target" validate:"required,max=256"`
	Amount  int    `json:"amount" validate:"required,gt=0,lte=1000000"`
	NoCache bool   `json:"no_cache"`
}

type resolveResponse struct {
	*workshop.ResolveResult
	Cached bool `json:"cached"`
}

type craftRequest struct {
	Target string `json:"target" validate:"required,max=256"`
	Amount int    `json:"amount" validate:"required,gt=0,lte=1000000"`
	Force  bool   `json:"force"`
	DryRun bool   `json:"dry_run"`
}

type tableResponse struct {
	Version  string        `json:"version"`
	Count    int           `json:"count"`
	LoadedAt *time.Time    `json:"loaded_at,omitempty"`
	Recipes  *recipe.Table `json:"recipes"`
}

type sourceReport struct {
	Source   string `json:"source"`
	Priority int    `json:"priority"`
	Recipes  int    `json:"recipes"`
	Won      int    `json:"won"`
	Error    string `json:"error,omitempty"`
}

type reloadResponse struct {
	Version string         `json:"version"`
	Count   int            `json:"count"`
	Sources []sourceReport `json:"sources"`
}

type mergeResponse struct {
	Pool      pool.Stock        `json:"pool"`
	Redirects map[string]string `json:"redirects,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	t := s.workshop.Recipes.Table()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"recipes": t.Len(),
		"version": t.Version(),
		"pool":    s.workshop.Pool.Backend(),
	})
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	t := s.workshop.Recipes.Table()
	resp := tableResponse{Version: t.Version(), Count: t.Len(), Recipes: t}
	if at := s.workshop.Recipes.LoadedAt(); !at.IsZero() {
		resp.LoadedAt = &at
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	item := itemParam(r)
	rec, err := s.workshop.Recipe(item)
	if err != nil {
		s.respondError(w, r, err, s.workshop.Suggest(item)...)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	t, err := s.workshop.ReloadRecipes(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp := reloadResponse{Version: t.Version(), Count: t.Len(), Sources: []sourceReport{}}
	for _, rep := range s.workshop.Recipes.Reports() {
		sr := sourceReport{Source: rep.Source, Priority: rep.Priority, Recipes: rep.Recipes, Won: rep.Won}
		if rep.Err != nil {
			sr.Error = rep.Err.Error()
		}
		resp.Sources = append(resp.Sources, sr)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	amount, err := amountParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	tree, err := s.workshop.Expand(r.Context(), itemParam(r), amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tree)
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	amount, err := amountParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	m, err := s.workshop.Materials(r.Context(), itemParam(r), amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	res, hit, err := s.workshop.Resolve(r.Context(), req.Target, req.Amount, workshop.ResolveOptions{NoCache: req.NoCache})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resolveResponse{ResolveResult: res, Cached: hit})
}

func (s *Server) handleCraft(w http.ResponseWriter, r *http.Request) {
	var req craftRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.workshop.Craft(r.Context(), req.Target, req.Amount, workshop.CraftOptions{
		Force:  req.Force,
		DryRun: req.DryRun,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	stock, err := s.workshop.Pool.Snapshot(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

func (s *Server) handlePoolItem(w http.ResponseWriter, r *http.Request) {
	item := itemParam(r)
	if err := errors.ValidateItemName(item); err != nil {
		s.respondError(w, r, err)
		return
	}
	qty, err := s.workshop.Pool.Get(r.Context(), item)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"name": item, "quantity": qty})
}

func (s *Server) handleSetPool(w http.ResponseWriter, r *http.Request) {
	var stock pool.Stock
	if err := s.decode(w, r, &stock); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.workshop.Pool.SetAll(r.Context(), stock); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.handlePool(w, r)
}

func (s *Server) handleMergePool(w http.ResponseWriter, r *http.Request) {
	var delta pool.Stock
	if err := s.decode(w, r, &delta); err != nil {
		s.respondError(w, r, err)
		return
	}
	redirects, err := s.workshop.Pool.MergeAdd(r.Context(), delta)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	stock, err := s.workshop.Pool.Snapshot(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mergeResponse{Pool: stock, Redirects: redirects})
}

// decode reads a JSON body into v and validates structs against their tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}

	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !stderrors.As(err, &verrs) {
			// Not a struct (a pool map); nothing to validate.
			return nil
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(e.Field()), e.Tag()))
		}
		return errors.New(errors.ErrCodeInvalidInput, "%s", strings.Join(msgs, "; "))
	}
	return nil
}

func itemParam(r *http.Request) string {
	raw := chi.URLParam(r, "item")
	if item, err := url.PathUnescape(raw); err == nil {
		return item
	}
	return raw
}

// amountParam reads ?amount=N, defaulting to 1.
func amountParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("amount")
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidAmount, "amount must be an integer, got %q", raw)
	}
	return n, nil
}
