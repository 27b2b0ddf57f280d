// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	custom_errors "github-traffic-tracker/internal/errors"
	"github-traffic-tracker/internal/model"
	"github-traffic-tracker/internal/query"
)

// Registry manages tracked repositories.
type Registry interface {
	List(ctx context.Context) ([]model.Repository, error)
	Add(ctx context.Context, owner, name string) (model.Repository, error)
	Remove(ctx context.Context, owner, name string) error
}

// TokenSetter stores the GitHub token.
type TokenSetter interface {
	Set(ctx context.Context, token string) error
}

// Wiper deletes a repository's traffic samples.
type Wiper interface {
	Wipe(ctx context.Context, owner, name string) (int64, error)
}

// Queries answers traffic queries.
type Queries interface {
	PerRepo(ctx context.Context, p query.Period) (map[string][]model.TrafficSample, error)
	Aggregate(ctx context.Context, p query.Period) ([]model.DailyTotal, error)
	Totals(ctx context.Context, p query.Period) (model.Totals, error)
}

// Collector runs a collection cycle on demand.
type Collector interface {
	TriggerNow(ctx context.Context) (model.CycleReport, error)
}

// Deps are the components the HTTP layer serves.
type Deps struct {
	Registry  Registry
	Tokens    TokenSetter
	Wiper     Wiper
	Queries   Queries
	Collector Collector
	Metrics   http.Handler
}

// Handler is the container for API dependencies.
type Handler struct {
	deps   Deps
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(deps Deps, logger *slog.Logger) http.Handler {
	h := &Handler{
		deps:   deps,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)

	r.Get("/health", h.healthCheck)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Get("/repos", h.listRepos)
			r.Post("/repos", h.addRepo)
			r.Delete("/repos", h.removeRepo)
			r.Delete("/repos/data", h.wipeRepoData)
			r.Post("/token", h.setToken)
			r.Get("/traffic/{period}", h.perRepoTraffic)
			r.Get("/traffic/aggregate/{period}", h.aggregateTraffic)
			r.Get("/totals/{period}", h.totals)
		})
		// A cycle calls GitHub twice per repository and may outlast the query timeout.
		r.Get("/collect", h.collect)
		r.Post("/collect", h.collect)
	})

	return r
}

type repoRequest struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type collectResponse struct {
	Success bool `json:"success"`
	model.CycleReport
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listRepos returns the tracked repositories.
// GET /api/repos
func (h *Handler) listRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.deps.Registry.List(r.Context())
	if err != nil {
		h.internalError(w, "Failed to list repositories", err)
		return
	}
	respondWithJSON(w, http.StatusOK, repos)
}

// addRepo starts tracking a repository.
// POST /api/repos {"owner": "...", "name": "..."}
func (h *Handler) addRepo(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRepoRequest(w, r)
	if !ok {
		return
	}

	_, err := h.deps.Registry.Add(r.Context(), req.Owner, req.Name)
	var dup *custom_errors.ErrDuplicateRepository
	var invalid *custom_errors.ErrInvalidRepoFormat
	switch {
	case errors.As(err, &dup):
		respondWithError(w, http.StatusConflict, "Repository already exists")
		return
	case errors.As(err, &invalid):
		respondWithError(w, http.StatusBadRequest, invalid.Error())
		return
	case err != nil:
		h.internalError(w, "Failed to add repository", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// removeRepo stops tracking a repository. With ?wipe=true its traffic data
// is deleted first.
// DELETE /api/repos {"owner": "...", "name": "..."}
func (h *Handler) removeRepo(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRepoRequest(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("wipe") == "true" {
		if _, err := h.deps.Wiper.Wipe(r.Context(), req.Owner, req.Name); err != nil {
			h.internalError(w, "Failed to wipe repository data", err)
			return
		}
	}

	err := h.deps.Registry.Remove(r.Context(), req.Owner, req.Name)
	var hasTraffic *custom_errors.ErrRepositoryHasTraffic
	if errors.As(err, &hasTraffic) {
		respondWithError(w, http.StatusConflict, hasTraffic.Error())
		return
	}
	if err != nil {
		h.internalError(w, "Failed to remove repository", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// wipeRepoData deletes a repository's traffic samples.
// DELETE /api/repos/data {"owner": "...", "name": "..."}
func (h *Handler) wipeRepoData(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRepoRequest(w, r)
	if !ok {
		return
	}
	n, err := h.deps.Wiper.Wipe(r.Context(), req.Owner, req.Name)
	if err != nil {
		h.internalError(w, "Failed to wipe repository data", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": n})
}

// setToken stores the GitHub token.
// POST /api/token {"token": "..."}
func (h *Handler) setToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondWithError(w, http.StatusBadRequest, "Request body must be {\"token\": \"...\"}")
		return
	}
	if err := h.deps.Tokens.Set(r.Context(), req.Token); err != nil {
		h.internalError(w, "Failed to store token", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// perRepoTraffic returns daily samples grouped by "owner/name".
// GET /api/traffic/{period}
func (h *Handler) perRepoTraffic(w http.ResponseWriter, r *http.Request) {
	result, err := h.deps.Queries.PerRepo(r.Context(), query.ParsePeriod(chi.URLParam(r, "period")))
	if err != nil {
		h.internalError(w, "Failed to query traffic", err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// aggregateTraffic returns daily views and clones summed across repositories.
// GET /api/traffic/aggregate/{period}
func (h *Handler) aggregateTraffic(w http.ResponseWriter, r *http.Request) {
	result, err := h.deps.Queries.Aggregate(r.Context(), query.ParsePeriod(chi.URLParam(r, "period")))
	if err != nil {
		h.internalError(w, "Failed to aggregate traffic", err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// totals returns the window's total views and clones.
// GET /api/totals/{period}
func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	result, err := h.deps.Queries.Totals(r.Context(), query.ParsePeriod(chi.URLParam(r, "period")))
	if err != nil {
		h.internalError(w, "Failed to total traffic", err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// collect runs a collection cycle and waits for it. Per-repository failures
// and a missing token still produce a success acknowledgment.
// GET|POST /api/collect
func (h *Handler) collect(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Collector.TriggerNow(r.Context())
	if err != nil && !errors.Is(err, custom_errors.ErrMissingCredential) {
		h.internalError(w, "Collection cycle failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectResponse{Success: true, CycleReport: report})
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}

func decodeRepoRequest(w http.ResponseWriter, r *http.Request) (repoRequest, bool) {
	var req repoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Owner == "" || req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Request body must be {\"owner\": \"...\", \"name\": \"...\"}")
		return repoRequest{}, false
	}
	return req, true
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("Failed to encode response", "error", err)
	}
}
