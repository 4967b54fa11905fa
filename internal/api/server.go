// Package api exposes the enrichment pipeline over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/batch"
	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/internal/store"
)

// maxBodyBytes caps request bodies; batch payloads of a few thousand leads
// fit comfortably.
const maxBodyBytes = 8 << 20

// Enricher is the single-company pipeline behind POST /api/v1/enrich.
type Enricher = batch.Enricher

// Handlers carries the pipeline collaborators the HTTP layer needs. Store
// may be nil when running memory-only; the leads listing then 404s.
type Handlers struct {
	enricher Enricher
	coord    *batch.Coordinator
	store    store.Store
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(enricher Enricher, coord *batch.Coordinator, st store.Store) *Handlers {
	return &Handlers{enricher: enricher, coord: coord, store: st}
}

// Routes builds the router with logging, recovery, and CORS middleware.
// Empty allowedOrigins means any origin.
func Routes(h *Handlers, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/enrich", h.Enrich)
		r.Post("/enrich/batch", h.EnrichBatch)
		r.Get("/leads", h.ListLeads)
	})

	return r
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Enrich handles POST /api/v1/enrich: one company in, one profile out.
func (h *Handlers) Enrich(w http.ResponseWriter, r *http.Request) {
	var input model.CompanyInput
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.enricher.Enrich(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// batchRequest is the POST /api/v1/enrich/batch payload.
type batchRequest struct {
	Companies []model.CompanyInput `json:"companies"`
}

// EnrichBatch handles POST /api/v1/enrich/batch. Items come back in input
// order; per-item failures are reported inline, not as an HTTP error.
func (h *Handlers) EnrichBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Companies) == 0 {
		writeError(w, http.StatusBadRequest, "companies list is empty")
		return
	}

	result, err := h.coord.Run(r.Context(), req.Companies)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListLeads handles GET /api/v1/leads with min_score, industry, limit, and
// offset query parameters.
func (h *Handlers) ListLeads(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "persistence is not configured")
		return
	}

	filter := store.ProfileFilter{
		MinLeadScore: queryInt(r, "min_score", 0),
		Industry:     r.URL.Query().Get("industry"),
		Limit:        queryInt(r, "limit", 100),
		Offset:       queryInt(r, "offset", 0),
	}

	profiles, err := h.store.ListProfiles(r.Context(), filter)
	if err != nil {
		zap.L().Error("api: list leads failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if profiles == nil {
		profiles = []model.EnrichmentProfile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(profiles),
		"leads": profiles,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
