package picker

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/R3E-Network/lotto_picker/internal/app/metrics"
	"github.com/R3E-Network/lotto_picker/internal/httputil"
	"github.com/R3E-Network/lotto_picker/internal/lottery"
)

const defaultStatsLimit = 10

// =============================================================================
// API Routes
// =============================================================================

func (s *Service) registerRoutes() {
	router := s.router
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/info", s.handleInfo).Methods("GET")
	router.HandleFunc("/variants", s.handleVariants).Methods("GET")
	router.HandleFunc("/variants/{variant}/stats", s.handleStats).Methods("GET")
	router.HandleFunc("/settings/default", s.handleDefaultSettings).Methods("GET")
	router.HandleFunc("/generate", s.handleGenerate).Methods("POST")
	router.HandleFunc("/reload", s.handleReload).Methods("POST")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")
}

// =============================================================================
// Response Types
// =============================================================================

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// InfoResponse is the response for /info.
type InfoResponse struct {
	Status     string         `json:"status"`
	Service    string         `json:"service"`
	Version    string         `json:"version"`
	Timestamp  string         `json:"timestamp"`
	Statistics map[string]any `json:"statistics,omitempty"`
}

// SettingsResponse describes a settings value and its derived noise range.
type SettingsResponse struct {
	lottery.Settings
	NoiseRange lottery.NoiseRange `json:"noise_range"`
	IsDefault  bool               `json:"is_default"`
}

func newSettingsResponse(st lottery.Settings) SettingsResponse {
	return SettingsResponse{Settings: st, NoiseRange: st.NoiseRange(), IsDefault: st.IsDefault()}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	switch loaded := s.loadedCount(); {
	case loaded == 0:
		status, code = "unhealthy", http.StatusServiceUnavailable
	case loaded < len(s.snapshots):
		status = "degraded"
	}
	httputil.WriteJSON(w, code, HealthResponse{
		Status:    status,
		Service:   ServiceName,
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *Service) handleInfo(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"defaults": newSettingsResponse(s.defaults),
	}
	if !s.startTime.IsZero() {
		stats["uptime"] = time.Since(s.startTime).Round(time.Second).String()
	}
	draws := make(map[string]int, len(s.snapshots))
	for id, p := range s.snapshots {
		if snap := p.Load(); snap != nil {
			draws[string(id)] = len(snap.Draws)
		}
	}
	stats["draws"] = draws

	httputil.WriteJSON(w, http.StatusOK, InfoResponse{
		Status:     "active",
		Service:    ServiceName,
		Version:    Version,
		Timestamp:  time.Now().Format(time.RFC3339),
		Statistics: stats,
	})
}

func (s *Service) handleVariants(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, lottery.Variants())
}

func (s *Service) handleDefaultSettings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, newSettingsResponse(lottery.DefaultSettings()))
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	limit := defaultStatsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	stats, err := s.Stats(lottery.VariantID(mux.Vars(r)["variant"]), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, stats)
}

func (s *Service) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Variant == "" {
		req.Variant = r.URL.Query().Get("variant")
	}

	resp, err := s.Generate(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, resp)
}

func (s *Service) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, map[string]any{"variants": s.loadedCount()})
}

func (s *Service) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.WithContext(r.Context()).WithError(err).Error("request failed")
	}
	httputil.WriteError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lottery.ErrUnknownVariant),
		errors.Is(err, lottery.ErrUnknownMode),
		errors.Is(err, lottery.ErrInvalidSampleSize):
		return http.StatusBadRequest
	case errors.Is(err, ErrSnapshotNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
