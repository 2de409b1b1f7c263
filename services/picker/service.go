// Package picker serves lottery number suggestions over HTTP.
//
// The service holds one immutable lottery.Snapshot per game variant. Reload
// rebuilds snapshots from the history store and swaps them atomically, so
// in-flight requests always see a complete model.
package picker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"github.com/R3E-Network/lotto_picker/internal/app/metrics"
	"github.com/R3E-Network/lotto_picker/internal/history"
	"github.com/R3E-Network/lotto_picker/internal/lottery"
	"github.com/R3E-Network/lotto_picker/pkg/logger"
)

// =============================================================================
// Service Constants
// =============================================================================

const (
	ServiceID   = "picker"
	ServiceName = "Lotto Picker Service"
	Version     = "1.0.0"
)

// ErrSnapshotNotLoaded is returned before history has been loaded for a variant.
var ErrSnapshotNotLoaded = errors.New("history not loaded")

// =============================================================================
// Service Definition
// =============================================================================

// Service generates selections from per-variant snapshots.
type Service struct {
	router *mux.Router
	store  history.Store
	log    *logger.Logger

	defaults       lottery.Settings
	reloadSchedule string

	snapshots map[lottery.VariantID]*atomic.Pointer[lottery.Snapshot]
	reloadMu  sync.Mutex

	cron      *cron.Cron
	stopOnce  sync.Once
	startTime time.Time
}

// Config holds service configuration.
type Config struct {
	Store  history.Store
	Logger *logger.Logger
	// Defaults apply when a request carries no settings.
	Defaults lottery.Settings
	// ReloadSchedule is a cron spec; empty disables scheduled reloads.
	ReloadSchedule string
}

// New creates the service and registers its routes.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("history store is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewDefault(ServiceID)
	}

	s := &Service{
		router:         mux.NewRouter(),
		store:          cfg.Store,
		log:            log,
		defaults:       cfg.Defaults.Clamped(),
		reloadSchedule: cfg.ReloadSchedule,
		snapshots:      make(map[lottery.VariantID]*atomic.Pointer[lottery.Snapshot]),
	}
	for _, v := range lottery.Variants() {
		s.snapshots[v.ID] = new(atomic.Pointer[lottery.Snapshot])
	}

	s.registerRoutes()
	return s, nil
}

// Router returns the service's HTTP router.
func (s *Service) Router() *mux.Router {
	return s.router
}

// Defaults returns the settings used when a request carries none.
func (s *Service) Defaults() lottery.Settings {
	return s.defaults
}

// =============================================================================
// History
// =============================================================================

// Reload rebuilds every variant's snapshot from the store. A variant whose
// load fails keeps its previous snapshot; the failures are joined into the
// returned error.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	var errs []error
	for _, v := range lottery.Variants() {
		if err := s.reloadVariant(ctx, v); err != nil {
			s.log.WithError(err).WithField("variant", v.ID).Error("history reload failed")
			errs = append(errs, fmt.Errorf("%s: %w", v.ID, err))
		}
	}

	err := errors.Join(errs...)
	metrics.RecordReload(err == nil)
	return err
}

func (s *Service) reloadVariant(ctx context.Context, v lottery.Variant) error {
	draws, err := s.store.LoadDraws(ctx, v)
	if err != nil {
		return err
	}

	snap := lottery.NewSnapshot(v, draws)
	s.snapshots[v.ID].Store(snap)
	metrics.SetHistoryDraws(string(v.ID), len(draws))

	entry := s.log.WithField("variant", v.ID).WithField("draws", len(draws))
	if len(draws) == 0 {
		entry.Warn("no historical draws; weights reduce to noise")
	} else {
		entry.Info("history loaded")
	}
	return nil
}

// Snapshot returns the active snapshot for a variant.
func (s *Service) Snapshot(id lottery.VariantID) (*lottery.Snapshot, error) {
	v, err := lottery.LookupVariant(id)
	if err != nil {
		return nil, err
	}
	snap := s.snapshots[v.ID].Load()
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotLoaded, v.ID)
	}
	return snap, nil
}

func (s *Service) loadedCount() int {
	n := 0
	for _, p := range s.snapshots {
		if p.Load() != nil {
			n++
		}
	}
	return n
}

// =============================================================================
// Generation
// =============================================================================

// GenerateRequest asks for one selection.
type GenerateRequest struct {
	Variant string `json:"variant"`
	Mode    string `json:"mode,omitempty"`
	// Settings override the service defaults; values are clamped to [0,1].
	Settings *lottery.Settings `json:"settings,omitempty"`
	// Seed makes the selection reproducible against the same snapshot.
	Seed *uint64 `json:"seed,omitempty"`
}

// GenerateResponse is a selection with its request metadata.
type GenerateResponse struct {
	ID string `json:"id"`
	lottery.Selection
	Formatted   string    `json:"formatted"`
	Seed        uint64    `json:"seed"`
	DrawCount   int       `json:"draw_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Generate produces one selection for req.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode, err := lottery.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(lottery.VariantID(req.Variant))
	if err != nil {
		return nil, err
	}

	settings := s.defaults
	if req.Settings != nil {
		settings = req.Settings.Clamped()
	}
	seed := lottery.NewSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	start := time.Now()
	sel, err := snap.Generate(lottery.NewRand(seed), lottery.Request{Mode: mode, Settings: settings})
	if err != nil {
		return nil, err
	}
	metrics.RecordSelection(string(snap.Variant.ID), string(mode), time.Since(start))

	resp := &GenerateResponse{
		ID:          uuid.NewString(),
		Selection:   sel,
		Formatted:   sel.Format(),
		Seed:        seed,
		DrawCount:   len(snap.Draws),
		GeneratedAt: time.Now().UTC(),
	}
	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"variant":    sel.Variant,
		"mode":       sel.Mode,
		"luck_score": sel.LuckScore,
	}).Debug("selection generated")
	return resp, nil
}

// Stats summarizes a variant's active snapshot.
func (s *Service) Stats(id lottery.VariantID, limit int) (lottery.VariantStats, error) {
	snap, err := s.Snapshot(id)
	if err != nil {
		return lottery.VariantStats{}, err
	}
	return snap.Stats(limit), nil
}
