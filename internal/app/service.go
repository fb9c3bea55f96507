package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/menusync/internal/cache"
	"github.com/cesargomez89/menusync/internal/config"
	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/domain"
	"github.com/cesargomez89/menusync/internal/downloader"
	"github.com/cesargomez89/menusync/internal/logger"
	"github.com/cesargomez89/menusync/internal/state"
)

var ErrUnknownLocation = errors.New("unknown location")

const (
	stageInitializing = "Initializing..."
	stageRestarting   = "Restarting..."
)

// Runner executes one refresh run.
type Runner interface {
	Run(ctx context.Context, loc config.Location, runID string)
}

// MenuService decides when a location needs refreshing and starts runs in
// the background. Callers poll GetMenuData for progress.
type MenuService struct {
	state        *state.Service
	cache        *cache.Manager
	runner       Runner
	supervisor   *downloader.Supervisor
	locations    map[string]config.Location
	order        []string
	staleTimeout time.Duration
	now          func() time.Time
	newRunID     func() string
	logger       *logger.Logger
}

type ServiceOption func(*MenuService)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *MenuService) { s.now = now }
}

func WithStaleTimeout(d time.Duration) ServiceOption {
	return func(s *MenuService) {
		if d > 0 {
			s.staleTimeout = d
		}
	}
}

func WithRunIDs(next func() string) ServiceOption {
	return func(s *MenuService) { s.newRunID = next }
}

func NewMenuService(st *state.Service, cm *cache.Manager, runner Runner, sup *downloader.Supervisor, locations []config.Location, log *logger.Logger, opts ...ServiceOption) *MenuService {
	if log == nil {
		log = logger.Default()
	}
	if sup == nil {
		sup = downloader.NewSupervisor(log)
	}
	s := &MenuService{
		state:        st,
		cache:        cm,
		runner:       runner,
		supervisor:   sup,
		locations:    make(map[string]config.Location, len(locations)),
		staleTimeout: constants.DefaultStaleTimeout,
		now:          time.Now,
		newRunID:     func() string { return uuid.New().String() },
		logger:       log.WithComponent("menu_service"),
	}
	for _, loc := range locations {
		if _, dup := s.locations[loc.Name]; dup {
			continue
		}
		s.locations[loc.Name] = loc
		s.order = append(s.order, loc.Name)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locations returns the configured locations in configuration order.
func (s *MenuService) Locations() []config.Location {
	out := make([]config.Location, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.locations[name])
	}
	return out
}

func (s *MenuService) location(name string) (config.Location, error) {
	loc, ok := s.locations[name]
	if !ok {
		return config.Location{}, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	return loc, nil
}

// GetMenuData returns what a caller should display for the location. An
// untouched location, or one whose run went stale, gets a run started.
func (s *MenuService) GetMenuData(ctx context.Context, name string) (domain.MenuData, error) {
	loc, err := s.location(name)
	if err != nil {
		return domain.MenuData{}, err
	}
	st, err := s.state.Get(ctx, loc.Name)
	if err != nil {
		return domain.MenuData{}, err
	}

	if st.Status == domain.StatusIdle && len(st.Sections) == 0 {
		if _, err := s.TriggerUpdate(ctx, loc.Name, false); err != nil {
			s.logger.Warn("Failed to start menu update", "location", loc.Name, "error", err)
		}
		return domain.MenuData{
			Sections:     []domain.MenuSection{},
			IsProcessing: true,
			Progress:     &domain.Progress{Current: 0, Total: constants.ProgressTotal, Stage: stageInitializing},
		}, nil
	}

	if st.Status.IsActive() && st.IsStale(s.now(), s.staleTimeout) {
		s.logger.Warn("Detected stale menu update, restarting", "location", loc.Name, "status", st.Status, "updated_at", st.UpdatedAt)
		if _, err := s.TriggerUpdate(ctx, loc.Name, false); err != nil {
			s.logger.Warn("Failed to restart menu update", "location", loc.Name, "error", err)
		}
		return domain.MenuData{
			Sections:      st.Sections,
			IsProcessing:  true,
			Progress:      &domain.Progress{Current: 0, Total: constants.ProgressTotal, Stage: stageRestarting},
			IsPlaceholder: st.IsPlaceholder,
		}, nil
	}

	return domain.MenuData{
		Sections:      st.Sections,
		IsProcessing:  st.Status.IsActive(),
		Progress:      st.Progress,
		SourceDate:    st.SourceDate,
		Error:         st.Error,
		IsPlaceholder: st.IsPlaceholder,
	}, nil
}

// TriggerUpdate starts a run unless one is active and fresh, or the last
// run completed recently with items and force is false. It reports whether
// a run was started and never waits for it.
func (s *MenuService) TriggerUpdate(ctx context.Context, name string, force bool) (bool, error) {
	loc, err := s.location(name)
	if err != nil {
		return false, err
	}

	runID := s.newRunID()
	now := s.now()
	var skipped string
	// The claim and the run it starts do not depend on the caller staying around.
	claimCtx := context.WithoutCancel(ctx)
	_, started, err := s.state.UpdateIf(claimCtx, loc.Name, func(st *domain.LocationState) bool {
		stale := st.IsStale(now, s.staleTimeout)
		if st.Status.IsActive() && !stale {
			skipped = "update already in progress"
			return false
		}
		if !force && !stale && st.Status == domain.StatusComplete && len(st.Sections) > 0 {
			skipped = "menu is current"
			return false
		}
		st.Status = domain.StatusFetchingSource
		st.Error = ""
		st.RunID = runID
		st.Progress = &domain.Progress{
			Current: constants.ProgressFetch,
			Total:   constants.ProgressTotal,
			Stage:   fmt.Sprintf("Fetching %s PDF menu...", loc.Name),
		}
		return true
	})
	if err != nil {
		return false, fmt.Errorf("failed to start update for %s: %w", loc.Name, err)
	}
	if !started {
		s.logger.Debug("Menu update skipped", "location", loc.Name, "reason", skipped, "force", force)
		return false, nil
	}

	s.logger.Info("Starting menu update", "location", loc.Name, "run_id", runID, "force", force)
	s.supervisor.Go("run:"+loc.Name, func() {
		s.runner.Run(claimCtx, loc, runID)
	})
	return true, nil
}

// ResetLocation overwrites the location with the idle default. A run still
// in flight notices on its next write and stops.
func (s *MenuService) ResetLocation(ctx context.Context, name string) (domain.LocationState, error) {
	loc, err := s.location(name)
	if err != nil {
		return domain.LocationState{}, err
	}
	st, err := s.state.Reset(ctx, loc.Name)
	if err != nil {
		return domain.LocationState{}, err
	}
	s.logger.Info("Location reset", "location", loc.Name)
	return st, nil
}

// ClearCache drops every cached enrichment.
func (s *MenuService) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("Enrichment cache cleared")
	return nil
}

// Warmup triggers a non-forced update for every location.
func (s *MenuService) Warmup(ctx context.Context) {
	for _, loc := range s.Locations() {
		if _, err := s.TriggerUpdate(ctx, loc.Name, false); err != nil {
			s.logger.Error("Warmup failed", "location", loc.Name, "error", err)
		}
	}
}

// Wait blocks until every run and image follow-up started so far has finished.
func (s *MenuService) Wait() {
	s.supervisor.Wait()
}
