package kpi

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-kpitiles/pkg/activity"
)

var (
	errMissingStore    = errors.New("kpi: preference store not configured")
	errMissingReport   = errors.New("kpi: report key is required")
	errMissingViewer   = errors.New("kpi: viewer user id is required")
	errMissingTile     = errors.New("kpi: tile id is required")
	errUnknownReport   = errors.New("kpi: unknown report")
	errRejectedReorder = errors.New("kpi: reorder is limited to visible tiles")
)

// ErrUnknownReport is returned when no catalog is registered for a report key.
var ErrUnknownReport = errUnknownReport

// ErrRejectedReorder is returned when a reorder names a hidden or unknown tile.
var ErrRejectedReorder = errRejectedReorder

// IsValidationError reports whether err was caused by bad caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, errMissingReport) ||
		errors.Is(err, errMissingViewer) ||
		errors.Is(err, errMissingTile) ||
		errors.Is(err, errRejectedReorder)
}

// Options configures the Service. Every collaborator is an interface so
// applications can swap implementations.
type Options struct {
	Store          KeyValueStore
	Scope          StoreScoper
	Catalogs       CatalogRegistry
	ChangeHook     ChangeHook
	Telemetry      Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	Namespaces     Namespaces
	Logger         *zap.Logger
}

// Service resolves per-viewer tile preferences for registered reports.
type Service struct {
	opts     Options
	activity *activity.Emitter
}

// NewService builds a Service with safe defaults.
func NewService(opts Options) *Service {
	if opts.Scope == nil {
		opts.Scope = ScopeByUser
	}
	if opts.Catalogs == nil {
		opts.Catalogs = NewRegistry()
	}
	if opts.ChangeHook == nil {
		opts.ChangeHook = noopChangeHook{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Namespaces = opts.Namespaces.normalize()
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}
}

// ReportTiles is the resolved tile state of one report for one viewer.
type ReportTiles struct {
	ReportKey  string   `json:"report_key"`
	Name       string   `json:"name,omitempty"`
	Tiles      []Tile   `json:"tiles"`
	Visible    []string `json:"visible"`
	Hidden     []string `json:"hidden"`
	Order      []string `json:"order"`
	AllVisible bool     `json:"all_visible"`
}

// PanelView is the state of the customize panel for one report.
type PanelView struct {
	Report      ReportTiles `json:"report"`
	Items       []PanelItem `json:"items"`
	AllSelected bool        `json:"all_selected"`
}

// Mount loads the live preferences of reportKey for viewer.
func (s *Service) Mount(ctx context.Context, viewer ViewerContext, reportKey string) (*Preferences, error) {
	if s.opts.Store == nil {
		return nil, errMissingStore
	}
	if reportKey == "" {
		return nil, errMissingReport
	}
	if viewer.UserID == "" {
		return nil, errMissingViewer
	}
	catalog, ok := s.opts.Catalogs.Catalog(reportKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownReport, reportKey)
	}
	meta := activityContextFrom(ctx)
	prefs := NewPreferences(
		s.opts.Scope(s.opts.Store, viewer),
		catalog,
		WithLogger(s.opts.Logger.With(zap.String("report", reportKey), zap.String("user", viewer.UserID))),
		WithNamespaces(s.opts.Namespaces),
		WithOrigin(meta.Origin),
	)
	return prefs, nil
}

// Tiles resolves the visible tiles of a report.
func (s *Service) Tiles(ctx context.Context, viewer ViewerContext, reportKey string) (ReportTiles, error) {
	prefs, err := s.Mount(ctx, viewer, reportKey)
	if err != nil {
		return ReportTiles{}, err
	}
	s.recordTelemetry(ctx, "kpi.tiles.resolve", map[string]any{
		"report_key": reportKey,
		"viewer":     viewer.UserID,
		"visible":    len(prefs.Visible()),
	})
	return snapshot(prefs), nil
}

// Panel resolves the customize panel state of a report.
func (s *Service) Panel(ctx context.Context, viewer ViewerContext, reportKey string) (PanelView, error) {
	prefs, err := s.Mount(ctx, viewer, reportKey)
	if err != nil {
		return PanelView{}, err
	}
	panel := NewPanel(prefs)
	return PanelView{
		Report:      snapshot(prefs),
		Items:       panel.Items(),
		AllSelected: panel.AllSelected(),
	}, nil
}

// Toggle flips the visibility of one tile.
func (s *Service) Toggle(ctx context.Context, viewer ViewerContext, reportKey, tileID string) (ReportTiles, error) {
	if tileID == "" {
		return ReportTiles{}, errMissingTile
	}
	prefs, err := s.Mount(ctx, viewer, reportKey)
	if err != nil {
		return ReportTiles{}, err
	}
	shown := prefs.Toggle(tileID)
	if err := s.changed(ctx, viewer, prefs, ChangeToggle, tileID, map[string]any{"shown": shown}); err != nil {
		return ReportTiles{}, err
	}
	return snapshot(prefs), nil
}

// Reorder moves a visible tile into another visible tile's slot.
func (s *Service) Reorder(ctx context.Context, viewer ViewerContext, reportKey, source, target string) (ReportTiles, error) {
	if source == "" || target == "" {
		return ReportTiles{}, errMissingTile
	}
	prefs, err := s.Mount(ctx, viewer, reportKey)
	if err != nil {
		return ReportTiles{}, err
	}
	if source == target {
		return snapshot(prefs), nil
	}
	if !prefs.Reorder(source, target) {
		return snapshot(prefs), fmt.Errorf("%w: %s -> %s", errRejectedReorder, source, target)
	}
	if err := s.changed(ctx, viewer, prefs, ChangeReorder, source, map[string]any{"target": target}); err != nil {
		return ReportTiles{}, err
	}
	return snapshot(prefs), nil
}

// SelectAll shows every tile of a report.
func (s *Service) SelectAll(ctx context.Context, viewer ViewerContext, reportKey string) (ReportTiles, error) {
	prefs, err := s.Mount(ctx, viewer, reportKey)
	if err != nil {
		return ReportTiles{}, err
	}
	prefs.SelectAll()
	if err := s.changed(ctx, viewer, prefs, ChangeSelectAll, "", nil); err != nil {
		return ReportTiles{}, err
	}
	return snapshot(prefs), nil
}

// SelectNone hides every tile of a report.
func (s *Service) SelectNone(ctx context.Context, viewer ViewerContext, reportKey string) (ReportTiles, error) {
	prefs, err := s.Mount(ctx, viewer, reportKey)
	if err != nil {
		return ReportTiles{}, err
	}
	prefs.SelectNone()
	if err := s.changed(ctx, viewer, prefs, ChangeSelectNone, "", nil); err != nil {
		return ReportTiles{}, err
	}
	return snapshot(prefs), nil
}

// NotifyExternalChange forwards a change made outside the service (for
// example another process writing the store) to the change hook.
func (s *Service) NotifyExternalChange(ctx context.Context, event PreferenceEvent) error {
	if event.Kind == "" {
		event.Kind = ChangeExternal
	}
	if err := s.opts.ChangeHook.PreferencesChanged(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "kpi.preferences.external", map[string]any{
		"report_key": event.ReportKey,
		"user_id":    event.UserID,
	})
	return nil
}

// Catalogs lists the registered report catalogs.
func (s *Service) Catalogs() []Catalog {
	return s.opts.Catalogs.Catalogs()
}

func (s *Service) changed(ctx context.Context, viewer ViewerContext, prefs *Preferences, kind, tileID string, extra map[string]any) error {
	event := PreferenceEvent{
		ReportKey: prefs.ReportKey(),
		UserID:    viewer.UserID,
		Kind:      kind,
		TileID:    tileID,
		Origin:    prefs.Origin(),
	}
	if err := s.opts.ChangeHook.PreferencesChanged(ctx, event); err != nil {
		return err
	}
	payload := map[string]any{
		"report_key": event.ReportKey,
		"user_id":    viewer.UserID,
		"visible":    len(prefs.Visible()),
	}
	if tileID != "" {
		payload["tile_id"] = tileID
	}
	for k, v := range extra {
		payload[k] = v
	}
	s.recordTelemetry(ctx, "kpi.preferences."+kind, payload)
	s.emitActivity(ctx, viewer, "kpi.preferences."+kind, event, payload)
	return nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) emitActivity(ctx context.Context, viewer ViewerContext, verb string, event PreferenceEvent, metadata map[string]any) {
	if !s.activity.Enabled() {
		return
	}
	meta := activityContextFrom(ctx)
	actor := meta.ActorID
	if actor == "" {
		actor = viewer.UserID
	}
	err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor,
		UserID:     viewer.UserID,
		TenantID:   meta.TenantID,
		ObjectType: "kpi_report",
		ObjectID:   event.ReportKey,
		TileID:     event.TileID,
		Origin:     event.Origin,
		Metadata:   metadata,
	})
	if err != nil {
		s.opts.Logger.Warn("activity hook failed", zap.String("verb", verb), zap.Error(err))
	}
}

func snapshot(prefs *Preferences) ReportTiles {
	catalog := prefs.Catalog()
	return ReportTiles{
		ReportKey:  catalog.ReportKey,
		Name:       catalog.Name,
		Tiles:      prefs.Tiles(),
		Visible:    prefs.Visible(),
		Hidden:     prefs.Hidden(),
		Order:      prefs.Order(),
		AllVisible: prefs.AllVisible(),
	}
}
