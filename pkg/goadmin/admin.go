package goadmin

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-kpitiles/pkg/kpitiles"
)

// MenuBuilder ensures KPI entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures menu link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the KPI tile service into an admin shell.
type Config struct {
	EnableTiles     bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *kpitiles.Service
	DefaultMenuItem MenuItem
	// ReportRoutePrefix prefixes the per-report route names.
	ReportRoutePrefix string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed KPI menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableTiles && cfg.Service == nil {
		return nil, errors.New("goadmin: kpi service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Reports"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.kpi"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "bar-chart"
	}
	if cfg.ReportRoutePrefix == "" {
		cfg.ReportRoutePrefix = cfg.DefaultMenuItem.Route + "."
	}
	return &Admin{cfg: cfg}, nil
}

// Tiles exposes the configured service when enabled.
func (a *Admin) Tiles() *kpitiles.Service {
	if !a.cfg.EnableTiles {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap seeds the reports menu entry plus one entry per registered
// report catalog.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableTiles || a.cfg.MenuBuilder == nil {
		return nil
	}
	if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem); err != nil {
		return err
	}
	for idx, catalog := range a.cfg.Service.Catalogs() {
		label := catalog.Name
		if label == "" {
			label = catalog.ReportKey
		}
		item := MenuItem{
			Label:    label,
			Route:    a.cfg.ReportRoutePrefix + catalog.ReportKey,
			Icon:     a.cfg.DefaultMenuItem.Icon,
			Position: a.cfg.DefaultMenuItem.Position + idx + 1,
		}
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: menu item for %s: %w", catalog.ReportKey, err)
		}
	}
	return nil
}
