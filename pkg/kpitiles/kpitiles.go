package kpitiles

import (
	core "github.com/goliatone/go-kpitiles/components/kpi"
)

// Service exposes the underlying components/kpi.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Preferences re-export for report pages that mount tiles directly.
type Preferences = core.Preferences

// Catalog re-export.
type Catalog = core.Catalog

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewPreferences mounts the preferences of one report without a Service.
func NewPreferences(store core.KeyValueStore, catalog Catalog, opts ...core.Option) *Preferences {
	return core.NewPreferences(store, catalog, opts...)
}
