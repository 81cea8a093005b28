package kpi

import "context"

// KeyValueStore is the string-keyed persistence contract used for tile
// preferences. Implementations may fail; callers wrap them in SafeStore.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Telemetry records preference events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// ChangeHook notifies transports about preference changes so other
// instances of the same report can reload.
type ChangeHook interface {
	PreferencesChanged(ctx context.Context, event PreferenceEvent) error
}

// Tile describes one KPI tile a report can show.
type Tile struct {
	ID     string `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	Helper string `json:"helper,omitempty" yaml:"helper,omitempty"`
}

// Catalog is the ordered set of tiles available on one report.
type Catalog struct {
	ReportKey string `json:"key" yaml:"key"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Tiles     []Tile `json:"tiles" yaml:"tiles"`
}

// IDs returns the catalog ids in catalog order, first occurrence wins.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Tiles))
	for _, tile := range c.Tiles {
		ids = append(ids, tile.ID)
	}
	return uniqueIDs(ids)
}

// Tile looks up a tile by id.
func (c Catalog) Tile(id string) (Tile, bool) {
	for _, tile := range c.Tiles {
		if tile.ID == id {
			return tile, true
		}
	}
	return Tile{}, false
}

// TilesFor resolves ids to catalog tiles, skipping unknown ids.
func (c Catalog) TilesFor(ids []string) []Tile {
	index := make(map[string]Tile, len(c.Tiles))
	for _, tile := range c.Tiles {
		if _, ok := index[tile.ID]; !ok {
			index[tile.ID] = tile
		}
	}
	out := make([]Tile, 0, len(ids))
	for _, id := range ids {
		if tile, ok := index[id]; ok {
			out = append(out, tile)
		}
	}
	return out
}

// ViewerContext identifies whose preferences are being read or written.
type ViewerContext struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	Locale string   `json:"locale,omitempty"`
}

// Change kinds carried by PreferenceEvent.
const (
	ChangeToggle     = "toggle"
	ChangeReorder    = "reorder"
	ChangeSelectAll  = "select_all"
	ChangeSelectNone = "select_none"
	ChangeExternal   = "external"
)

// PreferenceEvent describes a persisted preference change.
type PreferenceEvent struct {
	ReportKey string `json:"report_key"`
	UserID    string `json:"user_id,omitempty"`
	Kind      string `json:"kind"`
	TileID    string `json:"tile_id,omitempty"`
	Origin    string `json:"origin,omitempty"`
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

type noopChangeHook struct{}

func (noopChangeHook) PreferencesChanged(context.Context, PreferenceEvent) error { return nil }
