package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-kpitiles/components/kpi"
)

// ToggleTileInput flips one tile for a viewer.
type ToggleTileInput struct {
	Viewer    kpi.ViewerContext `json:"viewer"`
	ReportKey string            `json:"report_key"`
	TileID    string            `json:"tile_id"`
}

type toggleService interface {
	Toggle(ctx context.Context, viewer kpi.ViewerContext, reportKey, tileID string) (kpi.ReportTiles, error)
}

// ToggleTileCommand wraps Service.Toggle.
type ToggleTileCommand struct {
	service   toggleService
	telemetry Telemetry
}

// NewToggleTileCommand builds the command.
func NewToggleTileCommand(service toggleService, telemetry Telemetry) *ToggleTileCommand {
	return &ToggleTileCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleTileInput] = (*ToggleTileCommand)(nil)

// Execute toggles the tile and records the resulting visibility.
func (c *ToggleTileCommand) Execute(ctx context.Context, msg ToggleTileInput) error {
	if c.service == nil {
		return errors.New("toggle command requires service")
	}
	tiles, err := c.service.Toggle(ctx, msg.Viewer, msg.ReportKey, msg.TileID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kpi.command.toggle", map[string]any{
		"report_key": msg.ReportKey,
		"tile_id":    msg.TileID,
		"visible":    len(tiles.Visible),
	})
	return nil
}
