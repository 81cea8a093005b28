package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-kpitiles/components/kpi"
)

// SelectTilesInput identifies the report whose tiles are bulk-selected.
type SelectTilesInput struct {
	Viewer    kpi.ViewerContext `json:"viewer"`
	ReportKey string            `json:"report_key"`
}

type selectAllService interface {
	SelectAll(ctx context.Context, viewer kpi.ViewerContext, reportKey string) (kpi.ReportTiles, error)
}

type selectNoneService interface {
	SelectNone(ctx context.Context, viewer kpi.ViewerContext, reportKey string) (kpi.ReportTiles, error)
}

// SelectAllTilesCommand shows every catalog tile.
type SelectAllTilesCommand struct {
	service   selectAllService
	telemetry Telemetry
}

// NewSelectAllTilesCommand builds the command.
func NewSelectAllTilesCommand(service selectAllService, telemetry Telemetry) *SelectAllTilesCommand {
	return &SelectAllTilesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectTilesInput] = (*SelectAllTilesCommand)(nil)

// Execute selects every tile.
func (c *SelectAllTilesCommand) Execute(ctx context.Context, msg SelectTilesInput) error {
	if c.service == nil {
		return errors.New("select-all command requires service")
	}
	if _, err := c.service.SelectAll(ctx, msg.Viewer, msg.ReportKey); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kpi.command.select_all", map[string]any{"report_key": msg.ReportKey})
	return nil
}

// SelectNoneTilesCommand hides every tile.
type SelectNoneTilesCommand struct {
	service   selectNoneService
	telemetry Telemetry
}

// NewSelectNoneTilesCommand builds the command.
func NewSelectNoneTilesCommand(service selectNoneService, telemetry Telemetry) *SelectNoneTilesCommand {
	return &SelectNoneTilesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectTilesInput] = (*SelectNoneTilesCommand)(nil)

// Execute clears the selection. The empty set is persisted as such.
func (c *SelectNoneTilesCommand) Execute(ctx context.Context, msg SelectTilesInput) error {
	if c.service == nil {
		return errors.New("select-none command requires service")
	}
	if _, err := c.service.SelectNone(ctx, msg.Viewer, msg.ReportKey); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kpi.command.select_none", map[string]any{"report_key": msg.ReportKey})
	return nil
}
