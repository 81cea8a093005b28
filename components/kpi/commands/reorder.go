package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-kpitiles/components/kpi"
)

// ReorderTilesInput moves Source into Target's slot.
type ReorderTilesInput struct {
	Viewer    kpi.ViewerContext `json:"viewer"`
	ReportKey string            `json:"report_key"`
	Source    string            `json:"source"`
	Target    string            `json:"target"`
}

type reorderService interface {
	Reorder(ctx context.Context, viewer kpi.ViewerContext, reportKey, source, target string) (kpi.ReportTiles, error)
}

// ReorderTilesCommand wraps Service.Reorder.
type ReorderTilesCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderTilesCommand builds the command.
func NewReorderTilesCommand(service reorderService, telemetry Telemetry) *ReorderTilesCommand {
	return &ReorderTilesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderTilesInput] = (*ReorderTilesCommand)(nil)

// Execute applies the move.
func (c *ReorderTilesCommand) Execute(ctx context.Context, msg ReorderTilesInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	if _, err := c.service.Reorder(ctx, msg.Viewer, msg.ReportKey, msg.Source, msg.Target); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kpi.command.reorder", map[string]any{
		"report_key": msg.ReportKey,
		"source":     msg.Source,
		"target":     msg.Target,
	})
	return nil
}
