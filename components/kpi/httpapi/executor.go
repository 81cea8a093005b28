package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-kpitiles/components/kpi"
	"github.com/goliatone/go-kpitiles/components/kpi/commands"
	"github.com/goliatone/go-kpitiles/components/kpi/queries"
)

// Executor is the transport-facing surface shared by the net/http handlers
// and the go-router routes.
type Executor interface {
	Tiles(ctx context.Context, input queries.ReportInput) (kpi.ReportTiles, error)
	Panel(ctx context.Context, input queries.ReportInput) (kpi.PanelView, error)
	Toggle(ctx context.Context, input commands.ToggleTileInput) error
	Reorder(ctx context.Context, input commands.ReorderTilesInput) error
	SelectAll(ctx context.Context, input commands.SelectTilesInput) error
	SelectNone(ctx context.Context, input commands.SelectTilesInput) error
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	TilesQuery gocommand.Querier[queries.ReportInput, kpi.ReportTiles]
	PanelQuery gocommand.Querier[queries.ReportInput, kpi.PanelView]
	ToggleCmd  gocommand.Commander[commands.ToggleTileInput]
	ReorderCmd gocommand.Commander[commands.ReorderTilesInput]
	AllCmd     gocommand.Commander[commands.SelectTilesInput]
	NoneCmd    gocommand.Commander[commands.SelectTilesInput]
}

var errNotConfigured = errors.New("httpapi: operation not configured")

// NewCommandExecutor wires the default commands and queries around service.
func NewCommandExecutor(service *kpi.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		TilesQuery: queries.NewReportTilesQuery(service),
		PanelQuery: queries.NewPanelQuery(service),
		ToggleCmd:  commands.NewToggleTileCommand(service, telemetry),
		ReorderCmd: commands.NewReorderTilesCommand(service, telemetry),
		AllCmd:     commands.NewSelectAllTilesCommand(service, telemetry),
		NoneCmd:    commands.NewSelectNoneTilesCommand(service, telemetry),
	}
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Tiles(ctx context.Context, input queries.ReportInput) (kpi.ReportTiles, error) {
	if e.TilesQuery == nil {
		return kpi.ReportTiles{}, errNotConfigured
	}
	return e.TilesQuery.Query(ctx, input)
}

func (e *CommandExecutor) Panel(ctx context.Context, input queries.ReportInput) (kpi.PanelView, error) {
	if e.PanelQuery == nil {
		return kpi.PanelView{}, errNotConfigured
	}
	return e.PanelQuery.Query(ctx, input)
}

func (e *CommandExecutor) Toggle(ctx context.Context, input commands.ToggleTileInput) error {
	if e.ToggleCmd == nil {
		return errNotConfigured
	}
	return e.ToggleCmd.Execute(ctx, input)
}

func (e *CommandExecutor) Reorder(ctx context.Context, input commands.ReorderTilesInput) error {
	if e.ReorderCmd == nil {
		return errNotConfigured
	}
	return e.ReorderCmd.Execute(ctx, input)
}

func (e *CommandExecutor) SelectAll(ctx context.Context, input commands.SelectTilesInput) error {
	if e.AllCmd == nil {
		return errNotConfigured
	}
	return e.AllCmd.Execute(ctx, input)
}

func (e *CommandExecutor) SelectNone(ctx context.Context, input commands.SelectTilesInput) error {
	if e.NoneCmd == nil {
		return errNotConfigured
	}
	return e.NoneCmd.Execute(ctx, input)
}
