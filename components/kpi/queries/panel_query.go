package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-kpitiles/components/kpi"
)

type panelService interface {
	Panel(ctx context.Context, viewer kpi.ViewerContext, reportKey string) (kpi.PanelView, error)
}

// PanelQuery resolves the customize panel rows for a report.
type PanelQuery struct {
	service panelService
}

// NewPanelQuery builds the query.
func NewPanelQuery(service panelService) *PanelQuery {
	return &PanelQuery{service: service}
}

var _ gocommand.Querier[ReportInput, kpi.PanelView] = (*PanelQuery)(nil)

// Query resolves the panel view.
func (q *PanelQuery) Query(ctx context.Context, input ReportInput) (kpi.PanelView, error) {
	return q.service.Panel(ctx, input.Viewer, input.ReportKey)
}
