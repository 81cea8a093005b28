package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-kpitiles/components/kpi"
)

// ReportInput identifies a report for a viewer.
type ReportInput struct {
	Viewer    kpi.ViewerContext
	ReportKey string
}

type tilesService interface {
	Tiles(ctx context.Context, viewer kpi.ViewerContext, reportKey string) (kpi.ReportTiles, error)
}

// ReportTilesQuery resolves the tiles a viewer sees on a report.
type ReportTilesQuery struct {
	service tilesService
}

// NewReportTilesQuery builds the query.
func NewReportTilesQuery(service tilesService) *ReportTilesQuery {
	return &ReportTilesQuery{service: service}
}

var _ gocommand.Querier[ReportInput, kpi.ReportTiles] = (*ReportTilesQuery)(nil)

// Query resolves the report tiles.
func (q *ReportTilesQuery) Query(ctx context.Context, input ReportInput) (kpi.ReportTiles, error) {
	return q.service.Tiles(ctx, input.Viewer, input.ReportKey)
}
