package kpi

import (
	"context"
	"errors"
	"io"
)

const panelTemplate = "panel.html"

type panelResolver interface {
	Tiles(ctx context.Context, viewer ViewerContext, reportKey string) (ReportTiles, error)
	Panel(ctx context.Context, viewer ViewerContext, reportKey string) (PanelView, error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  panelResolver
	Renderer Renderer
}

// Controller exposes the service to HTTP transports.
type Controller struct {
	service  panelResolver
	renderer Renderer
}

// NewController builds a controller.
func NewController(opts ControllerOptions) *Controller {
	return &Controller{service: opts.Service, renderer: opts.Renderer}
}

// TilesPayload resolves the JSON payload of a report's visible tiles.
func (c *Controller) TilesPayload(ctx context.Context, viewer ViewerContext, reportKey string) (ReportTiles, error) {
	if c.service == nil {
		return ReportTiles{}, errors.New("kpi: controller requires service")
	}
	return c.service.Tiles(ctx, viewer, reportKey)
}

// PanelPayload resolves the customize panel state.
func (c *Controller) PanelPayload(ctx context.Context, viewer ViewerContext, reportKey string) (PanelView, error) {
	if c.service == nil {
		return PanelView{}, errors.New("kpi: controller requires service")
	}
	return c.service.Panel(ctx, viewer, reportKey)
}

// RenderPanel renders the customize panel HTML into out.
func (c *Controller) RenderPanel(ctx context.Context, viewer ViewerContext, reportKey string, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("kpi: controller requires renderer")
	}
	view, err := c.PanelPayload(ctx, viewer, reportKey)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(panelTemplate, panelTemplateData(view), out)
	return err
}

func panelTemplateData(view PanelView) map[string]any {
	items := make([]map[string]any, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, map[string]any{
			"id":        item.Tile.ID,
			"label":     item.Tile.Label,
			"helper":    item.Tile.Helper,
			"selected":  item.Selected,
			"draggable": item.Draggable,
			"position":  item.Position,
		})
	}
	title := view.Report.Name
	if title == "" {
		title = view.Report.ReportKey
	}
	return map[string]any{
		"report_key":   view.Report.ReportKey,
		"title":        title,
		"items":        items,
		"all_selected": view.AllSelected,
	}
}
