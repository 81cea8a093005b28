package kpi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

type stubPanelResolver struct {
	tiles ReportTiles
	view  PanelView
	err   error
}

func (s *stubPanelResolver) Tiles(context.Context, ViewerContext, string) (ReportTiles, error) {
	return s.tiles, s.err
}

func (s *stubPanelResolver) Panel(context.Context, ViewerContext, string) (PanelView, error) {
	return s.view, s.err
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<section></section>"))
	}
	return "<section></section>", r.err
}

func TestControllerRenderPanel(t *testing.T) {
	service := &stubPanelResolver{
		view: PanelView{
			Report: ReportTiles{ReportKey: "marketing.coupons"},
			Items: []PanelItem{
				{Tile: Tile{ID: "issued", Label: "Coupons Issued"}, Selected: true, Draggable: true},
				{Tile: Tile{ID: "redeemed", Label: "Coupons Redeemed"}, Position: 1},
			},
		},
	}
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{Service: service, Renderer: renderer})

	var buf bytes.Buffer
	if err := controller.RenderPanel(context.Background(), ViewerContext{UserID: "u1"}, "marketing.coupons", &buf); err != nil {
		t.Fatalf("RenderPanel returned error: %v", err)
	}
	if renderer.lastTemplate != "panel.html" {
		t.Fatalf("expected panel template, got %s", renderer.lastTemplate)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected output to be written")
	}
	if renderer.lastPayload["title"] != "marketing.coupons" {
		t.Fatalf("expected title to fall back to report key, got %v", renderer.lastPayload["title"])
	}
	items, ok := renderer.lastPayload["items"].([]map[string]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected two items, got %+v", renderer.lastPayload["items"])
	}
	if items[0]["id"] != "issued" || items[0]["draggable"] != true || items[1]["selected"] != false {
		t.Fatalf("unexpected items payload: %+v", items)
	}
}

func TestControllerPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	controller := NewController(ControllerOptions{Service: &stubPanelResolver{err: boom}, Renderer: &stubRenderer{}})
	if _, err := controller.TilesPayload(context.Background(), ViewerContext{UserID: "u1"}, "r"); !errors.Is(err, boom) {
		t.Fatalf("expected service error, got %v", err)
	}
	if err := controller.RenderPanel(context.Background(), ViewerContext{UserID: "u1"}, "r", io.Discard); !errors.Is(err, boom) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestControllerRequiresCollaborators(t *testing.T) {
	controller := NewController(ControllerOptions{})
	if _, err := controller.PanelPayload(context.Background(), ViewerContext{}, "r"); err == nil {
		t.Fatalf("expected missing service error")
	}
	if err := controller.RenderPanel(context.Background(), ViewerContext{}, "r", io.Discard); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}
