package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-kpitiles/components/kpi"
	"github.com/goliatone/go-kpitiles/components/kpi/commands"
	"github.com/goliatone/go-kpitiles/pkg/kvstore"
)

func newTestHandlers() (*Handlers, *kvstore.Memory) {
	store := kvstore.NewMemory()
	service := kpi.NewService(kpi.Options{Store: store})
	return &Handlers{API: NewCommandExecutor(service, nil)}, store
}

func decodeTiles(t *testing.T, rec *httptest.ResponseRecorder) kpi.ReportTiles {
	t.Helper()
	var tiles kpi.ReportTiles
	if err := json.Unmarshal(rec.Body.Bytes(), &tiles); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return tiles
}

func TestHandleTiles(t *testing.T) {
	api, _ := newTestHandlers()
	req := httptest.NewRequest(http.MethodGet, "/kpi/marketing.campaigns", nil)
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	api.HandleTiles(rec, req, "marketing.campaigns")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	tiles := decodeTiles(t, rec)
	if len(tiles.Visible) != 6 || !tiles.AllVisible {
		t.Fatalf("expected all six tiles visible, got %+v", tiles.Visible)
	}
}

func TestHandleToggleHidesTile(t *testing.T) {
	api, store := newTestHandlers()
	body, _ := json.Marshal(map[string]string{"tile_id": "roas"})
	req := httptest.NewRequest(http.MethodPost, "/kpi/marketing.campaigns/toggle?user_id=u1", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	api.HandleToggle(rec, req, "marketing.campaigns")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	tiles := decodeTiles(t, rec)
	for _, id := range tiles.Visible {
		if id == "roas" {
			t.Fatalf("expected roas hidden, got %v", tiles.Visible)
		}
	}
	raw, ok, _ := store.Get("user:u1/kpi.visible:marketing.campaigns")
	if !ok || raw != `["spend","revenue","conversions","cpa","ctr"]` {
		t.Fatalf("unexpected stored visibility %q", raw)
	}
}

func TestHandleReorderRejectsHiddenTile(t *testing.T) {
	api, _ := newTestHandlers()
	req := httptest.NewRequest(http.MethodPost, "/kpi/marketing.coupons/select-none", nil)
	req.Header.Set("X-User-ID", "u1")
	api.HandleSelectNone(httptest.NewRecorder(), req, "marketing.coupons")

	body, _ := json.Marshal(map[string]string{"source": "issued", "target": "redeemed"})
	req = httptest.NewRequest(http.MethodPost, "/kpi/marketing.coupons/reorder", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	api.HandleReorder(rec, req, "marketing.coupons")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSelectAllAndNone(t *testing.T) {
	api, _ := newTestHandlers()
	req := httptest.NewRequest(http.MethodPost, "/kpi/marketing.journeys/select-none", nil)
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	api.HandleSelectNone(rec, req, "marketing.journeys")
	if tiles := decodeTiles(t, rec); len(tiles.Visible) != 0 {
		t.Fatalf("expected no visible tiles, got %v", tiles.Visible)
	}

	req = httptest.NewRequest(http.MethodPost, "/kpi/marketing.journeys/select-all", nil)
	req.Header.Set("X-User-ID", "u1")
	rec = httptest.NewRecorder()
	api.HandleSelectAll(rec, req, "marketing.journeys")
	if tiles := decodeTiles(t, rec); !tiles.AllVisible {
		t.Fatalf("expected every tile visible, got %v", tiles.Visible)
	}
}

func TestHandleUnknownReport(t *testing.T) {
	api, _ := newTestHandlers()
	req := httptest.NewRequest(http.MethodGet, "/kpi/nope", nil)
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	api.HandleTiles(rec, req, "nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleMissingViewer(t *testing.T) {
	api, _ := newTestHandlers()
	rec := httptest.NewRecorder()
	api.HandleTiles(rec, httptest.NewRequest(http.MethodGet, "/kpi/marketing.campaigns", nil), "marketing.campaigns")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleToggleBadBody(t *testing.T) {
	api, _ := newTestHandlers()
	req := httptest.NewRequest(http.MethodPost, "/kpi/marketing.campaigns/toggle", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	api.HandleToggle(rec, req, "marketing.campaigns")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

type originHook struct {
	origins []string
}

func (h *originHook) PreferencesChanged(_ context.Context, event kpi.PreferenceEvent) error {
	h.origins = append(h.origins, event.Origin)
	return nil
}

func TestHandlersTagChangesWithClientOrigin(t *testing.T) {
	hook := &originHook{}
	service := kpi.NewService(kpi.Options{Store: kvstore.NewMemory(), ChangeHook: hook})
	api := &Handlers{API: NewCommandExecutor(service, nil)}

	body, _ := json.Marshal(map[string]string{"tile_id": "roas"})
	req := httptest.NewRequest(http.MethodPost, "/kpi/marketing.campaigns/toggle", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set(OriginHeader, "tab-7")
	api.HandleToggle(httptest.NewRecorder(), req, "marketing.campaigns")

	req = httptest.NewRequest(http.MethodPost, "/kpi/marketing.campaigns/select-all?user_id=u1&origin=tab-8", nil)
	api.HandleSelectAll(httptest.NewRecorder(), req, "marketing.campaigns")

	if len(hook.origins) != 2 || hook.origins[0] != "tab-7" || hook.origins[1] != "tab-8" {
		t.Fatalf("expected origins [tab-7 tab-8], got %v", hook.origins)
	}
}

func TestRequestOriginPrefersHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/kpi/r?origin=query", nil)
	if got := RequestOrigin(req); got != "query" {
		t.Fatalf("expected query origin, got %q", got)
	}
	req.Header.Set(OriginHeader, " header ")
	if got := RequestOrigin(req); got != "header" {
		t.Fatalf("expected header origin, got %q", got)
	}
}

func TestPickOrigin(t *testing.T) {
	cases := []struct{ header, query, want string }{
		{"tab-1", "tab-2", "tab-1"},
		{"  ", " tab-2 ", "tab-2"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := PickOrigin(tc.header, tc.query); got != tc.want {
			t.Fatalf("PickOrigin(%q, %q) = %q, want %q", tc.header, tc.query, got, tc.want)
		}
	}
}

func TestCommandExecutorUsesStubs(t *testing.T) {
	toggle := &stubCommander[commands.ToggleTileInput]{err: errors.New("boom")}
	exec := &CommandExecutor{ToggleCmd: toggle}
	err := exec.Toggle(context.Background(), commands.ToggleTileInput{TileID: "spend"})
	if err == nil || toggle.last.TileID != "spend" {
		t.Fatalf("expected stub error and propagated input, got %v", err)
	}
	if err := exec.SelectAll(context.Background(), commands.SelectTilesInput{}); !errors.Is(err, errNotConfigured) {
		t.Fatalf("expected errNotConfigured, got %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("%w: x", kpi.ErrUnknownReport), http.StatusNotFound},
		{kpi.ErrRejectedReorder, http.StatusBadRequest},
		{errors.New("disk"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}
