package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-kpitiles/components/kpi"
	"github.com/goliatone/go-kpitiles/components/kpi/commands"
	"github.com/goliatone/go-kpitiles/components/kpi/queries"
)

const (
	// OriginHeader carries the id of the client instance issuing a request.
	OriginHeader = "X-KPI-Origin"
	// OriginQuery is the query parameter fallback for OriginHeader.
	OriginQuery = "origin"
)

// ViewerFunc extracts the viewer from a request.
type ViewerFunc func(*http.Request) kpi.ViewerContext

// Handlers exposes net/http endpoints backed by an Executor. Every mutation
// answers with the resulting tile state.
type Handlers struct {
	API    Executor
	Viewer ViewerFunc
}

type tilePayload struct {
	TileID string `json:"tile_id"`
}

type reorderPayload struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (h *Handlers) HandleTiles(w http.ResponseWriter, r *http.Request, reportKey string) {
	input := queries.ReportInput{Viewer: h.viewer(r), ReportKey: reportKey}
	tiles, err := h.API.Tiles(requestContext(r), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tiles)
}

func (h *Handlers) HandleToggle(w http.ResponseWriter, r *http.Request, reportKey string) {
	var payload tilePayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	viewer := h.viewer(r)
	err := h.API.Toggle(requestContext(r), commands.ToggleTileInput{Viewer: viewer, ReportKey: reportKey, TileID: payload.TileID})
	h.respond(w, r, viewer, reportKey, err)
}

func (h *Handlers) HandleReorder(w http.ResponseWriter, r *http.Request, reportKey string) {
	var payload reorderPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	viewer := h.viewer(r)
	err := h.API.Reorder(requestContext(r), commands.ReorderTilesInput{
		Viewer:    viewer,
		ReportKey: reportKey,
		Source:    payload.Source,
		Target:    payload.Target,
	})
	h.respond(w, r, viewer, reportKey, err)
}

func (h *Handlers) HandleSelectAll(w http.ResponseWriter, r *http.Request, reportKey string) {
	viewer := h.viewer(r)
	err := h.API.SelectAll(requestContext(r), commands.SelectTilesInput{Viewer: viewer, ReportKey: reportKey})
	h.respond(w, r, viewer, reportKey, err)
}

func (h *Handlers) HandleSelectNone(w http.ResponseWriter, r *http.Request, reportKey string) {
	viewer := h.viewer(r)
	err := h.API.SelectNone(requestContext(r), commands.SelectTilesInput{Viewer: viewer, ReportKey: reportKey})
	h.respond(w, r, viewer, reportKey, err)
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, viewer kpi.ViewerContext, reportKey string, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	tiles, err := h.API.Tiles(requestContext(r), queries.ReportInput{Viewer: viewer, ReportKey: reportKey})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tiles)
}

func (h *Handlers) viewer(r *http.Request) kpi.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return HeaderViewer(r)
}

// HeaderViewer reads the viewer from X-User-ID, falling back to the user_id
// query parameter.
func HeaderViewer(r *http.Request) kpi.ViewerContext {
	viewer := kpi.ViewerContext{UserID: strings.TrimSpace(r.Header.Get("X-User-ID"))}
	if viewer.UserID == "" {
		viewer.UserID = strings.TrimSpace(r.URL.Query().Get("user_id"))
	}
	if roles := r.Header.Get("X-User-Roles"); roles != "" {
		for _, role := range strings.Split(roles, ",") {
			if role = strings.TrimSpace(role); role != "" {
				viewer.Roles = append(viewer.Roles, role)
			}
		}
	}
	return viewer
}

// RequestOrigin reads the client origin from OriginHeader, falling back to
// the OriginQuery parameter.
func RequestOrigin(r *http.Request) string {
	return PickOrigin(r.Header.Get(OriginHeader), r.URL.Query().Get(OriginQuery))
}

// PickOrigin returns the trimmed header value, or the query value when the
// header is blank.
func PickOrigin(header, query string) string {
	if origin := strings.TrimSpace(header); origin != "" {
		return origin
	}
	return strings.TrimSpace(query)
}

func requestContext(r *http.Request) context.Context {
	return kpi.ContextWithOrigin(r.Context(), RequestOrigin(r))
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, kpi.ErrUnknownReport):
		return http.StatusNotFound
	case kpi.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
