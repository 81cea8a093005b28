package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-kpitiles/components/kpi"
	"github.com/goliatone/go-kpitiles/components/kpi/commands"
	"github.com/goliatone/go-kpitiles/components/kpi/httpapi"
	"github.com/goliatone/go-kpitiles/components/kpi/queries"
)

// ViewerResolver converts a router.Context into a kpi.ViewerContext.
type ViewerResolver func(router.Context) kpi.ViewerContext

// Config wires go-router with the kpi controller, API and broadcast hook.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *kpi.Controller
	API            httpapi.Executor
	Broadcast      *kpi.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for kpi endpoints.
type RouteConfig struct {
	Tiles      string
	Panel      string
	Toggle     string
	Reorder    string
	SelectAll  string
	SelectNone string
	WebSocket  string
}

// Register mounts the tile routes (JSON, HTML panel, mutations, WebSocket).
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil && cfg.API == nil {
		return errors.New("gorouter: controller or API is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.ViewerResolver
	if resolver == nil {
		resolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	// The socket route is static and must win over the :report pattern.
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	if cfg.Controller != nil {
		group.Get(routes.Panel, router.WrapHandler(func(ctx router.Context) error {
			var buf bytes.Buffer
			if err := cfg.Controller.RenderPanel(requestContext(ctx), resolver(ctx), ctx.Param("report"), &buf); err != nil {
				return respondError(ctx, err)
			}
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send(buf.Bytes())
		}))
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, resolver, routes)
	} else {
		group.Get(routes.Tiles, router.WrapHandler(func(ctx router.Context) error {
			payload, err := cfg.Controller.TilesPayload(requestContext(ctx), resolver(ctx), ctx.Param("report"))
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, payload)
		}))
	}
	return nil
}

type tilePayload struct {
	TileID string `json:"tile_id"`
}

type reorderPayload struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	respondTiles := func(ctx router.Context, viewer kpi.ViewerContext) error {
		tiles, err := api.Tiles(requestContext(ctx), queries.ReportInput{Viewer: viewer, ReportKey: ctx.Param("report")})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, tiles)
	}

	r.Get(routes.Tiles, router.WrapHandler(func(ctx router.Context) error {
		return respondTiles(ctx, resolver(ctx))
	}))

	r.Post(routes.Toggle, router.WrapHandler(func(ctx router.Context) error {
		var payload tilePayload
		if err := decodeBody(ctx, &payload); err != nil {
			return respondBadRequest(ctx, err)
		}
		viewer := resolver(ctx)
		input := commands.ToggleTileInput{Viewer: viewer, ReportKey: ctx.Param("report"), TileID: payload.TileID}
		if err := api.Toggle(requestContext(ctx), input); err != nil {
			return respondError(ctx, err)
		}
		return respondTiles(ctx, viewer)
	}))

	r.Post(routes.Reorder, router.WrapHandler(func(ctx router.Context) error {
		var payload reorderPayload
		if err := decodeBody(ctx, &payload); err != nil {
			return respondBadRequest(ctx, err)
		}
		viewer := resolver(ctx)
		input := commands.ReorderTilesInput{
			Viewer:    viewer,
			ReportKey: ctx.Param("report"),
			Source:    payload.Source,
			Target:    payload.Target,
		}
		if err := api.Reorder(requestContext(ctx), input); err != nil {
			return respondError(ctx, err)
		}
		return respondTiles(ctx, viewer)
	}))

	r.Post(routes.SelectAll, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if err := api.SelectAll(requestContext(ctx), commands.SelectTilesInput{Viewer: viewer, ReportKey: ctx.Param("report")}); err != nil {
			return respondError(ctx, err)
		}
		return respondTiles(ctx, viewer)
	}))

	r.Post(routes.SelectNone, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if err := api.SelectNone(requestContext(ctx), commands.SelectTilesInput{Viewer: viewer, ReportKey: ctx.Param("report")}); err != nil {
			return respondError(ctx, err)
		}
		return respondTiles(ctx, viewer)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *kpi.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func requestContext(ctx router.Context) context.Context {
	origin := httpapi.PickOrigin(ctx.Header(httpapi.OriginHeader), ctx.Query(httpapi.OriginQuery))
	return kpi.ContextWithOrigin(ctx.Context(), origin)
}

func defaultViewerResolver(ctx router.Context) kpi.ViewerContext {
	var viewer kpi.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if viewer.UserID == "" {
		viewer.UserID = strings.TrimSpace(ctx.Header("X-User-ID"))
	}
	if viewer.UserID == "" {
		viewer.UserID = strings.TrimSpace(ctx.Query("user_id"))
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	if locale, ok := ctx.Locals("locale").(string); ok {
		viewer.Locale = locale
	}
	return viewer
}

func decodeBody(ctx router.Context, target any) error {
	body := ctx.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, target)
}

func respondBadRequest(ctx router.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Tiles == "" {
		routes.Tiles = "/kpi/:report"
	}
	if routes.Panel == "" {
		routes.Panel = "/kpi/:report/panel"
	}
	if routes.Toggle == "" {
		routes.Toggle = "/kpi/:report/toggle"
	}
	if routes.Reorder == "" {
		routes.Reorder = "/kpi/:report/reorder"
	}
	if routes.SelectAll == "" {
		routes.SelectAll = "/kpi/:report/select-all"
	}
	if routes.SelectNone == "" {
		routes.SelectNone = "/kpi/:report/select-none"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/kpi/ws"
	}
	return routes
}
