package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-kpitiles/components/kpi"
	"github.com/goliatone/go-kpitiles/components/kpi/commands"
	"github.com/goliatone/go-kpitiles/components/kpi/httpapi"
	"github.com/goliatone/go-kpitiles/components/kpi/queries"
	"github.com/goliatone/go-kpitiles/pkg/telemetry"
)

// ReportArgs names the report and viewer a preference command operates on.
type ReportArgs struct {
	User   string `required:"" help:"User id whose preferences are read or written."`
	Report string `arg:"" help:"Report key (e.g. marketing.campaigns)."`
	JSON   bool   `help:"Print the result as JSON."`
}

func (t ReportArgs) viewer() kpi.ViewerContext {
	return kpi.ViewerContext{UserID: strings.TrimSpace(t.User)}
}

type showCmd struct {
	ReportArgs
	Panel bool `help:"Print the customize panel rows instead of the visible tiles."`
}

type toggleCmd struct {
	ReportArgs
	Tile string `arg:"" help:"Tile id to toggle."`
}

type reorderCmd struct {
	ReportArgs
	Source string `arg:"" help:"Tile id to move."`
	Target string `arg:"" help:"Tile id whose slot the source takes."`
}

type selectAllCmd struct {
	ReportArgs
}

type selectNoneCmd struct {
	ReportArgs
}

func (cmd *showCmd) Run(ctx context.Context, g *Globals) error {
	return withExecutor(g, func(api httpapi.Executor) error {
		input := queries.ReportInput{Viewer: cmd.viewer(), ReportKey: cmd.Report}
		if cmd.Panel {
			view, err := api.Panel(ctx, input)
			if err != nil {
				return err
			}
			return printPanel(os.Stdout, view, cmd.JSON)
		}
		return printTiles(ctx, os.Stdout, api, cmd.ReportArgs)
	})
}

func (cmd *toggleCmd) Run(ctx context.Context, g *Globals) error {
	return withExecutor(g, func(api httpapi.Executor) error {
		input := commands.ToggleTileInput{Viewer: cmd.viewer(), ReportKey: cmd.Report, TileID: cmd.Tile}
		if err := api.Toggle(ctx, input); err != nil {
			return err
		}
		return printTiles(ctx, os.Stdout, api, cmd.ReportArgs)
	})
}

func (cmd *reorderCmd) Run(ctx context.Context, g *Globals) error {
	return withExecutor(g, func(api httpapi.Executor) error {
		input := commands.ReorderTilesInput{
			Viewer:    cmd.viewer(),
			ReportKey: cmd.Report,
			Source:    cmd.Source,
			Target:    cmd.Target,
		}
		if err := api.Reorder(ctx, input); err != nil {
			return err
		}
		return printTiles(ctx, os.Stdout, api, cmd.ReportArgs)
	})
}

func (cmd *selectAllCmd) Run(ctx context.Context, g *Globals) error {
	return withExecutor(g, func(api httpapi.Executor) error {
		if err := api.SelectAll(ctx, commands.SelectTilesInput{Viewer: cmd.viewer(), ReportKey: cmd.Report}); err != nil {
			return err
		}
		return printTiles(ctx, os.Stdout, api, cmd.ReportArgs)
	})
}

func (cmd *selectNoneCmd) Run(ctx context.Context, g *Globals) error {
	return withExecutor(g, func(api httpapi.Executor) error {
		if err := api.SelectNone(ctx, commands.SelectTilesInput{Viewer: cmd.viewer(), ReportKey: cmd.Report}); err != nil {
			return err
		}
		return printTiles(ctx, os.Stdout, api, cmd.ReportArgs)
	})
}

func withExecutor(g *Globals, fn func(httpapi.Executor) error) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	defer e.close()
	rec := telemetry.NewLogger(e.logger)
	service := e.service(kpi.Options{Telemetry: rec})
	return fn(httpapi.NewCommandExecutor(service, rec))
}

func printTiles(ctx context.Context, out io.Writer, api httpapi.Executor, t ReportArgs) error {
	tiles, err := api.Tiles(ctx, queries.ReportInput{Viewer: t.viewer(), ReportKey: t.Report})
	if err != nil {
		return err
	}
	if t.JSON {
		return writeJSON(out, tiles)
	}
	title := tiles.Name
	if title == "" {
		title = tiles.ReportKey
	}
	fmt.Fprintf(out, "%s (%d of %d visible)\n", title, len(tiles.Visible), len(tiles.Order))
	for idx, tile := range tiles.Tiles {
		fmt.Fprintf(out, "  %d. %-18s %s\n", idx+1, tile.ID, tile.Label)
	}
	if len(tiles.Hidden) > 0 {
		fmt.Fprintf(out, "hidden: %s\n", strings.Join(tiles.Hidden, ", "))
	}
	return nil
}

func printPanel(out io.Writer, view kpi.PanelView, asJSON bool) error {
	if asJSON {
		return writeJSON(out, view)
	}
	for _, item := range view.Items {
		mark := "[ ]"
		if item.Selected {
			mark = "[x]"
		}
		handle := " "
		if item.Draggable {
			handle = "≡"
		}
		fmt.Fprintf(out, "%s %s %-18s %s\n", handle, mark, item.Tile.ID, item.Tile.Label)
	}
	return nil
}

func writeJSON(out io.Writer, payload any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
