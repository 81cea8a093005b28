package main

import (
	"context"

	"github.com/alecthomas/kong"
)

type cli struct {
	Globals

	Serve      serveCmd      `cmd:"" help:"Serve the tile preference API, panel and change stream."`
	Show       showCmd       `cmd:"" help:"Print the resolved tiles of a report for a user."`
	Toggle     toggleCmd     `cmd:"" help:"Toggle the visibility of one tile."`
	Reorder    reorderCmd    `cmd:"" help:"Move a visible tile into another visible tile's slot."`
	SelectAll  selectAllCmd  `cmd:"" name:"select-all" help:"Show every tile of a report."`
	SelectNone selectNoneCmd `cmd:"" name:"select-none" help:"Hide every tile of a report."`
	Scaffold   scaffoldCmd   `cmd:"" help:"Add a tile to a catalog manifest."`
}

// Globals are shared by every subcommand.
type Globals struct {
	Config   string `short:"c" type:"path" help:"Path to the kpictl YAML configuration."`
	Verbose  bool   `short:"v" help:"Enable debug logging."`
	Backend  string `help:"Override storage.backend (memory, file, sqlite)."`
	Store    string `type:"path" help:"Override storage.path."`
	Manifest string `type:"path" help:"Override catalogs.manifest."`
}

func main() {
	var app cli
	runCtx := context.Background()
	ctx := kong.Parse(&app,
		kong.Name("kpictl"),
		kong.Description("KPI tile preference tooling: inspect, edit and serve per-user tile selections."),
		kong.UsageOnError(),
		kong.Bind(&app.Globals),
		kong.BindTo(runCtx, (*context.Context)(nil)),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
