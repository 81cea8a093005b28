package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-kpitiles/components/kpi"
)

type scaffoldCmd struct {
	Report       string `required:"" help:"Report key the tile belongs to (e.g. marketing.campaigns)."`
	ReportName   string `name:"report-name" help:"Display name recorded when the report is new."`
	Tile         string `required:"" help:"Tile id; normalized to snake_case."`
	Label        string `help:"Tile label (defaults to the id in title case)."`
	Helper       string `help:"Optional helper text shown under the tile label."`
	ManifestPath string `required:"" name:"file" short:"f" type:"path" help:"Catalog manifest YAML to update."`
	Overwrite    bool   `help:"Replace an existing tile with the same id."`
}

func (cmd *scaffoldCmd) Run() error {
	tile, err := cmd.tile()
	if err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("kpictl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if err := addTile(doc, cmd.Report, cmd.ReportName, tile, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s in %s\n", tile.ID, cmd.Report, manifestPath)
	return nil
}

func (cmd *scaffoldCmd) tile() (kpi.Tile, error) {
	if !strings.Contains(cmd.Report, ".") {
		return kpi.Tile{}, fmt.Errorf("kpictl: report key %s must contain at least one '.' segment", cmd.Report)
	}
	id := strcase.ToSnake(strings.TrimSpace(cmd.Tile))
	if id == "" {
		return kpi.Tile{}, errors.New("kpictl: tile id is required")
	}
	label := strings.TrimSpace(cmd.Label)
	if label == "" {
		label = deriveLabel(id)
	}
	return kpi.Tile{ID: id, Label: label, Helper: strings.TrimSpace(cmd.Helper)}, nil
}

// addTile appends tile to the report's catalog, creating the report when
// needed. New tiles go last so existing users see them appended.
func addTile(doc *kpi.CatalogManifest, reportKey, reportName string, tile kpi.Tile, overwrite bool) error {
	for idx := range doc.Reports {
		report := &doc.Reports[idx]
		if report.ReportKey != reportKey {
			continue
		}
		for i, existing := range report.Tiles {
			if existing.ID != tile.ID {
				continue
			}
			if !overwrite {
				return fmt.Errorf("kpictl: report %s already defines tile %s (use --overwrite to replace)", reportKey, tile.ID)
			}
			report.Tiles[i] = tile
			return nil
		}
		report.Tiles = append(report.Tiles, tile)
		return nil
	}
	if reportName == "" {
		reportName = deriveLabel(reportKey[strings.LastIndex(reportKey, ".")+1:])
	}
	doc.Reports = append(doc.Reports, kpi.Catalog{ReportKey: reportKey, Name: reportName, Tiles: []kpi.Tile{tile}})
	return nil
}

func loadOrInitManifest(path string) (*kpi.CatalogManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &kpi.CatalogManifest{Version: kpi.ManifestVersion, Source: path}, nil
		}
		return nil, fmt.Errorf("kpictl: stat manifest: %w", err)
	}
	return kpi.ReadManifest(path)
}

func writeManifest(path string, doc *kpi.CatalogManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("kpictl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("kpictl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return kpi.WriteManifest(file, doc)
}

func deriveLabel(id string) string {
	words := strings.Fields(strings.ReplaceAll(strcase.ToSnake(id), "_", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
