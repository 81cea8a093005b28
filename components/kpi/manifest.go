package kpi

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current catalog manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// CatalogManifest models a YAML/JSON document describing report tile catalogs.
type CatalogManifest struct {
	Version string    `json:"version" yaml:"version"`
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
	Reports []Catalog `json:"reports" yaml:"reports"`
	Source  string    `json:"-" yaml:"-"`
}

// ReadManifest loads a catalog manifest from disk without registering it.
func ReadManifest(path string) (*CatalogManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("kpi: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("kpi: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a catalog manifest from any reader.
func DecodeManifest(r io.Reader) (*CatalogManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc CatalogManifest
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("kpi: manifest is empty")
		}
		return nil, fmt.Errorf("kpi: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// WriteManifest encodes the manifest as YAML.
func WriteManifest(w io.Writer, doc *CatalogManifest) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("kpi: write manifest: %w", err)
	}
	return encoder.Close()
}

// Validate ensures report keys and tile ids are present and unique.
func (doc *CatalogManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("kpi: unsupported manifest version %q", doc.Version)
	}
	reports := make(map[string]struct{}, len(doc.Reports))
	for idx, report := range doc.Reports {
		if strings.TrimSpace(report.ReportKey) == "" {
			return fmt.Errorf("kpi: manifest report at index %d is missing key", idx)
		}
		if _, exists := reports[report.ReportKey]; exists {
			return fmt.Errorf("kpi: manifest duplicates report key %s", report.ReportKey)
		}
		reports[report.ReportKey] = struct{}{}
		if err := report.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate ensures every tile has an id and a label and ids are unique.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Tiles))
	for idx, tile := range c.Tiles {
		if strings.TrimSpace(tile.ID) == "" {
			return fmt.Errorf("kpi: report %s tile at index %d is missing id", c.ReportKey, idx)
		}
		if strings.TrimSpace(tile.Label) == "" {
			return fmt.Errorf("kpi: report %s tile %s missing label", c.ReportKey, tile.ID)
		}
		if _, exists := seen[tile.ID]; exists {
			return fmt.Errorf("kpi: report %s duplicates tile id %s", c.ReportKey, tile.ID)
		}
		seen[tile.ID] = struct{}{}
	}
	return nil
}

func (doc *CatalogManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
