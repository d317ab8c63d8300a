// Package config holds the export settings read from a settings file and the
// command line.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/exporter"
)

// Defaults of unset fields.
const (
	DefaultCompression     = "lzma"
	DefaultAutoSmoothAngle = 30
	DefaultScript          = "-1"
	DefaultUnitScale       = 1
	DefaultOutputDir       = "."
)

// Config holds all export settings. Toggles are pointers so that an
// explicit false in a file is kept while a missing entry defaults to true.
type Config struct {
	Compression     string   `yaml:"compression" json:"compression"`
	AutoSmoothAngle *float32 `yaml:"auto_smooth_angle" json:"auto_smooth_angle"`
	Script          string   `yaml:"script" json:"script"`
	UnitScale       float32  `yaml:"unit_scale" json:"unit_scale"`

	ExportModels          *bool `yaml:"export_models" json:"export_models"`
	ExportMaterialsFile   *bool `yaml:"export_materials_file" json:"export_materials_file"`
	ExportMaterialSets    *bool `yaml:"export_material_sets" json:"export_material_sets"`
	ExportUnusedMaterials *bool `yaml:"export_unused_materials" json:"export_unused_materials"`
	ExportParentDat       *bool `yaml:"export_parent_dat" json:"export_parent_dat"`
	ExportHotspots        *bool `yaml:"export_hotspots" json:"export_hotspots"`
	ExportBoundingBoxes   *bool `yaml:"export_bounding_boxes" json:"export_bounding_boxes"`

	DoNotJoinMaterials bool `yaml:"do_not_join_materials" json:"do_not_join_materials"`

	OutputDir  string `yaml:"output_dir" json:"output_dir"`
	Prefix     string `yaml:"prefix" json:"prefix"`
	CatalogDir string `yaml:"catalog_dir" json:"catalog_dir"`
	Debug      bool   `yaml:"debug" json:"debug"`
}

// Load reads a YAML or JSON settings file. Fields not set in the file keep
// their zero values until Resolve.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %q", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config %q", path)
	}

	return cfg, nil
}

// Flags holds command line values that override the settings file.
type Flags struct {
	Compression string
	Script      string
	OutputDir   string
	Prefix      string
	CatalogDir  string
	Debug       bool
}

// Resolve applies flags and fills every unset field with its default.
func (c *Config) Resolve(flags Flags) error {
	if flags.Compression != "" {
		c.Compression = flags.Compression
	}
	if flags.Script != "" {
		c.Script = flags.Script
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Prefix != "" {
		c.Prefix = flags.Prefix
	}
	if flags.CatalogDir != "" {
		c.CatalogDir = flags.CatalogDir
	}
	if flags.Debug {
		c.Debug = true
	}

	if c.Compression == "" {
		c.Compression = DefaultCompression
	}
	if _, ok := bml.ParseCompression(c.Compression); !ok {
		return errors.Errorf("unknown compression %q", c.Compression)
	}

	if c.AutoSmoothAngle == nil {
		angle := float32(DefaultAutoSmoothAngle)
		c.AutoSmoothAngle = &angle
	}
	if c.Script == "" {
		c.Script = DefaultScript
	}
	if c.UnitScale <= 0 {
		c.UnitScale = DefaultUnitScale
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	for _, toggle := range []**bool{
		&c.ExportModels,
		&c.ExportMaterialsFile,
		&c.ExportMaterialSets,
		&c.ExportUnusedMaterials,
		&c.ExportParentDat,
		&c.ExportHotspots,
		&c.ExportBoundingBoxes,
	} {
		if *toggle == nil {
			enabled := true
			*toggle = &enabled
		}
	}

	return nil
}

// Options converts a resolved Config into exporter options.
func (c *Config) Options() exporter.Options {
	compression, _ := bml.ParseCompression(c.Compression)

	return exporter.Options{
		Compression:           compression,
		AutoSmoothAngle:       *c.AutoSmoothAngle,
		Script:                c.Script,
		UnitScale:             c.UnitScale,
		Prefix:                c.Prefix,
		ExportModels:          *c.ExportModels,
		ExportMaterialsFile:   *c.ExportMaterialsFile,
		ExportMaterialSets:    *c.ExportMaterialSets,
		ExportUnusedMaterials: *c.ExportUnusedMaterials,
		ExportParentDat:       *c.ExportParentDat,
		ExportHotspots:        *c.ExportHotspots,
		ExportBoundingBoxes:   *c.ExportBoundingBoxes,
		DoNotJoinMaterials:    c.DoNotJoinMaterials,
	}
}
