package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/exporter"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
compression: lz4
auto_smooth_angle: 45
script: Gear
unit_scale: 0.01
export_hotspots: false
do_not_join_materials: true
prefix: f16
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lz4", cfg.Compression)
	require.NotNil(t, cfg.AutoSmoothAngle)
	assert.Equal(t, float32(45), *cfg.AutoSmoothAngle)
	assert.Equal(t, "Gear", cfg.Script)
	assert.Equal(t, float32(0.01), cfg.UnitScale)
	require.NotNil(t, cfg.ExportHotspots)
	assert.False(t, *cfg.ExportHotspots)
	assert.Nil(t, cfg.ExportModels)
	assert.True(t, cfg.DoNotJoinMaterials)
	assert.Equal(t, "f16", cfg.Prefix)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "compression: [lzma"))
	assert.Error(t, err)
}

func TestResolve_Defaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	require.NoError(t, cfg.Resolve(Flags{}))

	assert.Equal(t, exporter.DefaultOptions(), cfg.Options())
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestResolve_Flags(t *testing.T) {
	t.Parallel()

	disabled := false
	cfg := Config{
		Compression:     "lzma",
		Prefix:          "file",
		ExportParentDat: &disabled,
	}

	require.NoError(t, cfg.Resolve(Flags{Compression: "none", Prefix: "flag", Script: "7", OutputDir: "out", Debug: true}))

	opts := cfg.Options()
	assert.Equal(t, bml.CompressionNone, opts.Compression)
	assert.Equal(t, "flag", opts.Prefix)
	assert.Equal(t, "7", opts.Script)
	assert.False(t, opts.ExportParentDat)
	assert.True(t, opts.ExportModels)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.Debug)
}

func TestResolve_UnknownCompression(t *testing.T) {
	t.Parallel()

	cfg := Config{Compression: "zip"}
	assert.EqualError(t, cfg.Resolve(Flags{}), `unknown compression "zip"`)
}
