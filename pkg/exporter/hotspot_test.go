package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

func TestHotspot_String(t *testing.T) {
	t.Parallel()

	h := Hotspot{
		Callback:    "SimGearToggle",
		Position:    mgl32.Vec3{-1.5, 2.25, 3},
		Size:        4,
		SoundID:     1,
		MouseButton: scene.MouseLeft,
	}

	assert.Equal(t, "SimGearToggle                   -1.500000    2.250000    3.000000    4    1    1", h.String())

	h.ButtonType = scene.ButtonPush
	assert.Equal(t, "SimGearToggle                   -1.500000    2.250000    3.000000    4    1    1    p", h.String())

	h.ButtonType = scene.ButtonWheel
	assert.Equal(t, "SimGearToggle                   -1.500000    2.250000    3.000000    4    1    1    w", h.String())
}

func TestBuild_Hotspots(t *testing.T) {
	t.Parallel()

	first := object("Panel", scene.KindHotspot)
	first.Location = mgl32.Vec3{1, 2, 3}
	first.Hotspot = &scene.Hotspot{
		Size: 2,
		Callbacks: []scene.Callback{
			{Name: "SimGearToggle", SoundID: 1, MouseButton: scene.MouseLeft},
			{Name: "SimGearUp", MouseButton: scene.MouseRight, ButtonType: scene.ButtonPush},
		},
	}

	second := object("Other", scene.KindHotspot)
	second.Hotspot = &scene.Hotspot{Callbacks: []scene.Callback{{Name: "SimGearToggle"}}}

	lod := build(t, testOptions(), testScene(first, second))

	assert.Empty(t, lod.Model.Nodes)
	require.Len(t, lod.Hotspots, 2)

	h := lod.Hotspots[0]
	assert.Equal(t, "SimGearToggle", h.Callback)
	assert.Equal(t, 2, h.Size)
	assertVec3(t, mgl32.Vec3{-2 * feet, -feet, 3 * feet}, h.Position)

	assert.Equal(t, "SimGearUp", lod.Hotspots[1].Callback)
	assert.Equal(t, scene.ButtonPush, lod.Hotspots[1].ButtonType)
}

func TestMergeHotspots(t *testing.T) {
	t.Parallel()

	all, err := mergeHotspots(nil, []Hotspot{{Callback: "A"}, {Callback: "B"}})
	require.NoError(t, err)

	all, err = mergeHotspots(all, []Hotspot{{Callback: "C"}})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = mergeHotspots(all, []Hotspot{{Callback: "B"}})
	assert.ErrorIs(t, err, ErrDuplicateHotspot)
}

func TestUpdateButtons(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ButtonsFile)

	existing := "// cockpit buttons\n" +
		"\n" +
		"SimGearToggle 0 0 0 1 1 1\n" +
		"SimHookToggle 1 1 1 1 1 1"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	toggle := Hotspot{Callback: "SimGearToggle", Position: mgl32.Vec3{1, 2, 3}, Size: 4, SoundID: 1, MouseButton: 1}
	flaps := Hotspot{Callback: "SimFlapsUp", Size: 2, MouseButton: 2, ButtonType: scene.ButtonPush}

	require.NoError(t, UpdateButtons(path, []Hotspot{toggle, flaps}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "// cockpit buttons\n" +
		"\n" +
		toggle.String() + "\n" +
		"SimHookToggle 1 1 1 1 1 1\n" +
		flaps.String() + "\n"
	assert.Equal(t, expected, string(data))
}

func TestUpdateButtons_NewFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ButtonsFile)

	require.NoError(t, UpdateButtons(path, nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	h := Hotspot{Callback: "SimGearToggle"}
	require.NoError(t, UpdateButtons(path, []Hotspot{h}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, h.String()+"\n", string(data))
}
