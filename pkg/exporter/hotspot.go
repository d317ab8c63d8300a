package exporter

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/coords"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// ButtonsFile is the name of the cockpit hotspot file.
const ButtonsFile = "3dButtons.dat"

// Hotspot is a clickable cockpit location bound to one callback.
type Hotspot struct {
	Callback string
	// Position is in hotspot space.
	Position    mgl32.Vec3
	Size        int
	SoundID     int
	MouseButton int
	ButtonType  scene.ButtonType
}

// String formats h as a 3dButtons.dat line.
func (h Hotspot) String() string {
	line := fmt.Sprintf("%-29s%12.6f%12.6f%12.6f    %d    %d    %d",
		h.Callback, h.Position[0], h.Position[1], h.Position[2], h.Size, h.SoundID, h.MouseButton)

	if suffix := h.ButtonType.Suffix(); suffix != "" {
		line += "    " + suffix
	}

	return line
}

// hotspot records the callbacks of o. The first object binding a callback
// wins.
func (b *builder) hotspot(o *scene.Object) {
	if o.Hotspot == nil {
		return
	}

	position := coords.ToHotspot(o.World.Col(3).Vec3())

	for _, cb := range o.Hotspot.Callbacks {
		if b.seen[cb.Name] {
			b.log.Debugf("ignoring duplicate callback %q of %q", cb.Name, o.Name)

			continue
		}

		if len(b.cat.Callbacks) > 0 && !b.cat.HasCallback(cb.Name) {
			b.log.Warnf("callback %q of %q is unknown to the engine", cb.Name, o.Name)
		}

		b.seen[cb.Name] = true
		b.hotspots = append(b.hotspots, Hotspot{
			Callback:    cb.Name,
			Position:    position,
			Size:        o.Hotspot.Size,
			SoundID:     cb.SoundID,
			MouseButton: cb.MouseButton,
			ButtonType:  cb.ButtonType,
		})
	}
}

// mergeHotspots appends the hotspots of a LOD to all. A callback defined by
// two LODs is an error.
func mergeHotspots(all, lod []Hotspot) ([]Hotspot, error) {
	known := make(map[string]bool, len(all))
	for _, h := range all {
		known[h.Callback] = true
	}

	for _, h := range lod {
		if known[h.Callback] {
			return nil, errors.Wrapf(ErrDuplicateHotspot, "callback %q", h.Callback)
		}

		known[h.Callback] = true
		all = append(all, h)
	}

	return all, nil
}

// UpdateButtons writes hotspots to the 3dButtons.dat at path. Lines of an
// existing file whose callback is exported again are replaced in place,
// everything else is kept, and new callbacks are appended.
func UpdateButtons(path string, hotspots []Hotspot) error {
	if len(hotspots) == 0 {
		return nil
	}

	pending := make(map[string]Hotspot, len(hotspots))
	for _, h := range hotspots {
		pending[h.Callback] = h
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "failed to read %q", path)
	}

	var out strings.Builder

	for _, line := range strings.SplitAfter(string(existing), "\n") {
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "//") || len(strings.TrimSpace(line)) <= 1 {
			out.WriteString(line)

			continue
		}

		callback := strings.Fields(line)[0]

		h, ok := pending[callback]
		if !ok {
			out.WriteString(line)

			continue
		}

		delete(pending, callback)
		out.WriteString(h.String() + "\n")
	}

	if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
		out.WriteString("\n")
	}

	for _, h := range hotspots {
		if _, ok := pending[h.Callback]; ok {
			out.WriteString(h.String() + "\n")
		}
	}

	return writeFile(path, []byte(out.String()))
}
