package exporter

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// MaterialsFile is the name of the material definition file.
const MaterialsFile = "Materials.mtl"

type materialsDocument struct {
	Materials []scene.Material `json:"Materials,omitempty"`
}

// materialsFor returns the definitions of the used materials in order.
// Materials missing from the library get a default definition; unused
// library materials follow when includeUnused is set.
func materialsFor(used []string, library []scene.Material, includeUnused bool) []scene.Material {
	byName := make(map[string]scene.Material, len(library))
	for _, m := range library {
		byName[m.Name] = m
	}

	out := make([]scene.Material, 0, len(used))

	for _, name := range used {
		m, ok := byName[name]
		if !ok {
			m = scene.DefaultMaterialFor(name)
		}

		delete(byName, name)
		out = append(out, m)
	}

	if includeUnused {
		for _, m := range library {
			if _, ok := byName[m.Name]; ok {
				out = append(out, m)
			}
		}
	}

	return out
}

// MarshalMaterials encodes materials as a Materials.mtl document.
func MarshalMaterials(materials []scene.Material) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(materialsDocument{Materials: materials}); err != nil {
		return nil, errors.Wrap(err, "failed to encode materials")
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MaterialSetsFile returns the content of the .mti file of a LOD using
// materials: for every set in order one alternative per model material. It
// returns nil if fewer than two sets are defined.
func MaterialSetsFile(materials []string, sets []scene.MaterialSet) ([]byte, error) {
	if len(sets) < 2 {
		return nil, nil
	}

	var sb strings.Builder

	for i := range sets {
		for _, m := range materials {
			alt, ok := sets[i].Alternative(m)
			if !ok {
				return nil, errors.Errorf("material set %q has no alternative for material %q", sets[i].Name, m)
			}

			sb.WriteString(alt + "\n")
		}
	}

	return []byte(sb.String()), nil
}
