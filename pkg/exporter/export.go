// Package exporter flattens scene collections into BML models and writes
// the files that accompany them.
package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/catalog"
	"github.com/saiko-tech/bml-exporter/pkg/logging"
	"github.com/saiko-tech/bml-exporter/pkg/rendercontrol"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// Exporter turns scenes into BML files. An Exporter holds no state between
// exports and may be reused.
type Exporter struct {
	opts Options
	cat  *catalog.Catalog
	log  logging.Logger
}

// New returns an Exporter. cat may be nil if the scenes reference DOFs and
// switches by number only.
func New(opts Options, cat *catalog.Catalog, log logging.Logger) *Exporter {
	if cat == nil {
		cat = catalog.Empty()
	}

	return &Exporter{opts: opts, cat: cat, log: logging.OrNop(log)}
}

// LOD is a flattened level of detail.
type LOD struct {
	Model    *bml.Model
	Hotspots []Hotspot
}

// ExportedLOD describes a written model.
type ExportedLOD struct {
	File  string
	Nodes int
}

// Summary describes a finished export.
type Summary struct {
	LODs []ExportedLOD
	// Materials are the materials of all LODs in first use order.
	Materials []string
	Hotspots  []Hotspot
	Elapsed   time.Duration
}

// session is the state shared by the LODs of one export.
type session struct {
	scene    *scene.Scene
	cat      *catalog.Catalog
	library  []scene.Material
	byName   map[string]scene.Material
	controls []rendercontrol.Instruction
	script   uint32
}

// begin copies and scales s and resolves everything that is the same for
// all LODs.
func (e *Exporter) begin(s *scene.Scene) (*session, error) {
	library, err := s.Materials()
	if err != nil {
		return nil, err
	}

	graph, err := s.DofTree()
	if err != nil {
		return nil, err
	}

	ss := &session{
		scene:   s.Clone(),
		cat:     e.cat.Merge(s.Catalog),
		library: library,
		byName:  make(map[string]scene.Material, len(library)),
	}

	ss.scene.Scale(e.opts.ScaleFactor())

	for _, m := range library {
		ss.byName[m.Name] = m
	}

	script, err := ss.cat.ScriptNumber(e.opts.Script)
	if err != nil {
		return nil, err
	}

	if script > 0 {
		ss.script = uint32(script)
	}

	ss.controls, err = rendercontrol.NewLinearizer(e.log).Linearize(graph)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build render controls")
	}

	return ss, nil
}

func (e *Exporter) build(ss *session, collection string) (*LOD, error) {
	c, err := ss.scene.Collection(collection)
	if err != nil {
		return nil, err
	}

	// joining modifies the objects, and a collection may be part of more
	// than one LOD
	roots := c.Roots()
	for i, o := range roots {
		roots[i] = o.Clone()
	}

	roots, err = e.prepare(roots)
	if err != nil {
		return nil, err
	}

	b := newBuilder(ss.cat, ss.byName, e.log)
	b.renderControls(ss.controls)

	if err := b.walk(roots); err != nil {
		return nil, err
	}

	return &LOD{Model: b.model(ss.script), Hotspots: b.hotspots}, nil
}

// Build flattens a single collection of s.
func (e *Exporter) Build(s *scene.Scene, collection string) (*LOD, error) {
	ss, err := e.begin(s)
	if err != nil {
		return nil, err
	}

	return e.build(ss, collection)
}

func (e *Exporter) modelFile(l scene.LOD) string {
	return e.opts.Prefix + strings.ReplaceAll(l.Suffix, " ", "_") + ".bml"
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %q", path)
	}

	return nil
}

// Export writes every LOD of s and the enabled companion files to dir.
// Without LODs the first collection is exported without a file suffix.
func (e *Exporter) Export(s *scene.Scene, dir string) (*Summary, error) {
	start := time.Now()

	e.log.Infof("starting BML export, unit scaling factor %g", e.opts.ScaleFactor())

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %q", dir)
	}

	ss, err := e.begin(s)
	if err != nil {
		return nil, err
	}

	lods := s.LODs
	if len(lods) == 0 {
		if len(s.Collections) == 0 {
			return nil, errors.New("no collections and no LODs, can not export")
		}

		lods = []scene.LOD{{Collection: s.Collections[0].Name}}
	}

	summary := &Summary{}
	used := make(map[string]bool)

	for _, l := range lods {
		e.log.Infof("exporting LOD %q", l.Collection)

		lod, err := e.build(ss, l.Collection)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to export LOD %q", l.Collection)
		}

		path := filepath.Join(dir, e.modelFile(l))

		if e.opts.ExportModels {
			data, err := lod.Model.Marshal(e.opts.Compression)
			if err != nil {
				return nil, err
			}

			if err := writeFile(path, data); err != nil {
				return nil, err
			}

			e.log.Infof("exported LOD with %d nodes to %q", len(lod.Model.Nodes), path)
		}

		if e.opts.ExportMaterialSets {
			mti, err := MaterialSetsFile(lod.Model.Materials, s.MaterialSets)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to export material sets of LOD %q", l.Collection)
			}

			if mti != nil {
				if err := writeFile(strings.TrimSuffix(path, ".bml")+".mti", mti); err != nil {
					return nil, err
				}
			} else {
				e.log.Debugf("no material sets in scene, skipping")
			}
		}

		summary.LODs = append(summary.LODs, ExportedLOD{File: path, Nodes: len(lod.Model.Nodes)})

		for _, m := range lod.Model.Materials {
			if !used[m] {
				used[m] = true
				summary.Materials = append(summary.Materials, m)
			}
		}

		if summary.Hotspots, err = mergeHotspots(summary.Hotspots, lod.Hotspots); err != nil {
			return nil, err
		}
	}

	if e.opts.ExportMaterialsFile {
		data, err := MarshalMaterials(materialsFor(summary.Materials, ss.library, e.opts.ExportUnusedMaterials))
		if err != nil {
			return nil, err
		}

		if err := writeFile(filepath.Join(dir, MaterialsFile), data); err != nil {
			return nil, err
		}
	}

	if e.opts.ExportParentDat {
		p, err := e.parentDat(ss, lods)
		if err != nil {
			return nil, err
		}

		if err := WriteParentDat(filepath.Join(dir, ParentDatFile), p); err != nil {
			return nil, err
		}
	}

	if e.opts.ExportHotspots {
		if err := UpdateButtons(filepath.Join(dir, ButtonsFile), summary.Hotspots); err != nil {
			return nil, err
		}
	}

	if boxes := boundingBoxes(ss.scene); e.opts.ExportBoundingBoxes && len(boxes) > 1 {
		if err := WriteBoundingBoxes(filepath.Join(dir, BoundingBoxesFile), boxes); err != nil {
			return nil, err
		}
	}

	summary.Elapsed = time.Since(start)
	e.log.Infof("BML export finished in %s", summary.Elapsed.Round(time.Millisecond))

	return summary, nil
}
