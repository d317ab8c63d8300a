package scene

import (
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/catalog"
	"github.com/saiko-tech/bml-exporter/pkg/rendercontrol"
)

const defaultAutoSmoothAngle = 30

type fileScene struct {
	Collections   []fileCollection  `yaml:"collections"`
	LODs          []fileLOD         `yaml:"lods"`
	Materials     []Material        `yaml:"materials"`
	MaterialTrees [][]Material      `yaml:"material_trees"`
	MaterialSets  []fileMaterialSet `yaml:"material_sets"`
	DofTree       *fileGraph        `yaml:"dof_tree"`
	DofTrees      []fileGraph       `yaml:"dof_trees"`
	Catalog       *catalog.Catalog  `yaml:"catalog"`
}

type fileCollection struct {
	Name     string           `yaml:"name"`
	Objects  []fileObject     `yaml:"objects"`
	Children []fileCollection `yaml:"children"`
}

type fileLOD struct {
	Collection string  `yaml:"collection"`
	Suffix     string  `yaml:"suffix"`
	Distance   float32 `yaml:"distance"`
}

type fileMaterialSet struct {
	Name         string `yaml:"name"`
	Alternatives []struct {
		Base        string `yaml:"base"`
		Alternative string `yaml:"alternative"`
	} `yaml:"alternatives"`
}

type fileGraph struct {
	Nodes []struct {
		Name     string    `yaml:"name"`
		Op       string    `yaml:"op"`
		Dof      *int      `yaml:"dof"`
		Defaults []float32 `yaml:"defaults"`
	} `yaml:"nodes"`
	Links []struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
		Port int    `yaml:"port"`
	} `yaml:"links"`
}

type fileObject struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	Location []float32 `yaml:"location"`
	// Rotation is an XYZ euler triple in degrees.
	Rotation      []float32 `yaml:"rotation"`
	Scale         []float32 `yaml:"scale"`
	ParentInverse []float32 `yaml:"parent_inverse"`

	Materials  []string `yaml:"materials"`
	DoNotMerge bool     `yaml:"do_not_merge"`

	Mesh *struct {
		Vertices [][]float32 `yaml:"vertices"`
		Faces    []struct {
			Indices []int       `yaml:"indices"`
			UVs     [][]float32 `yaml:"uvs"`
			Smooth  *bool       `yaml:"smooth"`
		} `yaml:"faces"`
		Smooth          bool     `yaml:"smooth"`
		AutoSmooth      bool     `yaml:"auto_smooth"`
		AutoSmoothAngle *float32 `yaml:"auto_smooth_angle"`
	} `yaml:"mesh"`

	Light *struct {
		Color       []float32 `yaml:"color"`
		Directional bool      `yaml:"directional"`
	} `yaml:"light"`

	Slot *struct {
		Number int `yaml:"number"`
	} `yaml:"slot"`

	Switch *struct {
		Name      string `yaml:"name"`
		Number    int    `yaml:"number"`
		Branch    int    `yaml:"branch"`
		DefaultOn bool   `yaml:"default_on"`
	} `yaml:"switch"`

	Dof *struct {
		Name           string    `yaml:"name"`
		Number         int       `yaml:"number"`
		Type           string    `yaml:"type"`
		Min            float32   `yaml:"min"`
		Max            float32   `yaml:"max"`
		MinInput       float32   `yaml:"min_input"`
		MaxInput       float32   `yaml:"max_input"`
		Multiplier     *float32  `yaml:"multiplier"`
		Vector         []float32 `yaml:"vector"`
		CheckLimits    bool      `yaml:"check_limits"`
		Reverse        bool      `yaml:"reverse"`
		Normalize      bool      `yaml:"normalize"`
		MultiplyMinMax bool      `yaml:"multiply_min_max"`
	} `yaml:"dof"`

	Hotspot *struct {
		Size      int `yaml:"size"`
		Callbacks []struct {
			Name        string `yaml:"name"`
			SoundID     int    `yaml:"sound_id"`
			MouseButton int    `yaml:"mouse_button"`
			ButtonType  string `yaml:"button_type"`
		} `yaml:"callbacks"`
	} `yaml:"hotspot"`

	Children []fileObject `yaml:"children"`
}

// Load reads a scene description from a YAML or JSON file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scene file %q", path)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse scene file %q", path)
	}

	return s, nil
}

// Parse decodes a scene description. Objects without an id get a random one.
func Parse(data []byte) (*Scene, error) {
	var f fileScene

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to decode scene")
	}

	s := &Scene{Catalog: f.Catalog}

	for _, fc := range f.Collections {
		c, err := fc.build()
		if err != nil {
			return nil, err
		}

		s.Collections = append(s.Collections, c)
	}

	for _, l := range f.LODs {
		s.LODs = append(s.LODs, LOD{Collection: l.Collection, Suffix: l.Suffix, Distance: l.Distance})
	}

	if len(f.Materials) > 0 {
		s.MaterialTrees = append(s.MaterialTrees, f.Materials)
	}

	s.MaterialTrees = append(s.MaterialTrees, f.MaterialTrees...)

	for _, fs := range f.MaterialSets {
		set := MaterialSet{Name: fs.Name}
		for _, a := range fs.Alternatives {
			set.Alternatives = append(set.Alternatives, MaterialAlternative{Base: a.Base, Alternative: a.Alternative})
		}

		s.MaterialSets = append(s.MaterialSets, set)
	}

	graphs := f.DofTrees
	if f.DofTree != nil {
		graphs = append([]fileGraph{*f.DofTree}, graphs...)
	}

	for i := range graphs {
		g, err := graphs[i].build()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid dof tree %d", i)
		}

		s.DofTrees = append(s.DofTrees, g)
	}

	return s, nil
}

func (fc *fileCollection) build() (*Collection, error) {
	c := &Collection{Name: fc.Name}

	for i := range fc.Objects {
		o, err := fc.Objects[i].build(nil)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid object in collection %q", fc.Name)
		}

		c.Objects = append(c.Objects, o)
	}

	for i := range fc.Children {
		child, err := fc.Children[i].build()
		if err != nil {
			return nil, err
		}

		c.Children = append(c.Children, child)
	}

	return c, nil
}

func (fg *fileGraph) build() (*rendercontrol.Graph, error) {
	g := &rendercontrol.Graph{}

	for _, n := range fg.Nodes {
		node := rendercontrol.Node{Name: n.Name, Kind: rendercontrol.DofReference, Dof: rendercontrol.Unbound}

		if n.Op != "" {
			op, ok := bml.ParseMathOp(n.Op)
			if !ok {
				return nil, errors.Errorf("node %q: unknown math operation %q", n.Name, n.Op)
			}

			node = rendercontrol.Node{Name: n.Name, Kind: rendercontrol.Operation, Op: op, Defaults: n.Defaults}
		} else if n.Dof != nil {
			node.Dof = *n.Dof
		}

		g.Nodes = append(g.Nodes, node)
	}

	for _, l := range fg.Links {
		g.Links = append(g.Links, rendercontrol.Link{From: l.From, To: l.To, Port: l.Port})
	}

	return g, nil
}

func (fo *fileObject) build(parent *Object) (*Object, error) {
	kind, err := ParseKind(fo.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "object %q", fo.Name)
	}

	o := NewObject(fo.Name, kind)
	o.ID = fo.ID
	o.Parent = parent
	o.Materials = fo.Materials
	o.DoNotMerge = fo.DoNotMerge

	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	if o.Location, err = vec3("location", fo.Location, mgl32.Vec3{}); err != nil {
		return nil, errors.Wrapf(err, "object %q", fo.Name)
	}

	rotation, err := vec3("rotation", fo.Rotation, mgl32.Vec3{})
	if err != nil {
		return nil, errors.Wrapf(err, "object %q", fo.Name)
	}

	for i := range rotation {
		o.Rotation[i] = mgl32.DegToRad(rotation[i])
	}

	if o.Scale, err = vec3("scale", fo.Scale, mgl32.Vec3{1, 1, 1}); err != nil {
		return nil, errors.Wrapf(err, "object %q", fo.Name)
	}

	if len(fo.ParentInverse) > 0 {
		if len(fo.ParentInverse) != 16 {
			return nil, errors.Errorf("object %q: parent_inverse needs 16 values, got %d", fo.Name, len(fo.ParentInverse))
		}

		copy(o.ParentInverse[:], fo.ParentInverse)
	}

	if err := fo.buildParameters(o); err != nil {
		return nil, errors.Wrapf(err, "object %q", fo.Name)
	}

	o.UpdateWorld()

	for i := range fo.Children {
		child, err := fo.Children[i].build(o)
		if err != nil {
			return nil, err
		}

		o.Children = append(o.Children, child)
	}

	return o, nil
}

func (fo *fileObject) buildParameters(o *Object) error {
	if fo.Mesh != nil {
		m := &Mesh{AutoSmooth: fo.Mesh.AutoSmooth, AutoSmoothAngle: mgl32.DegToRad(defaultAutoSmoothAngle)}

		if fo.Mesh.AutoSmoothAngle != nil {
			m.AutoSmoothAngle = mgl32.DegToRad(*fo.Mesh.AutoSmoothAngle)
		}

		for _, v := range fo.Mesh.Vertices {
			p, err := vec3("vertex", v, mgl32.Vec3{})
			if err != nil {
				return err
			}

			m.Vertices = append(m.Vertices, p)
		}

		for i, ff := range fo.Mesh.Faces {
			if len(ff.Indices) < 3 {
				return errors.Errorf("face %d has %d vertices", i, len(ff.Indices))
			}

			face := Face{Indices: ff.Indices, Smooth: fo.Mesh.Smooth}
			if ff.Smooth != nil {
				face.Smooth = *ff.Smooth
			}

			for _, idx := range ff.Indices {
				if idx < 0 || idx >= len(m.Vertices) {
					return errors.Errorf("face %d references vertex %d of %d", i, idx, len(m.Vertices))
				}
			}

			if len(ff.UVs) > 0 && len(ff.UVs) != len(ff.Indices) {
				return errors.Errorf("face %d has %d corners but %d uvs", i, len(ff.Indices), len(ff.UVs))
			}

			for _, uv := range ff.UVs {
				if len(uv) != 2 {
					return errors.Errorf("face %d: uv needs 2 values, got %d", i, len(uv))
				}

				face.UVs = append(face.UVs, mgl32.Vec2{uv[0], uv[1]})
			}

			m.Faces = append(m.Faces, face)
		}

		o.Mesh = m
	} else if o.Kind == KindMesh || o.Kind == KindLight || o.Kind == KindBoundingBox {
		o.Mesh = &Mesh{AutoSmoothAngle: mgl32.DegToRad(defaultAutoSmoothAngle)}
	}

	switch o.Kind {
	case KindLight:
		o.Light = &Light{Color: mgl32.Vec4{1, 1, 1, 1}}

		if fo.Light != nil {
			o.Light.Directional = fo.Light.Directional

			if len(fo.Light.Color) > 0 {
				if len(fo.Light.Color) != 4 {
					return errors.Errorf("light color needs 4 values, got %d", len(fo.Light.Color))
				}

				copy(o.Light.Color[:], fo.Light.Color)
			}
		}

	case KindSlot:
		o.Slot = &Slot{}
		if fo.Slot != nil {
			o.Slot.Number = fo.Slot.Number
		}

	case KindSwitch:
		o.Switch = &Switch{}
		if fo.Switch != nil {
			*o.Switch = Switch{
				Name:      fo.Switch.Name,
				Number:    fo.Switch.Number,
				Branch:    fo.Switch.Branch,
				DefaultOn: fo.Switch.DefaultOn,
			}
		}

	case KindDof:
		return fo.buildDof(o)

	case KindHotspot:
		o.Hotspot = &Hotspot{}
		if fo.Hotspot == nil {
			return nil
		}

		o.Hotspot.Size = fo.Hotspot.Size

		for _, fc := range fo.Hotspot.Callbacks {
			bt, err := ParseButtonType(fc.ButtonType)
			if err != nil {
				return errors.Wrapf(err, "callback %q", fc.Name)
			}

			cb := Callback{Name: fc.Name, SoundID: fc.SoundID, MouseButton: fc.MouseButton, ButtonType: bt}

			switch cb.MouseButton {
			case 0:
				cb.MouseButton = MouseLeft
			case MouseLeft, MouseRight:
			default:
				return errors.Errorf("callback %q: invalid mouse button %d", fc.Name, fc.MouseButton)
			}

			o.Hotspot.Callbacks = append(o.Hotspot.Callbacks, cb)
		}
	}

	return nil
}

func (fo *fileObject) buildDof(o *Object) error {
	o.Dof = &Dof{Multiplier: 1}

	fd := fo.Dof
	if fd == nil {
		return nil
	}

	dofType, err := parseDofType(fd.Type)
	if err != nil {
		return err
	}

	vector, err := vec3("vector", fd.Vector, mgl32.Vec3{})
	if err != nil {
		return err
	}

	*o.Dof = Dof{
		Name:           fd.Name,
		Number:         fd.Number,
		Type:           dofType,
		Min:            fd.Min,
		Max:            fd.Max,
		MinInput:       fd.MinInput,
		MaxInput:       fd.MaxInput,
		Multiplier:     1,
		Vector:         vector,
		CheckLimits:    fd.CheckLimits,
		Reverse:        fd.Reverse,
		Normalize:      fd.Normalize,
		MultiplyMinMax: fd.MultiplyMinMax,
	}

	if fd.Multiplier != nil {
		o.Dof.Multiplier = *fd.Multiplier
	}

	return nil
}

func parseDofType(s string) (bml.DofType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rotate":
		return bml.DofRotate, nil
	case "translate":
		return bml.DofTranslate, nil
	case "scale":
		return bml.DofScale, nil
	}

	return bml.DofRotate, errors.Errorf("unknown DOF type %q", s)
}

func vec3(field string, v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	}

	return def, errors.Errorf("%s needs 3 values, got %d", field, len(v))
}
