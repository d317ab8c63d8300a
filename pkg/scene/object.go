// Package scene is the input model of the exporter: a tree of typed objects
// grouped into collections, plus the material library, material sets, LODs and
// the render control graph of a model.
package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
	"github.com/saiko-tech/bml-exporter/pkg/coords"
)

// Kind is the closed set of object types the exporter understands.
type Kind int

const (
	// KindEmpty is a plain container. It is never exported itself but its
	// children are.
	KindEmpty Kind = iota
	KindMesh
	KindLight
	KindSlot
	KindSwitch
	KindDof
	KindHotspot
	KindBoundingBox
)

var kindNames = [...]string{
	KindEmpty:       "empty",
	KindMesh:        "mesh",
	KindLight:       "light",
	KindSlot:        "slot",
	KindSwitch:      "switch",
	KindDof:         "dof",
	KindHotspot:     "hotspot",
	KindBoundingBox: "bounding_box",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}

	return kindNames[k]
}

// ParseKind is the inverse of Kind.String. The empty string is KindEmpty.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindEmpty, nil
	}

	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}

	return KindEmpty, errors.Errorf("unknown object type %q", s)
}

// Light holds the parameters of a billboard light.
type Light struct {
	// Color is linear RGBA.
	Color       mgl32.Vec4
	Directional bool
}

type Slot struct {
	Number int
}

// Switch refers to an engine switch either by catalog name or by number and
// branch.
type Switch struct {
	Name      string
	Number    int
	Branch    int
	DefaultOn bool
}

// Dof holds the parameters of a DOF empty. Min and Max are in degrees and
// only used by rotating DOFs, the other types use MinInput and MaxInput.
type Dof struct {
	Name       string
	Number     int
	Type       bml.DofType
	Min        float32
	Max        float32
	MinInput   float32
	MaxInput   float32
	Multiplier float32
	// Vector is the translation of translating DOFs and the scale of scaling
	// DOFs.
	Vector         mgl32.Vec3
	CheckLimits    bool
	Reverse        bool
	Normalize      bool
	MultiplyMinMax bool
}

// ButtonType is the behavior of a cockpit button.
type ButtonType int

const (
	ButtonSwitch ButtonType = iota
	ButtonPush
	ButtonWheel
)

// Suffix is the type marker written to 3dButtons.dat.
func (t ButtonType) Suffix() string {
	switch t {
	case ButtonPush:
		return "p"
	case ButtonWheel:
		return "w"
	}

	return ""
}

func ParseButtonType(s string) (ButtonType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "switch":
		return ButtonSwitch, nil
	case "push", "push_button", "p":
		return ButtonPush, nil
	case "wheel", "w":
		return ButtonWheel, nil
	}

	return ButtonSwitch, errors.Errorf("unknown button type %q", s)
}

// Mouse buttons of a callback binding.
const (
	MouseLeft  = 1
	MouseRight = 2
)

type Callback struct {
	Name        string
	SoundID     int
	MouseButton int
	ButtonType  ButtonType
}

type Hotspot struct {
	Size      int
	Callbacks []Callback
}

// Object is a node of the scene tree. Exactly one of the type specific
// fields is set, matching Kind; Mesh is also set for lights and bounding
// boxes.
type Object struct {
	ID   string
	Name string
	Kind Kind

	Location mgl32.Vec3
	// Rotation is an XYZ euler triple in radians.
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
	// ParentInverse is applied between the parent's world matrix and the
	// object's own transform.
	ParentInverse mgl32.Mat4
	// World is derived by UpdateWorld.
	World mgl32.Mat4

	Mesh       *Mesh
	Materials  []string
	DoNotMerge bool

	Light   *Light
	Slot    *Slot
	Switch  *Switch
	Dof     *Dof
	Hotspot *Hotspot

	Parent   *Object
	Children []*Object
}

// NewObject returns an object with identity transforms.
func NewObject(name string, kind Kind) *Object {
	return &Object{
		Name:          name,
		Kind:          kind,
		Scale:         mgl32.Vec3{1, 1, 1},
		ParentInverse: mgl32.Ident4(),
		World:         mgl32.Ident4(),
	}
}

// Local returns the object's transform relative to its parent.
func (o *Object) Local() mgl32.Mat4 {
	t := mgl32.Translate3D(o.Location[0], o.Location[1], o.Location[2])
	r := coords.EulerMatrix(o.Rotation).Mat4()
	s := mgl32.Scale3D(o.Scale[0], o.Scale[1], o.Scale[2])

	return t.Mul4(r).Mul4(s)
}

// UpdateWorld recomputes the world matrices of o and its descendants.
func (o *Object) UpdateWorld() {
	parent := mgl32.Ident4()
	if o.Parent != nil {
		parent = o.Parent.World
	}

	o.World = parent.Mul4(o.ParentInverse).Mul4(o.Local())

	for _, c := range o.Children {
		c.UpdateWorld()
	}
}

// AddChild attaches c to o and updates c's world matrices.
func (o *Object) AddChild(c *Object) {
	c.Parent = o
	o.Children = append(o.Children, c)
	c.UpdateWorld()
}

// Material returns the name of the first material slot, or "" if there is
// none.
func (o *Object) Material() string {
	if len(o.Materials) == 0 {
		return ""
	}

	return o.Materials[0]
}

// IsDof reports whether o is a DOF of type t.
func (o *Object) IsDof(t bml.DofType) bool {
	return o != nil && o.Kind == KindDof && o.Dof != nil && o.Dof.Type == t
}

// Walk calls fn for o and all of its descendants, depth first.
func (o *Object) Walk(fn func(*Object)) {
	fn(o)

	for _, c := range o.Children {
		c.Walk(fn)
	}
}

// Clone deep copies o and its descendants. The copy has no parent.
func (o *Object) Clone() *Object {
	c := *o
	c.Parent = nil
	c.Materials = append([]string(nil), o.Materials...)

	if o.Mesh != nil {
		c.Mesh = o.Mesh.Clone()
	}

	if o.Light != nil {
		l := *o.Light
		c.Light = &l
	}

	if o.Slot != nil {
		s := *o.Slot
		c.Slot = &s
	}

	if o.Switch != nil {
		s := *o.Switch
		c.Switch = &s
	}

	if o.Dof != nil {
		d := *o.Dof
		c.Dof = &d
	}

	if o.Hotspot != nil {
		h := *o.Hotspot
		h.Callbacks = append([]Callback(nil), o.Hotspot.Callbacks...)
		c.Hotspot = &h
	}

	c.Children = make([]*Object, 0, len(o.Children))

	for _, child := range o.Children {
		cc := child.Clone()
		cc.Parent = &c
		c.Children = append(c.Children, cc)
	}

	return &c
}

// WorldCenter is the mean of the object's vertices in world space, or its
// origin if it has no geometry.
func (o *Object) WorldCenter() mgl32.Vec3 {
	if o.Mesh == nil || len(o.Mesh.Vertices) == 0 {
		return o.World.Col(3).Vec3()
	}

	return o.World.Mul4x1(o.Mesh.Center().Vec4(1)).Vec3()
}

// WorldVertices returns the mesh vertices of o in world space.
func (o *Object) WorldVertices() []mgl32.Vec3 {
	if o.Mesh == nil {
		return nil
	}

	out := make([]mgl32.Vec3, len(o.Mesh.Vertices))
	for i, v := range o.Mesh.Vertices {
		out[i] = o.World.Mul4x1(v.Vec4(1)).Vec3()
	}

	return out
}
