package scene

// TextureSlot is the shader slot a texture or sampler binds to.
type TextureSlot int

const (
	SlotAlbedo TextureSlot = iota
	SlotARMW
	SlotNormalMap
	SlotEmissive
)

type Texture struct {
	File string      `json:"File,omitempty" yaml:"file"`
	Slot TextureSlot `json:"Slot" yaml:"slot"`
}

// Flags are the rasterizer settings of a material. Cull is one of BACK,
// FRONT and NONE.
type Flags struct {
	Cull                 string  `json:"Cull,omitempty" yaml:"cull"`
	DepthBias            int     `json:"DepthBias" yaml:"depth_bias"`
	ShadowCaster         int     `json:"ShadowCaster" yaml:"shadow_caster"`
	SlopeScaledDepthBias float32 `json:"SlopeScaledDepthBias" yaml:"slope_scaled_depth_bias"`
}

type ShaderConstants struct {
	EmissionIntensity float32 `json:"emissionIntensity" yaml:"emission_intensity"`
	EmissionCallback  float32 `json:"emissionCallback" yaml:"emission_callback"`
}

// ShaderParam binds a constant buffer. Units are shader stages: VS, CS, HS,
// DS, GS or PS.
type ShaderParam struct {
	Layout    string           `json:"Layout,omitempty" yaml:"layout"`
	Slot      TextureSlot      `json:"Slot" yaml:"slot"`
	Unit      []string         `json:"Unit,omitempty" yaml:"unit"`
	Constants *ShaderConstants `json:"Constants,omitempty" yaml:"constants"`
}

type Template struct {
	File     string `json:"File,omitempty" yaml:"file"`
	Material string `json:"Material,omitempty" yaml:"material"`
}

type Sampler struct {
	Slot          TextureSlot `json:"Slot" yaml:"slot"`
	Unit          string      `json:"Unit,omitempty" yaml:"unit"`
	Filter        string      `json:"Filter,omitempty" yaml:"filter"`
	MaxAnisotropy int         `json:"MaxAnisotropy" yaml:"max_anisotropy"`
	Address       string      `json:"Address,omitempty" yaml:"address"`
}

// Blend is the output merger state of a material. Src, Dst, SrcAlpha and
// DstAlpha are blend factors (ONE, SRC_ALPHA, INV_SRC_ALPHA, ...); Op and
// OpAlpha are blend operations (ADD, SUBTRACT, ...).
type Blend struct {
	Enable   bool   `json:"Enable" yaml:"enable"`
	Src      string `json:"Src,omitempty" yaml:"src"`
	Dst      string `json:"Dst,omitempty" yaml:"dst"`
	Op       string `json:"Op,omitempty" yaml:"op"`
	SrcAlpha string `json:"SrcAlpha,omitempty" yaml:"src_alpha"`
	DstAlpha string `json:"DstAlpha,omitempty" yaml:"dst_alpha"`
	OpAlpha  string `json:"OpAlpha,omitempty" yaml:"op_alpha"`
}

// Material is an entry of Materials.mtl. Empty fields are left out of the
// file.
type Material struct {
	Name         string        `json:"Name,omitempty" yaml:"name"`
	Textures     []Texture     `json:"Textures,omitempty" yaml:"textures"`
	Flags        *Flags        `json:"Flags,omitempty" yaml:"flags"`
	ShaderParams []ShaderParam `json:"ShaderParams,omitempty" yaml:"shader_params"`
	Template     *Template     `json:"Template,omitempty" yaml:"template"`
	Samplers     []Sampler     `json:"Samplers,omitempty" yaml:"samplers"`
	Blend        *Blend        `json:"Blend,omitempty" yaml:"blend"`

	// AlphaSort requests back to front sorting of the triangles of
	// primitives using this material.
	AlphaSort bool `json:"-" yaml:"alpha_sort"`
}

// Default material templates.
const (
	DefaultMaterial      = "BML-Default"
	DefaultLightMaterial = "BML-BillboardGlowLight"
	DefaultTemplateFile  = "BML"
)

// DefaultMaterialFor returns the material written for a name the library
// does not define.
func DefaultMaterialFor(name string) Material {
	return Material{
		Name:     name,
		Template: &Template{File: DefaultTemplateFile, Material: DefaultMaterial},
	}
}

// NeedsAlphaSort reports whether primitives using m are sorted back to
// front: either requested explicitly or implied by classic alpha blending.
func (m *Material) NeedsAlphaSort() bool {
	if m.AlphaSort {
		return true
	}

	return m.Blend != nil && m.Blend.Enable && m.Blend.Src == "SRC_ALPHA" && m.Blend.Dst == "INV_SRC_ALPHA"
}
