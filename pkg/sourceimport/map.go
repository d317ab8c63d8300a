package sourceimport

import (
	"fmt"
	"strings"

	"github.com/galaco/bsp"
	"github.com/galaco/bsp/lumps"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// MissingModelsError lists the static prop models that could not be loaded.
type MissingModelsError struct {
	Models []string
}

func (m MissingModelsError) Error() string {
	return fmt.Sprintf(`missing models: ("%s")`, strings.Join(m.Models, `", "`))
}

// propRotation converts Source (pitch, yaw, roll) degrees into an XYZ euler
// triple.
func propRotation(angles mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.DegToRad(angles[2]),
		mgl32.DegToRad(angles[0]),
		mgl32.DegToRad(angles[1]),
	}
}

// placement is the part of a static prop lump entry that positions it.
type placement interface {
	GetOrigin() mgl32.Vec3
	GetAngles() mgl32.Vec3
}

// propObject places a copy of the hull mesh at the position of a static prop.
func propObject(name string, prop placement, mesh *scene.Mesh) *scene.Object {
	o := hitboxObject(name, mesh.Clone())
	o.Location = prop.GetOrigin().Mul(InchesToMeters)
	o.Rotation = propRotation(prop.GetAngles())
	o.UpdateWorld()

	return o
}

// LoadMapHitboxes returns one bounding box object per static prop of the map
// at bspPath. Models are looked up in the map's pakfile and then in the VPK
// archives. Props whose model can not be loaded are skipped; the returned
// error is then a MissingModelsError and the remaining objects are still
// returned.
func LoadMapHitboxes(bspPath string, vpkPaths ...string) ([]*scene.Object, error) {
	bspfile, err := bsp.ReadFromFile(bspPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read map %q", bspPath)
	}

	vpks, err := OpenVPKs(vpkPaths...)
	if err != nil {
		return nil, err
	}

	fs := NewVFS(bspfile.Lump(bsp.LumpPakfile).(*lumps.Pakfile).GetData(), vpks)

	spLump := bspfile.Lump(bsp.LumpGame).(*lumps.Game).GetData().GetStaticPropLump()
	if spLump == nil {
		return nil, nil
	}

	var (
		hulls         = make([]*scene.Mesh, len(spLump.DictLump.Name))
		missingModels []string
	)

	for i, model := range spLump.DictLump.Name {
		m, err := LoadModel(fs, model)
		if err != nil || !m.HasCollisionModel() {
			missingModels = append(missingModels, model)

			continue
		}

		if hulls[i], err = hullMesh(m.Phy.Vertices, phyFaces(m.Phy)); err != nil {
			missingModels = append(missingModels, model)
		}
	}

	var objects []*scene.Object

	for i, p := range spLump.PropLumps {
		t := int(p.GetPropType())
		if t >= len(hulls) || hulls[t] == nil {
			continue
		}

		name := fmt.Sprintf("%s.%03d", modelName(spLump.DictLump.Name[t]), i)
		objects = append(objects, propObject(name, p, hulls[t]))
	}

	if len(missingModels) > 0 {
		return objects, MissingModelsError{Models: missingModels}
	}

	return objects, nil
}
