package sourceimport

import (
	"io"
	"strings"

	"github.com/galaco/studiomodel"
	"github.com/galaco/studiomodel/mdl"
	"github.com/galaco/studiomodel/phy"
	"github.com/pkg/errors"
)

func loadModelPart[T any](fs FileSystem, filePath string, reader func(io.Reader) (T, error)) (T, error) {
	var def T

	f, err := fs.Open(filePath)
	if err != nil {
		return def, errors.Wrapf(err, "failed to open model part file %q", filePath)
	}

	defer f.Close()

	part, err := reader(f)
	if err != nil {
		return def, errors.Wrapf(err, "failed to read model part from %q", filePath)
	}

	return part, nil
}

// LoadModel reads the header and the collision model of a studio model.
// Render geometry is not loaded. Phy is nil for models without collision.
func LoadModel(fs FileSystem, path string) (*studiomodel.StudioModel, error) {
	name := strings.TrimSuffix(path, ".mdl")

	model := studiomodel.NewStudioModel(name)

	mdlData, err := loadModelPart(fs, name+".mdl", mdl.ReadFromStream)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read mdl")
	}

	model.AddMdl(mdlData)

	phyData, err := loadModelPart(fs, name+".phy", phy.ReadFromStream)
	if err != nil && !errors.Is(err, errFileNotFound) {
		return nil, errors.Wrap(err, "failed to read phy")
	}

	if phyData != nil {
		model.AddPhy(phyData)
	}

	return model, nil
}
