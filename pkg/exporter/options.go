package exporter

import "github.com/saiko-tech/bml-exporter/pkg/bml"

// FeetPerMeter converts host meters into engine feet.
const FeetPerMeter = 3.28084

// Options control what an export writes and how.
type Options struct {
	Compression bml.Compression
	// AutoSmoothAngle is in degrees.
	AutoSmoothAngle float32
	// Script is a script number or catalog name. "-1" selects none.
	Script string
	// UnitScale is the length of a scene unit in meters.
	UnitScale float32
	// Prefix is prepended to every BML and MTI file name.
	Prefix string

	ExportModels          bool
	ExportMaterialsFile   bool
	ExportMaterialSets    bool
	ExportUnusedMaterials bool
	ExportParentDat       bool
	ExportHotspots        bool
	ExportBoundingBoxes   bool

	// DoNotJoinMaterials keeps every object as its own primitive.
	DoNotJoinMaterials bool
}

// DefaultOptions returns LZMA compression with every artifact enabled.
func DefaultOptions() Options {
	return Options{
		Compression:           bml.CompressionLZMA,
		AutoSmoothAngle:       30,
		Script:                "-1",
		UnitScale:             1,
		ExportModels:          true,
		ExportMaterialsFile:   true,
		ExportMaterialSets:    true,
		ExportUnusedMaterials: true,
		ExportParentDat:       true,
		ExportHotspots:        true,
		ExportBoundingBoxes:   true,
	}
}

// ScaleFactor is the factor applied to every object transform before
// flattening.
func (o Options) ScaleFactor() float32 {
	unit := o.UnitScale
	if unit <= 0 {
		unit = 1
	}

	return FeetPerMeter * unit
}
