package exporter

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// ErrDuplicateHotspot is returned when two LODs define the same callback.
var ErrDuplicateHotspot = errors.New("duplicate hotspot detected")

// SceneError is a structural problem of the scene that aborts the export.
// Object names the offending object so that it can be fixed and the export
// repeated.
type SceneError struct {
	Object string
	Reason string
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("object %q: %s", e.Object, e.Reason)
}

func sceneErrorf(o *scene.Object, format string, args ...any) error {
	return &SceneError{Object: o.Name, Reason: fmt.Sprintf(format, args...)}
}
