package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/bml-exporter/pkg/coords"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
)

// BoundingBoxesFile holds the hitboxes that go into the aircraft textproto.
const BoundingBoxesFile = "bounding_boxes.txtpb"

const boundingBoxesHeader = "# The following data needs to be manually added to the required <aircraft>.txtpb file\n"

// BoundingBox is an axis aligned box in hotspot space.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// boundingBoxOf returns the bounds of the world space vertices of o.
func boundingBoxOf(o *scene.Object) (BoundingBox, bool) {
	return hotspotBounds(o.WorldVertices())
}

// boundingBoxes returns the boxes of all bounding box objects of s in scene
// order.
func boundingBoxes(s *scene.Scene) []BoundingBox {
	var boxes []BoundingBox

	s.Walk(func(o *scene.Object) {
		if o.Kind != scene.KindBoundingBox {
			return
		}

		if b, ok := boundingBoxOf(o); ok {
			boxes = append(boxes, b)
		}
	})

	return boxes
}

func hotspotBounds(points []mgl32.Vec3) (BoundingBox, bool) {
	converted := make([]mgl32.Vec3, len(points))
	for i, p := range points {
		converted[i] = coords.ToHotspot(p)
	}

	lo, hi, ok := scene.Bounds(converted)

	return BoundingBox{Min: lo, Max: hi}, ok
}

// TextProto formats b as a bounding_box message.
func (b BoundingBox) TextProto() string {
	var sb strings.Builder

	sb.WriteString("bounding_box {\n")

	for _, corner := range []struct {
		name string
		v    mgl32.Vec3
	}{{"min", b.Min}, {"max", b.Max}} {
		fmt.Fprintf(&sb, "  %s {\n", corner.name)
		fmt.Fprintf(&sb, "      x: %s\n", oneDecimal(corner.v[0]))
		fmt.Fprintf(&sb, "      y: %s\n", oneDecimal(corner.v[1]))
		fmt.Fprintf(&sb, "      z: %s\n", oneDecimal(corner.v[2]))
		sb.WriteString("  }\n")
	}

	sb.WriteString("}\n")

	return sb.String()
}

// oneDecimal rounds v to one decimal and always prints a fraction, "2.0"
// rather than "2".
func oneDecimal(v float32) string {
	return roundedString(float64(v), 1)
}

// roundedString rounds v to the given number of decimals, ties to even on
// the exact binary value, and prints the shortest form that reads back as
// the rounded value. Magnitudes below 1e-4 use an exponent.
func roundedString(v float64, decimals int) string {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)

	if a := math.Abs(r); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(r, 'e', -1, 64)
	}

	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// WriteBoundingBoxes writes boxes to path.
func WriteBoundingBoxes(path string, boxes []BoundingBox) error {
	var sb strings.Builder

	sb.WriteString(boundingBoxesHeader)

	for _, b := range boxes {
		sb.WriteString(b.TextProto())
	}

	return writeFile(path, []byte(sb.String()))
}
