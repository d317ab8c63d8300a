// Package bml encodes the BML v2 binary model container: the node table,
// vertex and index buffers, the file header and its compressed payload.
package bml

// NodeType identifies the payload of a node in the node table.
type NodeType uint32

const (
	NodeTypeInvalid NodeType = iota
	NodeTypePrimitive
	NodeTypeDof
	NodeTypeDofEnd
	NodeTypeSwitch
	NodeTypeSwitchEnd
	NodeTypeSlot
	NodeTypeSlotEnd
	NodeTypeRenderControl
)

func (t NodeType) String() string {
	switch t {
	case NodeTypePrimitive:
		return "Primitive"
	case NodeTypeDof:
		return "Dof"
	case NodeTypeDofEnd:
		return "DofEnd"
	case NodeTypeSwitch:
		return "Switch"
	case NodeTypeSwitchEnd:
		return "SwitchEnd"
	case NodeTypeSlot:
		return "Slot"
	case NodeTypeSlotEnd:
		return "SlotEnd"
	case NodeTypeRenderControl:
		return "RenderControl"
	}

	return "Invalid"
}

// DofType is the kind of motion a DOF applies.
type DofType uint32

const (
	DofRotate DofType = iota
	DofTranslate
	DofScale
)

func (t DofType) String() string {
	switch t {
	case DofRotate:
		return "ROTATE"
	case DofTranslate:
		return "TRANSLATE"
	case DofScale:
		return "SCALE"
	}

	return "UNKNOWN"
}

// DOF flag bits.
const (
	DofFlagCheckLimits uint32 = 1 << iota
	DofFlagReverse
	DofFlagNormalize
)

// Topology of a primitive's index list.
type Topology uint32

const TopologyTriangleList Topology = 4

// IndexFormat is the width of the values in the index buffer.
type IndexFormat uint32

const (
	IndexFormat16 IndexFormat = 1
	IndexFormat32 IndexFormat = 2
)

// Compression of the payload that follows the header.
type Compression uint32

const (
	CompressionNone Compression = iota
	CompressionLZ4
	CompressionLZMA
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionLZMA:
		return "lzma"
	}

	return "unknown"
}

// ParseCompression accepts the names produced by Compression.String.
func ParseCompression(s string) (Compression, bool) {
	switch s {
	case "none", "NONE", "":
		return CompressionNone, true
	case "lz4", "LZ4", "LZ_4":
		return CompressionLZ4, true
	case "lzma", "LZMA":
		return CompressionLZMA, true
	}

	return 0, false
}

// ControlType of a render control. Only DOF math is emitted.
type ControlType uint32

const (
	ControlZBias   ControlType = 1
	ControlDofMath ControlType = 2
)

// MathOp is the operation a DOF math render control performs.
type MathOp uint16

const (
	MathSet MathOp = iota
	MathAdd
	MathSubtract
	MathMultiply
	MathDivide
	MathModulus
	MathCos
	MathAcos
	MathSin
	MathAsin
	MathTan
	MathAtan
	MathAtan2
	MathAngleFromAdjHyp
	MathAngleFromOppHyp
	MathAngleFromOppAdj
	MathLengthOfAdjFromAngleOpp
	MathLengthOfOppFromAngleAdj
	MathAngleAFromAngleBSideASideB
	MathAngleAFromAngleBSideASideC
	MathAngleAFromSideASideBSideC
	MathSideAFromAngleASideBSideC
	MathClamp
	MathNormalize
	MathMultFrameTime
	MathStep

	mathOpCount
)

var mathOpNames = [mathOpCount]string{
	"SET", "ADD", "SUBTRACT", "MULTIPLY", "DIVIDE", "MODULUS",
	"COS", "ACOS", "SIN", "ASIN", "TAN", "ATAN", "ATAN2",
	"ANGLE_FROM_ADJ_HYP", "ANGLE_FROM_OPP_HYP", "ANGLE_FROM_OPP_ADJ",
	"LENGTHOFADJ_FROM_ANGLE_OPP", "LENGTHOFOPP_FROM_ANGLE_ADJ",
	"ANGLEA_FROM_ANGLEB_SIDEA_SIDEB", "ANGLEA_FROM_ANGLEB_SIDEA_SIDEC",
	"ANGLEA_FROM_SIDEA_SIDEB_SIDEC", "SIDEA_FROM_ANGLEA_SIDEB_SIDEC",
	"CLAMP", "NORMALIZE", "MULTFRAMETIME", "STEP",
}

// mathOpArgs are the named input ports of each operation, in argument order.
var mathOpArgs = [mathOpCount][]string{
	MathSet:                        {"value"},
	MathAdd:                        {"a", "b"},
	MathSubtract:                   {"a", "b"},
	MathMultiply:                   {"a", "b"},
	MathDivide:                     {"a", "b"},
	MathModulus:                    {"a", "b"},
	MathCos:                        {"x"},
	MathAcos:                       {"x"},
	MathSin:                        {"x"},
	MathAsin:                       {"x"},
	MathTan:                        {"x"},
	MathAtan:                       {"x"},
	MathAtan2:                      {"x", "y"},
	MathAngleFromAdjHyp:            {"Adjacent", "Hypotenuse"},
	MathAngleFromOppHyp:            {"Opposite", "Hypotenuse"},
	MathAngleFromOppAdj:            {"Opposite", "Adjacent"},
	MathLengthOfAdjFromAngleOpp:    {"Angle", "Opposite"},
	MathLengthOfOppFromAngleAdj:    {"Angle", "Adjacent"},
	MathAngleAFromAngleBSideASideB: {"B", "a", "b"},
	MathAngleAFromAngleBSideASideC: {"B", "a", "c"},
	MathAngleAFromSideASideBSideC:  {"a", "b", "c"},
	MathSideAFromAngleASideBSideC:  {"A", "b", "c"},
	MathClamp:                      {"value", "min", "max"},
	MathNormalize:                  {"value", "min", "max"},
	MathMultFrameTime:              {"value"},
	MathStep:                       {"value", "step-size"},
}

func (op MathOp) String() string {
	if op < mathOpCount {
		return mathOpNames[op]
	}

	return "UNKNOWN"
}

// Valid reports whether op is a known operation.
func (op MathOp) Valid() bool {
	return op < mathOpCount
}

// Ports returns the names of op's input ports.
func (op MathOp) Ports() []string {
	if !op.Valid() {
		return nil
	}

	return mathOpArgs[op]
}

// ParseMathOp looks up an operation by its name.
func ParseMathOp(s string) (MathOp, bool) {
	for i, name := range mathOpNames {
		if name == s {
			return MathOp(i), true
		}
	}

	return 0, false
}

// ArgType tags a render control argument or result.
type ArgType uint8

const (
	ArgFloat ArgType = iota
	ArgDofID
	ArgScratch
)

func (t ArgType) String() string {
	switch t {
	case ArgFloat:
		return "FLOAT"
	case ArgDofID:
		return "DOF_ID"
	case ArgScratch:
		return "SCRATCH"
	}

	return "UNKNOWN"
}
