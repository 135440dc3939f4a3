// Package model holds the relay domain types and errors.
package model

// ValueKind identifies the variant held by a Value.
type ValueKind int

const (
	// KindScalar is a plain value rendered as a string property.
	KindScalar ValueKind = iota
	// KindVector3 is a three component vector.
	KindVector3
	// KindCFrame is a coordinate frame: translation plus a row-major 3x3 rotation.
	KindCFrame
	// KindColor3 is an RGB color.
	KindColor3
)

// String returns the discriminator used for the kind in scene JSON.
func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindVector3:
		return "Vector3"
	case KindCFrame:
		return "CFrame"
	case KindColor3:
		return "Color3"
	default:
		return "unknown"
	}
}

// IdentityCFrame is the component list used when a CFrame carries fewer
// than twelve components.
var IdentityCFrame = [12]float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1}

// Vector3 holds X, Y and Z components.
type Vector3 struct {
	X, Y, Z float64
}

// Color3 holds R, G and B components.
type Color3 struct {
	R, G, B float64
}

// Value is a typed property value. Only the field matching Kind is meaningful.
type Value struct {
	Kind    ValueKind
	Scalar  string
	Vector3 Vector3
	CFrame  [12]float64
	Color3  Color3
}

// ScalarValue returns a scalar Value.
func ScalarValue(s string) Value {
	return Value{Kind: KindScalar, Scalar: s}
}

// Vector3Value returns a Vector3 Value.
func Vector3Value(x, y, z float64) Value {
	return Value{Kind: KindVector3, Vector3: Vector3{X: x, Y: y, Z: z}}
}

// CFrameValue returns a CFrame Value.
func CFrameValue(components [12]float64) Value {
	return Value{Kind: KindCFrame, CFrame: components}
}

// Color3Value returns a Color3 Value.
func Color3Value(r, g, b float64) Value {
	return Value{Kind: KindColor3, Color3: Color3{R: r, G: g, B: b}}
}

// Property is a named Value. Properties keep the order they had in the input.
type Property struct {
	Name  string
	Value Value
}

// SceneNode is one object of an exported model tree.
type SceneNode struct {
	ClassName  string
	Name       string
	Properties []Property
	Children   []SceneNode
}

// Scene is an ordered list of top-level nodes.
type Scene struct {
	Objects []SceneNode
}
