package opspec

// FieldType is the wire-level primitive category of a field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object"
	TypeArray   FieldType = "array"
)

// Field describes one named member of a Shape.
type Field struct {
	Name        string
	Type        FieldType
	Format      string
	Required    bool
	Description string
	Enum        []any
	// Elem describes the element of an array field.
	Elem *Field
	// Ref points at a nested object shape; the renderer emits it as its own
	// component.
	Ref Shape
}

// Shape is a structural description of a payload: a named set of fields,
// analogous to a schema object. Implementations must be immutable once handed
// to the core.
type Shape interface {
	ComponentName() string
	Fields() []Field
}

// objectShape is the literal, hand-declared Shape.
type objectShape struct {
	name   string
	fields []Field
}

// NewShape declares a literal Shape with the given component name and fields.
func NewShape(name string, fields ...Field) Shape {
	return objectShape{name: name, fields: fields}
}

func (s objectShape) ComponentName() string { return s.name }
func (s objectShape) Fields() []Field       { return s.fields }

// HasField reports whether the shape exposes a field with the given name.
func HasField(s Shape, name string) bool {
	if s == nil {
		return false
	}
	for _, f := range s.Fields() {
		if f.Name == name {
			return true
		}
	}
	return false
}

// PayloadSpec is the tagged value occupying a request or response slot of a
// Layer or ResolvedOperation. The renderer resolves it via a type switch:
// SingleShape, StatusShapes, or *Polymorphic.
type PayloadSpec interface {
	isPayloadSpec()
}

// SingleShape is the common case: one payload shape, optionally a listing.
type SingleShape struct {
	Shape Shape
	Many  bool
}

func (SingleShape) isPayloadSpec() {}

// StatusShape binds a PayloadSpec to one HTTP status code.
type StatusShape struct {
	Status int
	Spec   PayloadSpec
}

// StatusShapes is an ordered sequence of per-status payload specs for
// operations that answer differently by status code.
type StatusShapes []StatusShape

func (StatusShapes) isPayloadSpec() {}
