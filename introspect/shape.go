package introspect

import (
	"reflect"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	opspec "github.com/phb-teleclinic/opspec"
)

// shapeCache memoizes reflected shapes per Go type. The lru cache is safe for
// concurrent reads during a parallel pass; rebuilding a shape twice under
// contention is harmless because shapes are value-equal.
type shapeCache struct {
	types *lru.Cache[reflect.Type, opspec.Shape]
}

func newShapeCache(size int) *shapeCache {
	c, err := lru.New[reflect.Type, opspec.Shape](size)
	if err != nil {
		panic(err)
	}
	return &shapeCache{types: c}
}

// structShape is a Shape reflected from a Go struct type. Fields are filled
// once during construction; the pointer form lets self-referential types
// terminate.
type structShape struct {
	name   string
	fields []opspec.Field
}

func (s *structShape) ComponentName() string  { return s.name }
func (s *structShape) Fields() []opspec.Field { return s.fields }

// shapeOf derives the payload shape for a registered value or reflect.Type.
// Slice payloads report many=true with the element's shape. Non-struct
// payloads discover nothing.
func (c *shapeCache) shapeOf(v any) (opspec.Shape, bool) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	t = deref(t)
	many := false
	if t != nil && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		many = true
		t = deref(t.Elem())
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, many
	}
	return c.resolve(t, map[reflect.Type]*structShape{}), many
}

func (c *shapeCache) resolve(t reflect.Type, seen map[reflect.Type]*structShape) opspec.Shape {
	if ann, ok := opspec.AnnotationFor(t); ok && ann.Shape != nil {
		return ann.Shape
	}
	if s, ok := c.types.Get(t); ok {
		return s
	}
	if s, ok := seen[t]; ok {
		return s
	}
	s := &structShape{name: shapeName(t)}
	seen[t] = s
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		name, omitempty := resolveKey(sf)
		if name == "-" {
			continue
		}
		ft := sf.Type
		optional := omitempty
		if ft.Kind() == reflect.Pointer {
			optional = true
			ft = ft.Elem()
		}
		f := c.fieldOf(ft, seen)
		f.Name = name
		f.Required = !optional
		s.fields = append(s.fields, f)
	}
	c.types.Add(t, s)
	return s
}

// fieldOf maps one Go type to a Field description. A field-level annotation
// always beats reflection for that type.
func (c *shapeCache) fieldOf(t reflect.Type, seen map[reflect.Type]*structShape) opspec.Field {
	if ann, ok := opspec.AnnotationFor(t); ok && ann.Shape != nil {
		f := opspec.Field{Type: opspec.TypeObject, Ref: ann.Shape}
		if ann.Many != nil && *ann.Many {
			elem := f
			return opspec.Field{Type: opspec.TypeArray, Elem: &elem}
		}
		return f
	}
	if t == reflect.TypeOf(time.Time{}) {
		return opspec.Field{Type: opspec.TypeString, Format: "date-time"}
	}
	switch t.Kind() {
	case reflect.String:
		return opspec.Field{Type: opspec.TypeString}
	case reflect.Bool:
		return opspec.Field{Type: opspec.TypeBoolean}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return opspec.Field{Type: opspec.TypeInteger}
	case reflect.Int64, reflect.Uint64:
		return opspec.Field{Type: opspec.TypeInteger, Format: "int64"}
	case reflect.Float32:
		return opspec.Field{Type: opspec.TypeNumber, Format: "float"}
	case reflect.Float64:
		return opspec.Field{Type: opspec.TypeNumber, Format: "double"}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return opspec.Field{Type: opspec.TypeString, Format: "byte"}
		}
		elem := c.fieldOf(deref(t.Elem()), seen)
		return opspec.Field{Type: opspec.TypeArray, Elem: &elem}
	case reflect.Struct:
		return opspec.Field{Type: opspec.TypeObject, Ref: c.resolve(t, seen)}
	case reflect.Pointer:
		return c.fieldOf(t.Elem(), seen)
	default:
		// maps, interfaces, channels: loose object
		return opspec.Field{Type: opspec.TypeObject}
	}
}

// resolveKey applies the repository-wide rule for a struct field's external
// key: json tag name over field name; "-" disables the field.
func resolveKey(sf reflect.StructField) (name string, omitempty bool) {
	name = sf.Name
	jt := sf.Tag.Get("json")
	if jt == "" {
		return name, false
	}
	parts := strings.Split(jt, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, p := range parts[1:] {
		if p == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty
}

func shapeName(t reflect.Type) string {
	if n := t.Name(); n != "" {
		return n
	}
	return "Inline"
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
