package opspec

import (
	"reflect"
	"sync"
)

// FieldAnnotation is a minimal metadata record attached directly to a field or
// shape type, read exclusively by base introspection when it encounters that
// type. There is no scoping and no stacking: a set annotation always wins over
// discovery for that one field or shape. The two keys are independent.
type FieldAnnotation struct {
	// Shape replaces whatever shape discovery would derive for the target.
	Shape Shape
	// Many overrides listing detection for the target.
	Many *bool
}

var (
	annotationMu sync.Mutex
	annotations  = map[any]FieldAnnotation{}
)

// AnnotateField attaches a shape override to target, a field or payload type
// (value or reflect.Type). Later routing/discovery picks it up; annotating a
// type that is never discovered is inert.
func AnnotateField(target any, shape Shape) {
	annotationMu.Lock()
	defer annotationMu.Unlock()
	ann := annotations[annotationKey(target)]
	ann.Shape = shape
	annotations[annotationKey(target)] = ann
}

// AnnotateMany attaches a listing override to target, independently of any
// shape override.
func AnnotateMany(target any, many bool) {
	annotationMu.Lock()
	defer annotationMu.Unlock()
	ann := annotations[annotationKey(target)]
	ann.Many = &many
	annotations[annotationKey(target)] = ann
}

// AnnotationFor reads the annotation attached to target. Absent means "defer
// entirely to base introspection".
func AnnotationFor(target any) (FieldAnnotation, bool) {
	annotationMu.Lock()
	defer annotationMu.Unlock()
	ann, ok := annotations[annotationKey(target)]
	return ann, ok
}

func annotationKey(target any) any {
	if t, ok := target.(reflect.Type); ok {
		return t
	}
	v := reflect.ValueOf(target)
	if v.Kind() == reflect.Func {
		return v.Pointer()
	}
	return indirectType(target)
}
