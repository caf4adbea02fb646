package opspec

// ResolvedOperation is the final description of one operation for one
// context, constructed fresh per resolution and never mutated after return.
// Excluded marks an operation that must not appear in the document; Raw, when
// non-nil, is a literal operation object replacing every other field.
type ResolvedOperation struct {
	Context     OperationContext
	Excluded    bool
	Raw         RawOperation
	OperationID string
	Parameters  []Parameter
	Request     PayloadSpec
	Responses   PayloadSpec
	Auth        []SecurityRequirement
	Description string
	Deprecated  bool
	Tags        []string
}

// Resolver composes a layer chain with the base introspection engine.
// Resolution is a pure function of (head, context, base result): no layer is
// mutated, and distinct operations may resolve concurrently with no
// coordination.
type Resolver struct {
	// Base supplies discovered values for fields no in-scope layer defines.
	// Nil behaves like NullIntrospector.
	Base Introspector
}

// Resolve walks the chain outermost to innermost. An in-scope exclude ends
// resolution with the excluded marker; an in-scope raw override ends it with
// the literal operation. Otherwise each field resolves independently: the
// first in-scope layer defining it wins, and base introspection fills the
// rest. Layers out of scope contribute nothing at all.
func (r Resolver) Resolve(op OperationContext, head *Layer) (ResolvedOperation, error) {
	base := r.Base
	if base == nil {
		base = NullIntrospector{}
	}

	for l := head; l != nil; l = l.inner {
		if !l.scope.Matches(op) {
			continue
		}
		if l.exclude {
			return ResolvedOperation{Context: op, Excluded: true}, nil
		}
		if l.raw != nil {
			return ResolvedOperation{Context: op, Raw: l.raw}, nil
		}
	}

	out := ResolvedOperation{Context: op}

	if v, ok := lookup(head, op, func(l *Layer) (string, bool) {
		if l.operationID == nil {
			return "", false
		}
		return *l.operationID, true
	}); ok {
		out.OperationID = v
	} else {
		out.OperationID = base.OperationID(op)
	}

	if v, ok := lookup(head, op, func(l *Layer) ([]Parameter, bool) {
		return l.parameters, l.parameters != nil
	}); ok {
		out.Parameters = mergeParameters(base.Parameters(op), v)
	} else {
		out.Parameters = base.Parameters(op)
	}

	if v, ok := lookup(head, op, func(l *Layer) (PayloadSpec, bool) {
		return l.request, l.request != nil
	}); ok {
		out.Request = v
	} else {
		out.Request = base.Request(op)
	}

	if v, ok := lookup(head, op, func(l *Layer) (PayloadSpec, bool) {
		return l.responses, l.responses != nil
	}); ok {
		out.Responses = v
	} else {
		out.Responses = base.Responses(op)
	}

	if v, ok := lookup(head, op, func(l *Layer) ([]SecurityRequirement, bool) {
		return l.auth, l.auth != nil
	}); ok {
		out.Auth = v
	} else {
		out.Auth = base.Auth(op)
	}

	if v, ok := lookup(head, op, func(l *Layer) (string, bool) {
		if l.description == nil {
			return "", false
		}
		return *l.description, true
	}); ok {
		out.Description = v
	} else {
		out.Description = base.Description(op)
	}

	if v, ok := lookup(head, op, func(l *Layer) (bool, bool) {
		if l.deprecated == nil {
			return false, false
		}
		return *l.deprecated, true
	}); ok {
		out.Deprecated = v
	} else {
		out.Deprecated = base.Deprecated(op)
	}

	if v, ok := lookup(head, op, func(l *Layer) ([]string, bool) {
		return l.tags, l.tags != nil
	}); ok {
		out.Tags = v
	} else {
		out.Tags = base.Tags(op)
	}

	var iss Issues
	if err := checkPayload(op, out.Request); err != nil {
		iss = appendErr(iss, err)
	}
	if err := checkPayload(op, out.Responses); err != nil {
		iss = appendErr(iss, err)
	}
	if len(iss) > 0 {
		return ResolvedOperation{}, iss
	}
	return out, nil
}

// lookup finds the first in-scope layer for which pick reports a defined
// value.
func lookup[T any](head *Layer, op OperationContext, pick func(*Layer) (T, bool)) (T, bool) {
	for l := head; l != nil; l = l.inner {
		if !l.scope.Matches(op) {
			continue
		}
		if v, ok := pick(l); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// checkPayload enforces the polymorphic discriminator invariant anywhere a
// Polymorphic appears in a payload slot, including per-status entries.
func checkPayload(op OperationContext, spec PayloadSpec) error {
	switch v := spec.(type) {
	case *Polymorphic:
		return v.check(op)
	case StatusShapes:
		var iss Issues
		for _, st := range v {
			if err := checkPayload(op, st.Spec); err != nil {
				iss = appendErr(iss, err)
			}
		}
		if len(iss) > 0 {
			return iss
		}
	}
	return nil
}

func appendErr(dst Issues, err error) Issues {
	if more, ok := AsIssues(err); ok {
		return AppendIssues(dst, more...)
	}
	return AppendIssues(dst, Issue{Code: CodeUnsupportedPayload, Cause: err, Message: err.Error()})
}
