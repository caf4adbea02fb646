package opspec

// RawOperation is a fully-formed operation object that bypasses all further
// resolution, translated literally into the rendered document. Escape hatch of
// last resort.
type RawOperation map[string]any

// Layer is one immutable bundle of optional overrides plus the scope in which
// it applies. Layers form a singly-linked chain from the outermost (most
// recently declared) override down to the base-introspection terminal (nil
// inner). A chain is set up once at load time and only read afterwards;
// extending a site builds a new outer layer, never mutates an existing one.
type Layer struct {
	operationID *string
	parameters  []Parameter
	request     PayloadSpec
	responses   PayloadSpec
	auth        []SecurityRequirement
	description *string
	deprecated  *bool
	tags        []string // nil = absent; non-nil empty = explicitly no tags
	exclude     bool
	raw         RawOperation
	scope       Scope
	inner       *Layer
}

// Scope returns the layer's applicability predicate.
func (l *Layer) Scope() Scope { return l.scope }

// Inner returns the next layer consulted when this one does not decide a
// field, or nil for the base-introspection terminal.
func (l *Layer) Inner() *Layer { return l.inner }

// hasFieldOverride reports whether any per-field override is declared,
// ignoring exclude and raw. Used to reject declaration conflicts.
func (l *Layer) hasFieldOverride() bool {
	return l.operationID != nil ||
		l.parameters != nil ||
		l.request != nil ||
		l.responses != nil ||
		l.auth != nil ||
		l.description != nil ||
		l.deprecated != nil ||
		l.tags != nil
}

// stackOnto returns a copy of the chain headed by l whose innermost terminal
// falls back to next instead of base introspection. Shared layers are never
// relinked in place; the copies are fresh nodes.
func (l *Layer) stackOnto(next *Layer) *Layer {
	if l == nil {
		return next
	}
	cp := *l
	cp.inner = l.inner.stackOnto(next)
	return &cp
}
