package opspec

import "strings"

// Option configures one override carried by an Extension.
type Option func(*Extension)

// Extension is the declaration-time bundle built by Extend. Applying it to a
// site chains exactly one new Layer onto whatever chain the site already
// carries, giving "last declared, highest precedence" semantics.
type Extension struct {
	layer    Layer
	methods  []string
	versions []string
}

// Extend collects overrides for a declaration site. It partially or completely
// overrides what base introspection would discover; untouched fields keep
// falling through to inner layers and finally to discovery.
func Extend(opts ...Option) Extension {
	var e Extension
	for _, opt := range opts {
		opt(&e)
	}
	e.layer.scope = NewScope(e.methods, e.versions)
	return e
}

// Apply attaches the extension's layer to site, returning the new site handle.
// A raw-operation override combined with any per-field override in the same
// Extend call is rejected as a declaration conflict.
func (e Extension) Apply(site Site) (Site, error) {
	if e.layer.raw != nil && e.layer.hasFieldOverride() {
		return nil, Issues{Issue{
			Code:    CodeDeclarationConflict,
			Message: "WithOperation cannot be combined with field overrides in one Extend call",
		}}
	}
	return site.attach(e.layer), nil
}

// MustApply is Apply for load-time declarations where a conflict is a
// programming error.
func (e Extension) MustApply(site Site) Site {
	s, err := e.Apply(site)
	if err != nil {
		panic(err)
	}
	return s
}

// WithOperationID replaces the discovered operation id.
func WithOperationID(id string) Option {
	return func(e *Extension) { e.layer.operationID = &id }
}

// WithParameters declares additional or replacement parameters merged over the
// discovered ones.
func WithParameters(params ...Parameter) Option {
	return func(e *Extension) { e.layer.parameters = params }
}

// WithRequest replaces the discovered request payload.
func WithRequest(spec PayloadSpec) Option {
	return func(e *Extension) { e.layer.request = spec }
}

// WithResponses replaces the discovered response payload(s).
func WithResponses(spec PayloadSpec) Option {
	return func(e *Extension) { e.layer.responses = spec }
}

// WithAuth replaces the discovered security requirements.
func WithAuth(reqs ...SecurityRequirement) Option {
	return func(e *Extension) { e.layer.auth = reqs }
}

// WithDescription replaces the discovered documentation text.
func WithDescription(text string) Option {
	return func(e *Extension) { e.layer.description = &text }
}

// WithDeprecated marks (or unmarks) the operation as deprecated.
func WithDeprecated(v bool) Option {
	return func(e *Extension) { e.layer.deprecated = &v }
}

// WithTags overrides the tag list. Calling it with no arguments is meaningful:
// it yields an explicitly empty tag list, distinct from "not overridden".
func WithTags(tags ...string) Option {
	return func(e *Extension) {
		if tags == nil {
			tags = []string{}
		}
		e.layer.tags = tags
	}
}

// WithExclude removes the operation from the generated document. Exclusion is
// absolute: it short-circuits every other override once its scope matches.
func WithExclude() Option {
	return func(e *Extension) { e.layer.exclude = true }
}

// WithOperation supplies a fully-formed operation object that bypasses all
// further resolution, including base introspection.
func WithOperation(raw RawOperation) Option {
	return func(e *Extension) { e.layer.raw = raw }
}

// WithMethods scopes the extension to specific HTTP methods. Matches all by
// default.
func WithMethods(methods ...string) Option {
	return func(e *Extension) {
		for _, m := range methods {
			e.methods = append(e.methods, strings.ToUpper(m))
		}
	}
}

// WithVersions scopes the extension to specific API versions. Matches all by
// default.
func WithVersions(versions ...string) Option {
	return func(e *Extension) { e.versions = append(e.versions, versions...) }
}
