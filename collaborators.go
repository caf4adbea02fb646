package opspec

import "context"

// Introspector is the base introspection engine: best-effort automatic
// discovery of an operation's description from handler and type information.
// Implementations must never fail for a field they cannot determine; they
// return the zero value instead, so the resolver's fallback path is always
// satisfiable. Discovery may be consulted concurrently from multiple
// resolutions; any internal state must be read-only or safe for concurrent
// reads.
type Introspector interface {
	OperationID(op OperationContext) string
	Parameters(op OperationContext) []Parameter
	Request(op OperationContext) PayloadSpec
	Responses(op OperationContext) PayloadSpec
	Auth(op OperationContext) []SecurityRequirement
	Description(op OperationContext) string
	Deprecated(op OperationContext) bool
	Tags(op OperationContext) []string
}

// NullIntrospector discovers nothing; every field resolves to its zero value.
type NullIntrospector struct{}

func (NullIntrospector) OperationID(OperationContext) string         { return "" }
func (NullIntrospector) Parameters(OperationContext) []Parameter     { return nil }
func (NullIntrospector) Request(OperationContext) PayloadSpec        { return nil }
func (NullIntrospector) Responses(OperationContext) PayloadSpec      { return nil }
func (NullIntrospector) Auth(OperationContext) []SecurityRequirement { return nil }
func (NullIntrospector) Description(OperationContext) string         { return "" }
func (NullIntrospector) Deprecated(OperationContext) bool            { return false }
func (NullIntrospector) Tags(OperationContext) []string              { return nil }

// Route is one discovered (path, method) pair together with the declaration
// site whose chain head is consulted during resolution. Site may be nil for
// purely introspected operations.
type Route struct {
	Path   string
	Method string
	Site   Site
}

// RouteLister supplies the routed operations of one generation pass.
type RouteLister interface {
	Routes() []Route
}

// VersionResolver determines the API version documented for one route during
// the current pass. A failure is fatal for that one operation only.
type VersionResolver interface {
	ResolveVersion(ctx context.Context, rt Route) (string, error)
}

// VersionResolverFunc adapts a function to the VersionResolver interface.
type VersionResolverFunc func(ctx context.Context, rt Route) (string, error)

func (f VersionResolverFunc) ResolveVersion(ctx context.Context, rt Route) (string, error) {
	return f(ctx, rt)
}

// StaticVersion resolves every route to the same version. An empty string
// documents an unversioned API.
func StaticVersion(version string) VersionResolver {
	return VersionResolverFunc(func(context.Context, Route) (string, error) {
		return version, nil
	})
}
