// Package introspect is the default base-introspection engine: it derives
// best-effort operation descriptions from registered handlers and Go types via
// reflection. Discovery never fails; anything it cannot determine resolves to
// a zero value so override resolution always has a fallback.
package introspect

import (
	"strings"
	"sync"

	opspec "github.com/phb-teleclinic/opspec"
)

// Registry records the routed operations of an API and doubles as the route
// discovery and base introspection collaborators of a generation pass.
// Registration happens at load time; discovery reads are safe concurrently.
type Registry struct {
	mu     sync.Mutex
	routes []*route
	byKey  map[routeKey]*route
	shapes *shapeCache
}

type routeKey struct {
	method string
	path   string
}

type route struct {
	path       string
	method     string
	fn         any
	controller any
	action     string
	doc        string
	request    any
	response   any
	many       bool
}

// NewRegistry returns an empty registry with a bounded shared shape cache.
func NewRegistry() *Registry {
	return &Registry{
		byKey:  map[routeKey]*route{},
		shapes: newShapeCache(256),
	}
}

// RouteOption attaches discovery hints to a registration.
type RouteOption func(*route)

// WithRequestType declares the request payload type (a value or pointer of
// it).
func WithRequestType(v any) RouteOption {
	return func(rt *route) { rt.request = v }
}

// WithResponseType declares the response payload type. Passing a slice value
// marks the operation as a listing.
func WithResponseType(v any) RouteOption {
	return func(rt *route) { rt.response = v }
}

// WithListResponse forces listing detection regardless of the declared type.
func WithListResponse() RouteOption {
	return func(rt *route) { rt.many = true }
}

// WithDoc records the documentation text discovery reports for the operation.
func WithDoc(text string) RouteOption {
	return func(rt *route) { rt.doc = text }
}

// HandleFunc registers a plain callable for one (method, path) pair. Any
// chain already attached to the function via opspec.SiteForFunc is discovered
// at generation time.
func (r *Registry) HandleFunc(method, path string, fn any, opts ...RouteOption) {
	r.add(route{path: path, method: strings.ToUpper(method), fn: fn}, opts)
}

// HandleAction registers one bound action of a controller. The action's own
// chain stacks over the controller-level chain.
func (r *Registry) HandleAction(method, path string, controller any, action string, opts ...RouteOption) {
	r.add(route{path: path, method: strings.ToUpper(method), controller: controller, action: action}, opts)
}

func (r *Registry) add(rt route, opts []RouteOption) {
	for _, opt := range opts {
		opt(&rt)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := &rt
	r.routes = append(r.routes, stored)
	r.byKey[routeKey{method: rt.method, path: rt.path}] = stored
}

// Routes lists the registered operations with their chain heads, combining
// action chains over controller chains at read time so late declarations are
// honored.
func (r *Registry) Routes() []opspec.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]opspec.Route, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, opspec.Route{Path: rt.path, Method: rt.method, Site: rt.site()})
	}
	return out
}

func (rt *route) site() opspec.Site {
	if rt.controller != nil {
		return opspec.CombineSites(
			opspec.SiteForAction(rt.controller, rt.action),
			opspec.SiteForController(rt.controller),
		)
	}
	if rt.fn != nil {
		return opspec.SiteForFunc(rt.fn)
	}
	return nil
}

func (r *Registry) lookup(op opspec.OperationContext) *route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byKey[routeKey{method: strings.ToUpper(op.Method), path: op.Path}]
}

// OperationID derives a deterministic camel-case id from the method and path,
// e.g. GET /pets/{id} -> getPetsById.
func (r *Registry) OperationID(op opspec.OperationContext) string {
	b := &strings.Builder{}
	b.WriteString(strings.ToLower(op.Method))
	for _, seg := range strings.Split(op.Path, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			b.WriteString("By")
			b.WriteString(exportName(strings.Trim(seg, "{}")))
			continue
		}
		b.WriteString(exportName(seg))
	}
	return b.String()
}

// Parameters discovers path parameters from the path template.
func (r *Registry) Parameters(op opspec.OperationContext) []opspec.Parameter {
	var out []opspec.Parameter
	for _, seg := range strings.Split(op.Path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			out = append(out, opspec.Parameter{
				Name:     strings.Trim(seg, "{}"),
				In:       opspec.InPath,
				Type:     opspec.TypeString,
				Required: true,
			})
		}
	}
	return out
}

// Request discovers the request payload from the registered request type.
func (r *Registry) Request(op opspec.OperationContext) opspec.PayloadSpec {
	rt := r.lookup(op)
	if rt == nil || rt.request == nil {
		return nil
	}
	shape, _ := r.shapes.shapeOf(rt.request)
	if shape == nil {
		return nil
	}
	return opspec.SingleShape{Shape: shape}
}

// Responses discovers the response payload from the registered response type.
// A shape-level many annotation overrides listing detection.
func (r *Registry) Responses(op opspec.OperationContext) opspec.PayloadSpec {
	rt := r.lookup(op)
	if rt == nil || rt.response == nil {
		return nil
	}
	shape, many := r.shapes.shapeOf(rt.response)
	if shape == nil {
		return nil
	}
	many = many || rt.many
	if ann, ok := opspec.AnnotationFor(rt.response); ok && ann.Many != nil {
		many = *ann.Many
	}
	return opspec.SingleShape{Shape: shape, Many: many}
}

// Auth discovers nothing; security requirements are override-only here.
func (r *Registry) Auth(op opspec.OperationContext) []opspec.SecurityRequirement { return nil }

// Description reports the registered doc string.
func (r *Registry) Description(op opspec.OperationContext) string {
	if rt := r.lookup(op); rt != nil {
		return rt.doc
	}
	return ""
}

// Deprecated discovers nothing; deprecation is override-only here.
func (r *Registry) Deprecated(op opspec.OperationContext) bool { return false }

// Tags derives the default tag from the first literal path segment.
func (r *Registry) Tags(op opspec.OperationContext) []string {
	for _, seg := range strings.Split(op.Path, "/") {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		return []string{seg}
	}
	return nil
}

func exportName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
