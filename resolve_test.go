package opspec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	opspec "github.com/phb-teleclinic/opspec"
)

// cannedBase is a stub introspection engine returning fixed discoveries.
type cannedBase struct {
	opspec.NullIntrospector
}

func (cannedBase) OperationID(opspec.OperationContext) string { return "discoveredId" }
func (cannedBase) Description(opspec.OperationContext) string { return "discovered description" }
func (cannedBase) Tags(opspec.OperationContext) []string      { return []string{"discovered"} }
func (cannedBase) Parameters(opspec.OperationContext) []opspec.Parameter {
	return []opspec.Parameter{{Name: "id", In: opspec.InPath, Type: opspec.TypeString, Required: true}}
}

func chain(t *testing.T, exts ...opspec.Extension) *opspec.Layer {
	t.Helper()
	site := opspec.StaticSite(nil)
	var err error
	for _, e := range exts {
		site, err = e.Apply(site)
		if err != nil {
			t.Fatalf("unexpected apply error: %v", err)
		}
	}
	return site.Head()
}

func TestResolve_MergesFieldsAcrossLayers(t *testing.T) {
	head := chain(t,
		opspec.Extend(opspec.WithDescription("x")), // inner
		opspec.Extend(opspec.WithTags("a")),        // outer
	)
	op := opspec.OperationContext{Path: "/things", Method: "GET"}
	res, err := opspec.Resolver{}.Resolve(op, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got, want := res.Description, "x"; got != want {
		t.Fatalf("description = %q, want %q", got, want)
	}
	if len(res.Tags) != 1 || res.Tags[0] != "a" {
		t.Fatalf("tags = %v, want [a]", res.Tags)
	}
}

func TestResolve_OuterLayerWinsPerField(t *testing.T) {
	head := chain(t,
		opspec.Extend(opspec.WithDescription("first declared")),
		opspec.Extend(opspec.WithDescription("last declared")),
	)
	res, err := opspec.Resolver{}.Resolve(opspec.OperationContext{Path: "/t", Method: "GET"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Description != "last declared" {
		t.Fatalf("description = %q, want last declared layer to win", res.Description)
	}
}

func TestResolve_Purity(t *testing.T) {
	head := chain(t,
		opspec.Extend(opspec.WithTags("a"), opspec.WithOperationID("op")),
		opspec.Extend(opspec.WithDeprecated(true), opspec.WithMethods("GET")),
	)
	op := opspec.OperationContext{Path: "/things/{id}", Method: "GET", Version: "v2"}
	r := opspec.Resolver{Base: cannedBase{}}
	first, err := r.Resolve(op, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := r.Resolve(op, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolution is not idempotent (-first +second):\n%s", diff)
	}
}

func TestResolve_StrictScoping(t *testing.T) {
	// The only layer defining tags is out of scope; nothing may leak from it
	// even though neither an inner layer nor discovery defines tags.
	head := chain(t, opspec.Extend(opspec.WithTags("a"), opspec.WithMethods("GET")))
	res, err := opspec.Resolver{}.Resolve(opspec.OperationContext{Path: "/t", Method: "POST"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Tags != nil {
		t.Fatalf("tags = %v, want nil: out-of-scope layer must not be consulted", res.Tags)
	}
}

func TestResolve_VersionScoping(t *testing.T) {
	head := chain(t, opspec.Extend(opspec.WithDescription("v2 only"), opspec.WithVersions("v2")))
	r := opspec.Resolver{Base: cannedBase{}}

	res, err := r.Resolve(opspec.OperationContext{Path: "/t", Method: "GET", Version: "v2"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Description != "v2 only" {
		t.Fatalf("description = %q, want override for v2", res.Description)
	}

	res, err = r.Resolve(opspec.OperationContext{Path: "/t", Method: "GET", Version: "v1"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Description != "discovered description" {
		t.Fatalf("description = %q, want discovery for v1", res.Description)
	}
}

func TestResolve_ExcludeShortCircuits(t *testing.T) {
	head := chain(t,
		opspec.Extend(opspec.WithOperation(opspec.RawOperation{"summary": "raw"})), // inner
		opspec.Extend(opspec.WithExclude()),                                        // outer
	)
	res, err := opspec.Resolver{Base: cannedBase{}}.Resolve(opspec.OperationContext{Path: "/t", Method: "GET"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.Excluded {
		t.Fatalf("expected excluded result")
	}
	if res.Raw != nil || res.OperationID != "" {
		t.Fatalf("exclusion must short-circuit every other override, got %+v", res)
	}
}

func TestResolve_ScopedExcludeIsInert(t *testing.T) {
	head := chain(t,
		opspec.Extend(opspec.WithDescription("kept")),
		opspec.Extend(opspec.WithExclude(), opspec.WithMethods("DELETE")),
	)
	res, err := opspec.Resolver{}.Resolve(opspec.OperationContext{Path: "/t", Method: "GET"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Excluded {
		t.Fatalf("out-of-scope exclude must not apply")
	}
	if res.Description != "kept" {
		t.Fatalf("description = %q, want kept", res.Description)
	}
}

func TestResolve_RawReplacesEverything(t *testing.T) {
	head := chain(t,
		opspec.Extend(opspec.WithTags("inner"), opspec.WithDescription("inner")), // inner
		opspec.Extend(opspec.WithOperation(opspec.RawOperation{"summary": "handwritten"})),
	)
	res, err := opspec.Resolver{Base: cannedBase{}}.Resolve(opspec.OperationContext{Path: "/t", Method: "GET"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Raw == nil || res.Raw["summary"] != "handwritten" {
		t.Fatalf("raw = %v, want literal operation", res.Raw)
	}
	if res.OperationID != "" || res.Description != "" || res.Tags != nil {
		t.Fatalf("raw override must bypass field resolution and discovery, got %+v", res)
	}
}

func TestResolve_EmptyTagsIsMeaningful(t *testing.T) {
	head := chain(t, opspec.Extend(opspec.WithTags()))
	res, err := opspec.Resolver{Base: cannedBase{}}.Resolve(opspec.OperationContext{Path: "/t", Method: "GET"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Tags == nil || len(res.Tags) != 0 {
		t.Fatalf("tags = %#v, want explicitly empty list", res.Tags)
	}
}

func TestResolve_ParameterMerge(t *testing.T) {
	head := chain(t, opspec.Extend(opspec.WithParameters(
		opspec.Parameter{Name: "id", In: opspec.InPath, Type: opspec.TypeInteger, Required: true},
		opspec.Parameter{Name: "verbose", In: opspec.InQuery, Type: opspec.TypeBoolean},
	)))
	res, err := opspec.Resolver{Base: cannedBase{}}.Resolve(opspec.OperationContext{Path: "/things/{id}", Method: "GET"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.Parameters) != 2 {
		t.Fatalf("parameters = %v, want replacement plus addition", res.Parameters)
	}
	if res.Parameters[0].Name != "id" || res.Parameters[0].Type != opspec.TypeInteger {
		t.Fatalf("discovered id parameter was not replaced: %+v", res.Parameters[0])
	}
	if res.Parameters[1].Name != "verbose" {
		t.Fatalf("declared parameter was not appended: %+v", res.Parameters[1])
	}
}

func TestResolve_MethodScopeScenario(t *testing.T) {
	// Layer A (GET only, tags) stacked outside layer B (universal description).
	head := chain(t,
		opspec.Extend(opspec.WithDescription("legacy")),
		opspec.Extend(opspec.WithTags("read"), opspec.WithMethods("GET")),
	)
	res, err := opspec.Resolver{Base: cannedBase{}}.Resolve(opspec.OperationContext{Path: "/t", Method: "POST"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.Tags) != 1 || res.Tags[0] != "discovered" {
		t.Fatalf("tags = %v, want discovery because A is out of scope", res.Tags)
	}
	if res.Description != "legacy" {
		t.Fatalf("description = %q, want B's override", res.Description)
	}
}

func TestResolve_DiscriminatorFieldMissing(t *testing.T) {
	cat := opspec.NewShape("Cat", opspec.Field{Name: "kind", Type: opspec.TypeString, Required: true})
	dog := opspec.NewShape("Dog", opspec.Field{Name: "name", Type: opspec.TypeString})
	poly := opspec.NewPolymorphic("Pet", "kind",
		opspec.Variant{Label: "cat", Shape: cat},
		opspec.Variant{Label: "dog", Shape: dog},
	)
	head := chain(t, opspec.Extend(opspec.WithResponses(poly)))

	op := opspec.OperationContext{Path: "/pets", Method: "GET"}
	_, err := opspec.Resolver{}.Resolve(op, head)
	if err == nil {
		t.Fatalf("expected discriminator error")
	}
	iss, ok := opspec.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected a single issue, got %v", err)
	}
	if iss[0].Code != opspec.CodeDiscriminatorMissing {
		t.Fatalf("code = %q, want %q", iss[0].Code, opspec.CodeDiscriminatorMissing)
	}
	if iss[0].Params["variant"] != "dog" {
		t.Fatalf("issue must name the offending variant, got %v", iss[0].Params)
	}
	if iss[0].Path != "GET /pets" {
		t.Fatalf("issue must carry the operation identity, got %q", iss[0].Path)
	}
}

func TestResolve_PolymorphicPerStatus(t *testing.T) {
	cat := opspec.NewShape("Cat", opspec.Field{Name: "kind", Type: opspec.TypeString})
	poly := opspec.NewPolymorphic("PetResult", "kind", opspec.Variant{Label: "cat", Shape: cat})
	head := chain(t, opspec.Extend(opspec.WithResponses(opspec.StatusShapes{
		{Status: 200, Spec: poly},
		{Status: 404, Spec: opspec.SingleShape{Shape: opspec.NewShape("Error", opspec.Field{Name: "detail", Type: opspec.TypeString})}},
	})))
	res, err := opspec.Resolver{}.Resolve(opspec.OperationContext{Path: "/pets", Method: "GET"}, head)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	ss, ok := res.Responses.(opspec.StatusShapes)
	if !ok || len(ss) != 2 {
		t.Fatalf("responses = %#v, want two status entries", res.Responses)
	}
}
