package opspec_test

import (
	"context"
	"errors"
	"testing"

	opspec "github.com/phb-teleclinic/opspec"
)

type staticRoutes []opspec.Route

func (r staticRoutes) Routes() []opspec.Route { return r }

func TestGenerator_CollectsPerOperationErrors(t *testing.T) {
	badPoly := opspec.NewPolymorphic("Broken", "kind",
		opspec.Variant{Label: "a", Shape: opspec.NewShape("A", opspec.Field{Name: "other", Type: opspec.TypeString})},
	)
	broken := opspec.Extend(opspec.WithResponses(badPoly)).MustApply(opspec.StaticSite(nil))
	fine := opspec.Extend(opspec.WithTags("ok")).MustApply(opspec.StaticSite(nil))

	g := &opspec.Generator{
		Routes: staticRoutes{
			{Path: "/ok", Method: "GET", Site: fine},
			{Path: "/broken", Method: "GET", Site: broken},
			{Path: "/plain", Method: "POST"},
		},
		Workers: 2,
	}
	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Operations) != 2 {
		t.Fatalf("operations = %d, want the two resolvable routes", len(res.Operations))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	if res.Errors[0].Path != "/broken" {
		t.Fatalf("error attributed to %q, want /broken", res.Errors[0].Path)
	}
	iss, ok := opspec.AsIssues(res.Errors[0].Err)
	if !ok || iss[0].Code != opspec.CodeDiscriminatorMissing {
		t.Fatalf("err = %v, want discriminator issue", res.Errors[0].Err)
	}
}

func TestGenerator_VersionFailureDoesNotAbortPass(t *testing.T) {
	g := &opspec.Generator{
		Routes: staticRoutes{
			{Path: "/a", Method: "GET"},
			{Path: "/b", Method: "GET"},
		},
		Versions: opspec.VersionResolverFunc(func(_ context.Context, rt opspec.Route) (string, error) {
			if rt.Path == "/b" {
				return "", errors.New("negotiation failed")
			}
			return "v1", nil
		}),
	}
	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Operations) != 1 || res.Operations[0].Context.Version != "v1" {
		t.Fatalf("operations = %+v, want /a resolved at v1", res.Operations)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want one version failure", res.Errors)
	}
	iss, ok := opspec.AsIssues(res.Errors[0].Err)
	if !ok || iss[0].Code != opspec.CodeVersionResolution {
		t.Fatalf("err = %v, want %s issue", res.Errors[0].Err, opspec.CodeVersionResolution)
	}
}

func TestGenerator_ExcludedOperationsAreMarkedNotDropped(t *testing.T) {
	hidden := opspec.Extend(opspec.WithExclude()).MustApply(opspec.StaticSite(nil))
	g := &opspec.Generator{
		Routes: staticRoutes{{Path: "/secret", Method: "GET", Site: hidden}},
	}
	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Operations) != 1 || !res.Operations[0].Excluded {
		t.Fatalf("operations = %+v, want one excluded marker", res.Operations)
	}
}

func TestGenerator_RouteOrderIsPreserved(t *testing.T) {
	var routes staticRoutes
	paths := []string{"/a", "/b", "/c", "/d", "/e", "/f", "/g", "/h"}
	for _, p := range paths {
		routes = append(routes, opspec.Route{Path: p, Method: "GET"})
	}
	g := &opspec.Generator{Routes: routes, Workers: 4}
	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Operations) != len(paths) {
		t.Fatalf("operations = %d, want %d", len(res.Operations), len(paths))
	}
	for i, p := range paths {
		if res.Operations[i].Context.Path != p {
			t.Fatalf("operation %d = %q, want %q despite concurrent resolution", i, res.Operations[i].Context.Path, p)
		}
	}
}

func TestGenerator_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := &opspec.Generator{Routes: staticRoutes{{Path: "/a", Method: "GET"}}}
	if _, err := g.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
