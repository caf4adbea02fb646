package opspec_test

import (
	"testing"

	opspec "github.com/phb-teleclinic/opspec"
)

func TestScope_Matches(t *testing.T) {
	op := opspec.OperationContext{Path: "/t", Method: "GET", Version: "v1"}

	if !opspec.ScopeAll().Matches(op) {
		t.Fatalf("universal scope must match everything")
	}
	if !opspec.NewScope(nil, nil).Matches(op) {
		t.Fatalf("nil sets mean all")
	}
	if !opspec.NewScope([]string{"get"}, nil).Matches(op) {
		t.Fatalf("method comparison must be case-insensitive")
	}
	if opspec.NewScope([]string{"POST"}, nil).Matches(op) {
		t.Fatalf("method out of scope")
	}
	if !opspec.NewScope(nil, []string{"v1", "v2"}).Matches(op) {
		t.Fatalf("version in scope")
	}
	if opspec.NewScope(nil, []string{"v2"}).Matches(op) {
		t.Fatalf("version out of scope")
	}
	if opspec.NewScope([]string{"GET"}, []string{"v2"}).Matches(op) {
		t.Fatalf("both restrictions must hold")
	}
}

func TestScope_EvaluatedPerResolution(t *testing.T) {
	// One attachment site serves multiple versions across passes.
	head := chainForScope(t)
	r := opspec.Resolver{}
	for _, tc := range []struct {
		version string
		want    string
	}{
		{"v1", ""},
		{"v2", "second edition"},
		{"v1", ""},
	} {
		res, err := r.Resolve(opspec.OperationContext{Path: "/t", Method: "GET", Version: tc.version}, head)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if res.Description != tc.want {
			t.Fatalf("version %s: description = %q, want %q", tc.version, res.Description, tc.want)
		}
	}
}

func chainForScope(t *testing.T) *opspec.Layer {
	t.Helper()
	site, err := opspec.Extend(
		opspec.WithDescription("second edition"),
		opspec.WithVersions("v2"),
	).Apply(opspec.StaticSite(nil))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return site.Head()
}
