package opspec

import "strings"

// Scope restricts a Layer to a subset of HTTP methods and API versions. The
// zero value matches everything. Evaluation is a pure function of
// (scope, context); scoping is evaluated per resolution, never cached at
// attachment time, because one attachment site may serve multiple versions
// across separate passes.
type Scope struct {
	methods  map[string]struct{} // nil matches all
	versions map[string]struct{} // nil matches all
}

// ScopeAll returns the universal scope.
func ScopeAll() Scope { return Scope{} }

// NewScope builds a scope restricted to the given methods and versions. An
// empty or nil slice means "all". Methods are compared case-insensitively.
func NewScope(methods, versions []string) Scope {
	return Scope{methods: methodSet(methods), versions: stringSet(versions)}
}

// Matches reports whether the layer carrying this scope applies to op.
func (s Scope) Matches(op OperationContext) bool {
	if s.methods != nil {
		if _, ok := s.methods[strings.ToUpper(op.Method)]; !ok {
			return false
		}
	}
	if s.versions != nil {
		if _, ok := s.versions[op.Version]; !ok {
			return false
		}
	}
	return true
}

func methodSet(vs []string) map[string]struct{} {
	if len(vs) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		m[strings.ToUpper(v)] = struct{}{}
	}
	return m
}

func stringSet(vs []string) map[string]struct{} {
	if len(vs) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		m[v] = struct{}{}
	}
	return m
}
