package opspec

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Result carries everything one generation pass produced: the resolved
// descriptions (route order preserved, excluded operations included so the
// renderer can skip them) and the per-operation errors collected along the
// way. Errors never abort the pass; the caller decides what a non-empty error
// list means.
type Result struct {
	Operations []ResolvedOperation
	Errors     []OperationError
}

// Generator runs one description-generation pass over every routed operation.
// Operations are independent, so resolution fans out over a bounded worker
// pool; the only error that stops the pass is cancellation of ctx.
type Generator struct {
	Routes   RouteLister
	Versions VersionResolver // nil documents an unversioned API
	Base     Introspector
	// Workers bounds the resolution pool; <= 0 uses GOMAXPROCS.
	Workers int
}

// Run resolves every route and returns the collected result. A version
// resolution failure or a resolution error is recorded for that one operation
// and the pass continues best-effort.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	routes := g.Routes.Routes()
	resolved := make([]*ResolvedOperation, len(routes))
	failed := make([]*OperationError, len(routes))

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, rt := range routes {
		i, rt := i, rt
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var version string
			if g.Versions != nil {
				v, err := g.Versions.ResolveVersion(ctx, rt)
				if err != nil {
					failed[i] = &OperationError{Path: rt.Path, Method: rt.Method, Err: Issues{Issue{
						Path:    rt.Method + " " + rt.Path,
						Code:    CodeVersionResolution,
						Message: "version negotiation failed",
						Cause:   err,
					}}}
					return nil
				}
				version = v
			}
			op := OperationContext{Path: rt.Path, Method: rt.Method, Version: version}
			var head *Layer
			if rt.Site != nil {
				head = rt.Site.Head()
			}
			res, err := Resolver{Base: g.Base}.Resolve(op, head)
			if err != nil {
				failed[i] = &OperationError{Path: rt.Path, Method: rt.Method, Err: err}
				return nil
			}
			resolved[i] = &res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &Result{}
	for i := range routes {
		if resolved[i] != nil {
			out.Operations = append(out.Operations, *resolved[i])
		}
		if failed[i] != nil {
			out.Errors = append(out.Errors, *failed[i])
		}
	}
	return out, nil
}
