package opspec

// Package opspec provides:
//
// - Override resolution for routed API operation descriptions: stacked,
//   scope-restricted Layers composed with a base introspection result
// - A declarative Polymorphic descriptor for discriminated-union payloads
// - Field/shape annotations consumed by the base introspection engine
// - A concurrent generation pass that resolves every routed operation and
//   collects per-operation errors without aborting the pass
//
// Design policy:
// - Keep only public APIs in the root package; rendering lives under openapi/
//   and the default discovery engine under introspect/.
// - Layers and descriptors are immutable after construction; attachment happens
//   at load time, resolution only reads.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	site, err := opspec.Extend(
//		opspec.WithTags("pets"),
//		opspec.WithMethods("GET"),
//	).Apply(opspec.SiteForFunc(listPets))
//
//	res, err := opspec.Resolver{Base: base}.Resolve(opCtx, site.Head())
//
