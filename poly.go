package opspec

// Variant is one alternative of a Polymorphic payload, keyed by the
// discriminator value that selects it.
type Variant struct {
	Label string
	Shape Shape
}

// Polymorphic declares a named discriminated union: a payload that conforms to
// one of several alternative shapes, distinguished by the value of a
// discriminator field. It is not a Layer; it is a value placed into a request
// or response slot (by an override or by base introspection) and consumed by
// the renderer as a oneOf with a discriminator mapping.
//
// Every variant shape must itself expose a field named after the discriminator
// field. Because shapes may be forward-declared, the invariant is checked at
// resolution time, not at construction.
type Polymorphic struct {
	name          string
	discriminator string
	variants      []Variant
}

// NewPolymorphic declares a discriminated union named name whose variants are
// told apart by discriminatorField. Variant order is preserved in the rendered
// document.
func NewPolymorphic(name, discriminatorField string, variants ...Variant) *Polymorphic {
	return &Polymorphic{
		name:          name,
		discriminator: discriminatorField,
		variants:      variants,
	}
}

func (p *Polymorphic) ComponentName() string      { return p.name }
func (p *Polymorphic) DiscriminatorField() string { return p.discriminator }

// Variants returns the declared variants in order. The returned slice is a
// copy; the descriptor stays immutable.
func (p *Polymorphic) Variants() []Variant {
	out := make([]Variant, len(p.variants))
	copy(out, p.variants)
	return out
}

func (*Polymorphic) isPayloadSpec() {}

// check verifies the discriminator invariant against every variant, reporting
// the operation identity and each offending variant label.
func (p *Polymorphic) check(op OperationContext) error {
	var iss Issues
	for _, v := range p.variants {
		if HasField(v.Shape, p.discriminator) {
			continue
		}
		iss = AppendIssues(iss, Issue{
			Path:    op.Identity(),
			Code:    CodeDiscriminatorMissing,
			Message: "variant lacks discriminator field",
			Hint:    "variant '" + v.Label + "' of '" + p.name + "' has no field '" + p.discriminator + "'",
			Params:  map[string]any{"variant": v.Label, "field": p.discriminator},
		})
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}
