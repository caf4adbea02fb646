package opspec

// ParameterLocation is where a parameter travels in the request.
type ParameterLocation string

const (
	InQuery  ParameterLocation = "query"
	InPath   ParameterLocation = "path"
	InHeader ParameterLocation = "header"
	InCookie ParameterLocation = "cookie"
)

// Parameter describes one operation parameter. Layer-declared parameters are
// merged over the discovered ones: a parameter with the same name and location
// replaces, anything else is appended.
type Parameter struct {
	Name        string
	In          ParameterLocation
	Type        FieldType
	Format      string
	Required    bool
	Deprecated  bool
	Description string
	Enum        []any
}

// SecurityRequirement names a security scheme and the scopes it demands,
// mirroring the document-level security requirement object.
type SecurityRequirement map[string][]string

// mergeParameters overlays additions onto the discovered parameters. Same
// (name, location) replaces in place; new parameters keep declaration order.
func mergeParameters(discovered, additions []Parameter) []Parameter {
	if len(additions) == 0 {
		return discovered
	}
	out := make([]Parameter, len(discovered), len(discovered)+len(additions))
	copy(out, discovered)
	for _, add := range additions {
		replaced := false
		for i, p := range out {
			if p.Name == add.Name && p.In == add.In {
				out[i] = add
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, add)
		}
	}
	return out
}
