// Package openapi renders resolved operation descriptions into an OpenAPI 3
// document: one path item per operation, one shared schema component per
// shape, and a discriminated union (oneOf + discriminator mapping) per
// polymorphic payload.
package openapi

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	opspec "github.com/phb-teleclinic/opspec"
)

const refPrefix = "#/components/schemas/"

// Renderer accumulates resolved operations into a Document. It is not safe
// for concurrent use; feed it the collected Result of a pass.
type Renderer struct {
	doc Document
}

// NewRenderer starts an empty document.
func NewRenderer(info Info) *Renderer {
	return &Renderer{doc: Document{
		OpenAPI: "3.0.3",
		Info:    info,
		Paths:   map[string]PathItem{},
	}}
}

// Add renders one resolved operation into the document. Excluded operations
// are skipped; raw overrides are translated literally.
func (r *Renderer) Add(res opspec.ResolvedOperation) error {
	if res.Excluded {
		return nil
	}
	method := strings.ToLower(res.Context.Method)
	item := r.doc.Paths[res.Context.Path]
	if item == nil {
		item = PathItem{}
		r.doc.Paths[res.Context.Path] = item
	}
	if res.Raw != nil {
		item[method] = map[string]any(res.Raw)
		return nil
	}

	op := &Operation{
		OperationID: res.OperationID,
		Description: res.Description,
		Tags:        res.Tags,
		Deprecated:  res.Deprecated,
		Responses:   map[string]*Response{},
	}
	for _, p := range res.Parameters {
		op.Parameters = append(op.Parameters, Parameter{
			Name:        p.Name,
			In:          string(p.In),
			Required:    p.Required,
			Deprecated:  p.Deprecated,
			Description: p.Description,
			Schema:      &Schema{Type: string(p.Type), Format: p.Format, Enum: p.Enum},
		})
	}
	for _, req := range res.Auth {
		op.Security = append(op.Security, map[string][]string(req))
	}

	if res.Request != nil {
		s, err := r.payloadSchema(res.Context, res.Request)
		if err != nil {
			return err
		}
		op.RequestBody = &RequestBody{
			Required: true,
			Content:  map[string]MediaType{"application/json": {Schema: s}},
		}
	}

	if err := r.addResponses(res.Context, op, res.Responses); err != nil {
		return err
	}
	if len(op.Responses) == 0 {
		op.Responses["200"] = &Response{Description: ""}
	}

	item[method] = op
	return nil
}

// AddResult renders every non-excluded operation of a pass result.
func (r *Renderer) AddResult(res *opspec.Result) error {
	for _, op := range res.Operations {
		if err := r.Add(op); err != nil {
			return err
		}
	}
	return nil
}

// Document returns the accumulated document.
func (r *Renderer) Document() *Document { return &r.doc }

// EncodeJSON marshals the document as indented JSON.
func (r *Renderer) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(&r.doc, "", "  ")
}

// EncodeYAML marshals the document as YAML.
func (r *Renderer) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(&r.doc)
}

func (r *Renderer) addResponses(op opspec.OperationContext, out *Operation, spec opspec.PayloadSpec) error {
	switch v := spec.(type) {
	case nil:
		return nil
	case opspec.StatusShapes:
		for _, st := range v {
			s, err := r.payloadSchema(op, st.Spec)
			if err != nil {
				return err
			}
			out.Responses[strconv.Itoa(st.Status)] = &Response{
				Description: "",
				Content:     map[string]MediaType{"application/json": {Schema: s}},
			}
		}
		return nil
	default:
		s, err := r.payloadSchema(op, spec)
		if err != nil {
			return err
		}
		out.Responses["200"] = &Response{
			Description: "",
			Content:     map[string]MediaType{"application/json": {Schema: s}},
		}
		return nil
	}
}

// payloadSchema converts one payload slot to a schema reference, registering
// components as a side effect.
func (r *Renderer) payloadSchema(op opspec.OperationContext, spec opspec.PayloadSpec) (*Schema, error) {
	switch v := spec.(type) {
	case opspec.SingleShape:
		ref, err := r.component(op, v.Shape)
		if err != nil {
			return nil, err
		}
		if v.Many {
			return &Schema{Type: "array", Items: ref}, nil
		}
		return ref, nil
	case *opspec.Polymorphic:
		return r.polymorphicComponent(op, v)
	case opspec.StatusShapes:
		return nil, opspec.Issues{opspec.Issue{
			Path:    op.Identity(),
			Code:    opspec.CodeUnsupportedPayload,
			Message: "status-keyed payloads cannot nest inside another payload slot",
		}}
	default:
		return nil, opspec.Issues{opspec.Issue{
			Path:    op.Identity(),
			Code:    opspec.CodeUnsupportedPayload,
			Message: "unknown payload spec",
		}}
	}
}

// component registers the shape as a named component and returns a $ref to it.
func (r *Renderer) component(op opspec.OperationContext, shape opspec.Shape) (*Schema, error) {
	if shape == nil {
		return nil, opspec.Issues{opspec.Issue{
			Path:    op.Identity(),
			Code:    opspec.CodeMissingShape,
			Message: "payload slot has no shape",
		}}
	}
	name := shape.ComponentName()
	if r.doc.Components == nil {
		r.doc.Components = &Components{Schemas: map[string]*Schema{}}
	}
	if _, done := r.doc.Components.Schemas[name]; !done {
		// Reserve the slot first so self-referential shapes terminate.
		r.doc.Components.Schemas[name] = &Schema{}
		s, err := r.shapeSchema(op, shape)
		if err != nil {
			delete(r.doc.Components.Schemas, name)
			return nil, err
		}
		r.doc.Components.Schemas[name] = s
	}
	return &Schema{Ref: refPrefix + name}, nil
}

// polymorphicComponent emits one component per variant plus a named union
// component whose discriminator mapping points at the variant refs.
func (r *Renderer) polymorphicComponent(op opspec.OperationContext, p *opspec.Polymorphic) (*Schema, error) {
	union := &Schema{
		Discriminator: &Discriminator{
			PropertyName: p.DiscriminatorField(),
			Mapping:      map[string]string{},
		},
	}
	for _, v := range p.Variants() {
		ref, err := r.component(op, v.Shape)
		if err != nil {
			return nil, err
		}
		union.OneOf = append(union.OneOf, ref)
		union.Discriminator.Mapping[v.Label] = ref.Ref
	}
	if r.doc.Components == nil {
		r.doc.Components = &Components{Schemas: map[string]*Schema{}}
	}
	r.doc.Components.Schemas[p.ComponentName()] = union
	return &Schema{Ref: refPrefix + p.ComponentName()}, nil
}

func (r *Renderer) shapeSchema(op opspec.OperationContext, shape opspec.Shape) (*Schema, error) {
	out := &Schema{Type: "object", Properties: map[string]*Schema{}}
	for _, f := range shape.Fields() {
		fs, err := r.fieldSchema(op, f)
		if err != nil {
			return nil, err
		}
		out.Properties[f.Name] = fs
		if f.Required {
			out.Required = append(out.Required, f.Name)
		}
	}
	return out, nil
}

func (r *Renderer) fieldSchema(op opspec.OperationContext, f opspec.Field) (*Schema, error) {
	if f.Ref != nil {
		return r.component(op, f.Ref)
	}
	s := &Schema{
		Type:        string(f.Type),
		Format:      f.Format,
		Description: f.Description,
		Enum:        f.Enum,
	}
	if f.Type == opspec.TypeArray && f.Elem != nil {
		items, err := r.fieldSchema(op, *f.Elem)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	return s, nil
}
