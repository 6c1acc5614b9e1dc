package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// IntrospectionQuery is the standard full introspection query, nested deep
// enough for any realistic wrapping stack.
const IntrospectionQuery = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types { ...FullType }
    directives {
      name
      description
      locations
      args { ...InputValue }
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args { ...InputValue }
    type { ...TypeRef }
  }
  inputFields { ...InputValue }
  enumValues(includeDeprecated: true) {
    name
    description
  }
}

fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}`

type wireResponse struct {
	Data *struct {
		Schema *wireSchema `json:"__schema"`
	} `json:"data"`
	Schema *wireSchema  `json:"__schema"`
	Errors []wireError `json:"errors"`
}

type wireError struct {
	Message string `json:"message"`
}

type wireNamed struct {
	Name string `json:"name"`
}

type wireSchema struct {
	QueryType        *wireNamed      `json:"queryType"`
	MutationType     *wireNamed      `json:"mutationType"`
	SubscriptionType *wireNamed      `json:"subscriptionType"`
	Types            []wireType      `json:"types"`
	Directives       []wireDirective `json:"directives"`
}

type wireType struct {
	Kind        string          `json:"kind"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Fields      []wireField     `json:"fields"`
	InputFields []wireInput     `json:"inputFields"`
	EnumValues  []wireEnumValue `json:"enumValues"`
}

type wireField struct {
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Args        []wireInput `json:"args"`
	Type        wireTypeRef `json:"type"`
}

type wireInput struct {
	Name         string      `json:"name"`
	Description  *string     `json:"description"`
	Type         wireTypeRef `json:"type"`
	DefaultValue *string     `json:"defaultValue"`
}

type wireEnumValue struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type wireDirective struct {
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Locations   []string    `json:"locations"`
	Args        []wireInput `json:"args"`
}

type wireTypeRef struct {
	Kind   string       `json:"kind"`
	Name   *string      `json:"name"`
	OfType *wireTypeRef `json:"ofType"`
}

// DecodeIntrospection decodes an introspection result. Both the full GraphQL
// response ({"data": {"__schema": ...}}) and a bare {"__schema": ...} object
// are accepted.
func DecodeIntrospection(data []byte) (*Schema, error) {
	var resp wireResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode introspection: %v", ErrUnrecognizedSchema, err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("%w: introspection returned errors: %s", ErrUnrecognizedSchema, strings.Join(msgs, "; "))
	}

	ws := resp.Schema
	if resp.Data != nil && resp.Data.Schema != nil {
		ws = resp.Data.Schema
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: no __schema in introspection result", ErrUnrecognizedSchema)
	}

	s := &Schema{
		QueryType:        rootName(ws.QueryType),
		MutationType:     rootName(ws.MutationType),
		SubscriptionType: rootName(ws.SubscriptionType),
	}
	for _, wt := range ws.Types {
		t, err := wt.convert()
		if err != nil {
			return nil, err
		}
		s.Types = append(s.Types, t)
	}
	for _, wd := range ws.Directives {
		d := Directive{
			Name:        wd.Name,
			Description: deref(wd.Description),
			Locations:   wd.Locations,
		}
		for _, a := range wd.Args {
			iv, err := a.convert()
			if err != nil {
				return nil, fmt.Errorf("directive @%s: %w", wd.Name, err)
			}
			d.Args = append(d.Args, iv)
		}
		s.Directives = append(s.Directives, d)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (wt wireType) convert() (Type, error) {
	t := Type{
		Kind:        Kind(wt.Kind),
		Name:        wt.Name,
		Description: deref(wt.Description),
	}
	for _, wf := range wt.Fields {
		ref, err := wf.Type.convert()
		if err != nil {
			return Type{}, fmt.Errorf("%s.%s: %w", wt.Name, wf.Name, err)
		}
		f := Field{Name: wf.Name, Description: deref(wf.Description), Type: ref}
		for _, a := range wf.Args {
			iv, err := a.convert()
			if err != nil {
				return Type{}, fmt.Errorf("%s.%s(%s): %w", wt.Name, wf.Name, a.Name, err)
			}
			f.Args = append(f.Args, iv)
		}
		t.Fields = append(t.Fields, f)
	}
	for _, wi := range wt.InputFields {
		iv, err := wi.convert()
		if err != nil {
			return Type{}, fmt.Errorf("%s.%s: %w", wt.Name, wi.Name, err)
		}
		t.InputFields = append(t.InputFields, iv)
	}
	for _, ev := range wt.EnumValues {
		t.EnumValues = append(t.EnumValues, EnumValue{Name: ev.Name, Description: deref(ev.Description)})
	}
	return t, nil
}

func (wi wireInput) convert() (InputValue, error) {
	ref, err := wi.Type.convert()
	if err != nil {
		return InputValue{}, err
	}
	return InputValue{
		Name:         wi.Name,
		Description:  deref(wi.Description),
		Type:         ref,
		DefaultValue: deref(wi.DefaultValue),
	}, nil
}

// convert unwinds the ofType chain, which lists modifiers outermost first,
// into a TypeRef whose wrapping is innermost first.
func (r wireTypeRef) convert() (TypeRef, error) {
	var wrapping []Modifier
	cur := &r
	for cur != nil {
		switch cur.Kind {
		case "NON_NULL":
			wrapping = append(wrapping, NonNull)
		case "LIST":
			wrapping = append(wrapping, List)
		default:
			if cur.Name == nil || *cur.Name == "" {
				return TypeRef{}, fmt.Errorf("%w: type reference of kind %q has no name", ErrUnrecognizedSchema, cur.Kind)
			}
			slices.Reverse(wrapping)
			return TypeRef{Name: *cur.Name, Wrapping: wrapping}, nil
		}
		cur = cur.OfType
	}
	return TypeRef{}, fmt.Errorf("%w: type reference ends in a modifier", ErrUnrecognizedSchema)
}

func rootName(n *wireNamed) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Load reads a schema file. Files ending in .json are decoded as an
// introspection result, anything else is parsed as SDL.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DecodeIntrospection(data)
	}
	return ParseSDL(string(data))
}
