package schema

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedSchema is returned when a schema cannot be used for
// generation, e.g. it has no query root.
var ErrUnrecognizedSchema = errors.New("unrecognized schema")

// Kind is the introspection kind of a named type
type Kind string

const (
	KindObject      Kind = "OBJECT"
	KindScalar      Kind = "SCALAR"
	KindEnum        Kind = "ENUM"
	KindInputObject Kind = "INPUT_OBJECT"
	KindInterface   Kind = "INTERFACE"
	KindUnion       Kind = "UNION"
)

// Modifier is one layer of a field's wrapping stack
type Modifier int

const (
	List Modifier = iota + 1
	NonNull
)

func (m Modifier) String() string {
	switch m {
	case List:
		return "List"
	case NonNull:
		return "NonNull"
	}
	return fmt.Sprintf("Modifier(%d)", int(m))
}

// TypeRef is a reference to a named type with its wrapping stack. Wrapping is
// ordered innermost (closest to Name) first, so `[User!]!` is
// {NonNull, List, NonNull}.
type TypeRef struct {
	Name     string
	Wrapping []Modifier
}

// String prints the reference in GraphQL notation.
func (r TypeRef) String() string {
	s := r.Name
	for _, m := range r.Wrapping {
		switch m {
		case NonNull:
			s += "!"
		case List:
			s = "[" + s + "]"
		}
	}
	return s
}

// Schema is the role-independent view of an introspected GraphQL API
type Schema struct {
	QueryType        string      `json:"queryType"`
	MutationType     string      `json:"mutationType,omitempty"`
	SubscriptionType string      `json:"subscriptionType,omitempty"`
	Types            []Type      `json:"types"`
	Directives       []Directive `json:"directives"`
}

// Type is a named type of any kind. Only the slices matching Kind are set.
type Type struct {
	Kind        Kind         `json:"kind"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Fields      []Field      `json:"fields,omitempty"`
	InputFields []InputValue `json:"inputFields,omitempty"`
	EnumValues  []EnumValue  `json:"enumValues,omitempty"`
}

// Field is an object field with its arguments
type Field struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Args        []InputValue `json:"args,omitempty"`
	Type        TypeRef      `json:"type"`
}

// InputValue is a field argument, an input object field or a directive argument
type InputValue struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Type         TypeRef `json:"type"`
	DefaultValue string  `json:"defaultValue,omitempty"`
}

// EnumValue represents a single value inside an enum
type EnumValue struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Directive is a directive definition
type Directive struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Args        []InputValue `json:"args,omitempty"`
	Locations   []string     `json:"locations"`
}

// Lookup finds a named type
func (s *Schema) Lookup(name string) (*Type, bool) {
	for i := range s.Types {
		if s.Types[i].Name == name {
			return &s.Types[i], true
		}
	}
	return nil, false
}

// Validate checks that the schema has a query root that resolves to an
// object type, and that declared mutation and subscription roots exist.
func (s *Schema) Validate() error {
	if s.QueryType == "" {
		return fmt.Errorf("%w: no query root type", ErrUnrecognizedSchema)
	}
	roots := []struct{ slot, name string }{
		{"query", s.QueryType},
		{"mutation", s.MutationType},
		{"subscription", s.SubscriptionType},
	}
	for _, root := range roots {
		if root.name == "" {
			continue
		}
		t, ok := s.Lookup(root.name)
		if !ok {
			return fmt.Errorf("%w: %s root %q is not a type in the schema", ErrUnrecognizedSchema, root.slot, root.name)
		}
		if t.Kind != KindObject {
			return fmt.Errorf("%w: %s root %q is a %s, not an object", ErrUnrecognizedSchema, root.slot, root.name, t.Kind)
		}
	}
	return nil
}
