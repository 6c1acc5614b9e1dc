package purescript

import (
	"fmt"
	"slices"
	"strings"
)

// TypeDecl is a `type` alias or a `newtype` declaration.
type TypeDecl struct {
	Name    string
	Params  []string
	Body    TypeExpr
	Newtype bool
}

// NewTypeDecl validates that every type variable used in body appears in
// params.
func NewTypeDecl(name string, params []string, body TypeExpr) (*TypeDecl, error) {
	for _, v := range TypeVars(body) {
		if !slices.Contains(params, v) {
			return nil, fmt.Errorf("%w: type %s uses type variable %q that is not in its head", ErrInvariant, name, v)
		}
	}
	return &TypeDecl{Name: name, Params: params, Body: body}, nil
}

// NewNewtype is NewTypeDecl for a newtype whose constructor shares its name.
func NewNewtype(name string, params []string, body TypeExpr) (*TypeDecl, error) {
	d, err := NewTypeDecl(name, params, body)
	if err != nil {
		return nil, err
	}
	d.Newtype = true
	return d, nil
}

func (d *TypeDecl) String() string {
	head := d.Name
	if len(d.Params) > 0 {
		head += " " + strings.Join(d.Params, " ")
	}
	if d.Newtype {
		return fmt.Sprintf("newtype %s = %s\n  %s", head, d.Name, Print(d.Body))
	}
	return fmt.Sprintf("type %s = %s", head, Print(d.Body))
}

// EnumDecl is a sum type of nullary constructors. Values are the
// constructor identifiers, Originals the source strings they stand for.
type EnumDecl struct {
	Name      string
	Values    []string
	Originals []string
}

// NewEnumDecl requires one original per value and at least one value.
func NewEnumDecl(name string, values, originals []string) (*EnumDecl, error) {
	if len(values) != len(originals) {
		return nil, fmt.Errorf("%w: enum %s has %d values but %d original values", ErrInvariant, name, len(values), len(originals))
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: enum %s has no values", ErrInvariant, name)
	}
	return &EnumDecl{
		Name:      name,
		Values:    slices.Clone(values),
		Originals: slices.Clone(originals),
	}, nil
}

func (e *EnumDecl) String() string {
	return fmt.Sprintf("data %s\n  = %s", e.Name, strings.Join(e.Values, "\n  | "))
}

// Variant is an open sum of tags, `Variant ( "A" :: Unit, ... )`, used for
// enums that stay local to one schema module.
type Variant struct {
	Name string
	Tags []string
}

func (v *Variant) String() string {
	rows := make([]string, len(v.Tags))
	for i, tag := range v.Tags {
		rows[i] = fmt.Sprintf("%q :: Unit", tag)
	}
	return fmt.Sprintf("type %s = Variant\n  ( %s\n  )", v.Name, strings.Join(rows, "\n  , "))
}

// Instance is a derived type class instance, `derive instance Class Type args`.
type Instance struct {
	Class string
	Type  string
	Args  []string
}

// DeriveNewtype returns the Newtype instance for a newtype declaration.
func DeriveNewtype(typeName string) *Instance {
	return &Instance{Class: "Newtype", Type: typeName, Args: []string{"_"}}
}

func (i *Instance) String() string {
	return strings.TrimSpace(fmt.Sprintf("derive instance %s %s %s", i.Class, i.Type, strings.Join(i.Args, " ")))
}
