// Package purescript is the intermediate type model for generated PureScript
// modules: type expressions, declarations, imports and the module printer.
package purescript

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TypeExpr is a PureScript type expression. It is one of *Named, *Function
// or *Record.
type TypeExpr interface {
	// format renders the expression. nested is true when the expression is an
	// argument of another expression and may need parentheses.
	format(nested bool) string
	typeVars(acc []string) []string
}

// Named is a type constructor applied to zero or more arguments, e.g.
// `Maybe (Array Int)`. A Named with no arguments and a lowercase name is a
// type variable.
type Named struct {
	Name string
	Args []TypeExpr
}

// Function is a function type `a -> b -> r`.
type Function struct {
	Params []TypeExpr
	Return TypeExpr
}

// Record is a closed structural record type `{ a :: A, b :: B }`.
type Record struct {
	Fields []Field
}

// Field is one labelled entry of a Record.
type Field struct {
	Name string
	Type TypeExpr
}

// Type returns the named type name applied to args.
func Type(name string, args ...TypeExpr) *Named {
	return &Named{Name: name, Args: args}
}

// Symbol returns a type-level string literal such as `"users"`.
func Symbol(s string) *Named {
	return &Named{Name: `"` + s + `"`}
}

// Func returns a function type from params to ret.
func Func(params []TypeExpr, ret TypeExpr) *Function {
	return &Function{Params: params, Return: ret}
}

// Print renders expr as it appears at the top level of a declaration.
func Print(expr TypeExpr) string {
	if expr == nil {
		return ""
	}
	return expr.format(false)
}

// TypeVars returns every type variable referenced by expr, in order of first
// appearance.
func TypeVars(expr TypeExpr) []string {
	if expr == nil {
		return nil
	}
	vars := expr.typeVars(nil)
	seen := make(map[string]bool, len(vars))
	out := vars[:0]
	for _, v := range vars {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (n *Named) format(nested bool) string {
	if len(n.Args) == 0 {
		return n.Name
	}
	parts := make([]string, 0, len(n.Args)+1)
	parts = append(parts, n.Name)
	for _, arg := range n.Args {
		parts = append(parts, arg.format(true))
	}
	s := strings.Join(parts, " ")
	if nested {
		return "(" + s + ")"
	}
	return s
}

func (n *Named) typeVars(acc []string) []string {
	if isTypeVar(n.Name) {
		acc = append(acc, n.Name)
	}
	for _, arg := range n.Args {
		acc = arg.typeVars(acc)
	}
	return acc
}

func (f *Function) format(nested bool) string {
	parts := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		// Arrows associate to the right, only a function parameter needs
		// parentheses.
		_, isFunc := p.(*Function)
		parts = append(parts, p.format(isFunc))
	}
	parts = append(parts, f.Return.format(false))
	s := strings.Join(parts, " -> ")
	if nested {
		return "(" + s + ")"
	}
	return s
}

func (f *Function) typeVars(acc []string) []string {
	for _, p := range f.Params {
		acc = p.typeVars(acc)
	}
	return f.Return.typeVars(acc)
}

func (r *Record) format(bool) string {
	switch len(r.Fields) {
	case 0:
		return "{}"
	case 1:
		return "{ " + r.Fields[0].String() + " }"
	}
	lines := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		lines[i] = f.String()
	}
	return "{ " + strings.Join(lines, "\n  , ") + "\n  }"
}

func (r *Record) typeVars(acc []string) []string {
	for _, f := range r.Fields {
		acc = f.Type.typeVars(acc)
	}
	return acc
}

// String renders the field as `label :: Type`.
func (f Field) String() string {
	return Label(f.Name) + " :: " + Print(f.Type)
}

var plainLabel = regexp.MustCompile(`^[a-z_][A-Za-z0-9_']*$`)

// Label renders a record label, quoting it when it is not a plain lowercase
// identifier.
func Label(name string) string {
	if plainLabel.MatchString(name) {
		return name
	}
	return `"` + name + `"`
}

func isTypeVar(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLower(r)
}
