package purescript

import (
	"fmt"
	"slices"
	"strings"
)

// RecordBuilder accumulates labelled fields into a Record. Fields are checked
// as they are added, so a builder never holds an invalid record.
type RecordBuilder struct {
	name   string
	params []string
	fields []Field
}

// NewRecord creates a builder for a record type alias called name with the
// given declared type parameters.
func NewRecord(name string, params ...string) *RecordBuilder {
	return &RecordBuilder{name: name, params: params}
}

// Name returns the alias name used when the record is printed on its own.
func (b *RecordBuilder) Name() string {
	return b.name
}

// Add appends a field. It fails with ErrInvariant when the label is already
// present or when t references a type variable the builder does not declare.
func (b *RecordBuilder) Add(name string, t TypeExpr) error {
	if b.Has(name) {
		return fmt.Errorf("%w: field %q already exists in record %s", ErrInvariant, name, b.name)
	}
	for _, v := range TypeVars(t) {
		if !slices.Contains(b.params, v) {
			return fmt.Errorf("%w: field %q of record %s uses type variable %q that is not declared", ErrInvariant, name, b.name, v)
		}
	}
	b.fields = append(b.fields, Field{Name: name, Type: t})
	return nil
}

// Has reports whether a field labelled name was added.
func (b *RecordBuilder) Has(name string) bool {
	for _, f := range b.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Len returns the number of fields.
func (b *RecordBuilder) Len() int {
	return len(b.fields)
}

// Record returns the structural record built so far.
func (b *RecordBuilder) Record() *Record {
	return &Record{Fields: slices.Clone(b.fields)}
}

// String renders the record as a type alias declaration.
func (b *RecordBuilder) String() string {
	head := b.name
	if len(b.params) > 0 {
		head += " " + strings.Join(b.params, " ")
	}
	switch len(b.fields) {
	case 0, 1:
		return "type " + head + " = " + Print(b.Record())
	}
	return "type " + head + " =\n  " + Print(b.Record())
}
