package codegen

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	ps "github.com/okra-platform/gqlpurs/internal/codegen/purescript"
	"github.com/okra-platform/gqlpurs/internal/schema"
)

const (
	// Sentinel is the single value the backend gives an enum without values
	Sentinel = "_PLACEHOLDER"
	// Placeholder replaces the sentinel in generated code
	Placeholder = "ENUM_PLACEHOLDER"
)

// ErrSharedEnumConflict is returned when two roles produce different
// modules for the same shared enum.
var ErrSharedEnumConflict = errors.New("shared enum differs between roles")

var (
	importUnit    = ps.NewImport("prelude", "Prelude", "Unit")
	importVariant = ps.NewImport("variant", "Data.Variant", "Variant")
)

// SharedEnums collects the standalone enum modules of a run. Every role
// adds the enums it sees; each module is kept once.
type SharedEnums struct {
	mu      sync.Mutex
	modules map[string]*ps.Module
}

// NewSharedEnums creates an empty registry
func NewSharedEnums() *SharedEnums {
	return &SharedEnums{modules: make(map[string]*ps.Module)}
}

// add registers m. A module already registered under the same name must
// print identically, so the result never depends on which role came first.
func (s *SharedEnums) add(m *ps.Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.modules[m.Name]
	if !ok {
		s.modules[m.Name] = m
		return nil
	}
	if prev.String() != m.String() {
		return fmt.Errorf("%w: %s", ErrSharedEnumConflict, m.Name)
	}
	return nil
}

// Modules returns the collected modules sorted by module name
func (s *SharedEnums) Modules() []*ps.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	mods := make([]*ps.Module, 0, len(s.modules))
	for _, m := range s.modules {
		mods = append(mods, m)
	}
	slices.SortFunc(mods, func(a, b *ps.Module) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return mods
}

// Len returns the number of collected modules
func (s *SharedEnums) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.modules)
}

// IsShared reports whether an enum's PureScript name ends with one of the
// shared suffixes. Routing depends on the name only.
func IsShared(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// enumValues returns constructor names and the values they stand for. An
// enum holding only the sentinel, or nothing, gets the placeholder alone.
func enumValues(t schema.Type) (values, originals []string) {
	if len(t.EnumValues) == 0 || (len(t.EnumValues) == 1 && t.EnumValues[0].Name == Sentinel) {
		return []string{Placeholder}, []string{Placeholder}
	}
	values = make([]string, len(t.EnumValues))
	originals = make([]string, len(t.EnumValues))
	for i, v := range t.EnumValues {
		values[i] = ps.FirstUpper(v.Name)
		originals[i] = v.Name
	}
	return values, originals
}

// enumResult is where an enum went: either an import of its shared module or
// a variant declared in the role module.
type enumResult struct {
	Variant *ps.Variant
	Imports []ps.Import
}

// routeEnum emits a shared module for t, or returns its inline variant.
func (g *Generator) routeEnum(t schema.Type) (enumResult, error) {
	name := ps.ProperName(t.Name)
	values, originals := enumValues(t)

	if !IsShared(name, g.cfg.SharedEnumSuffixes) {
		return enumResult{
			Variant: &ps.Variant{Name: name, Tags: originals},
			Imports: []ps.Import{importUnit, importVariant},
		}, nil
	}

	decl, err := ps.NewEnumDecl(name, values, originals)
	if err != nil {
		return enumResult{}, err
	}
	lib := g.cfg.Workspace.SharedGraphQLEnumsLib
	module := ps.ProperName(lib) + "." + name
	if err := g.shared.add(ps.EnumModule(module, decl, ps.SharedEnumCapabilities)); err != nil {
		return enumResult{}, err
	}
	return enumResult{Imports: []ps.Import{ps.NewImport(lib, module, name)}}, nil
}
