package purescript

import (
	"cmp"
	"slices"
	"strings"
)

// Module is a complete PureScript source module. String prints the sections
// in a fixed order: header, imports, records, type declarations, data
// declarations, variants, derived instances, then free-form blocks. Empty
// sections are left out.
type Module struct {
	Name    string
	Exports []string
	Imports []Import
	// Pinned maps a module to the only symbol its import line may carry,
	// whatever was accumulated for it.
	Pinned    map[string]string
	Records   []*RecordBuilder
	Types     []*TypeDecl
	Data      []*EnumDecl
	Variants  []*Variant
	Instances []*Instance
	Blocks    []string
}

func (m *Module) String() string {
	sections := []string{
		m.header(),
		m.imports(),
		joinStrings(m.Records, "\n\n"),
		joinStrings(SortTypes(m.Types), "\n\n"),
		joinStrings(m.Data, "\n\n"),
		joinStrings(m.Variants, "\n\n"),
		joinStrings(m.Instances, "\n"),
		strings.Join(m.Blocks, "\n\n"),
	}
	out := sections[:0]
	for _, s := range sections {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n\n")
}

func (m *Module) header() string {
	if len(m.Exports) == 0 {
		return "module " + m.Name + " where"
	}
	return "module " + m.Name + " (" + strings.Join(m.Exports, ", ") + ") where"
}

func (m *Module) imports() string {
	merged := MergeImports(m.Imports)
	lines := make([]string, len(merged))
	for i, imp := range merged {
		if sym, ok := m.Pinned[imp.Module]; ok {
			imp.Symbols = []string{sym}
		}
		lines[i] = imp.String()
	}
	return strings.Join(lines, "\n")
}

// SortTypes returns decls sorted by name with duplicates removed. Among
// declarations sharing a name the earliest in decls is kept.
func SortTypes(decls []*TypeDecl) []*TypeDecl {
	out := slices.Clone(decls)
	slices.SortStableFunc(out, func(a, b *TypeDecl) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return slices.CompactFunc(out, func(a, b *TypeDecl) bool {
		return a.Name == b.Name
	})
}

func joinStrings[T interface{ String() string }](items []T, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, sep)
}
