package purescript

import (
	"slices"
	"sort"
	"strings"
)

// Import is one `import Module (symbols) as Alias` line together with the
// spago package that provides the module.
type Import struct {
	Module  string
	Package string
	Symbols []string
	Alias   string
}

// NewImport returns an unaliased import of symbols from module.
func NewImport(pkg, module string, symbols ...string) Import {
	return Import{Module: module, Package: pkg, Symbols: symbols}
}

// NewAliasImport returns `import module as alias`.
func NewAliasImport(pkg, module, alias string) Import {
	return Import{Module: module, Package: pkg, Alias: alias}
}

// String renders the import line with its symbols sorted.
func (i Import) String() string {
	var b strings.Builder
	b.WriteString("import ")
	b.WriteString(i.Module)
	if syms := sortedSymbols(i.Symbols); len(syms) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(syms, ", "))
		b.WriteString(")")
	}
	if i.Alias != "" {
		b.WriteString(" as ")
		b.WriteString(i.Alias)
	}
	return b.String()
}

// MergeImports folds imports sharing a module and alias into one entry whose
// symbols are the union of the originals. The result is sorted by module,
// then alias, and does not depend on the order of the input.
func MergeImports(imports []Import) []Import {
	type key struct{ module, alias string }
	index := make(map[key]int, len(imports))
	merged := make([]Import, 0, len(imports))
	for _, imp := range imports {
		k := key{imp.Module, imp.Alias}
		if i, ok := index[k]; ok {
			merged[i].Symbols = append(merged[i].Symbols, imp.Symbols...)
			if merged[i].Package == "" || (imp.Package != "" && imp.Package < merged[i].Package) {
				merged[i].Package = imp.Package
			}
			continue
		}
		index[k] = len(merged)
		imp.Symbols = slices.Clone(imp.Symbols)
		merged = append(merged, imp)
	}
	for i := range merged {
		merged[i].Symbols = sortedSymbols(merged[i].Symbols)
	}
	sort.Slice(merged, func(a, b int) bool {
		if merged[a].Module != merged[b].Module {
			return merged[a].Module < merged[b].Module
		}
		return merged[a].Alias < merged[b].Alias
	})
	return merged
}

// Packages returns the sorted, unique spago packages referenced by imports
// plus any extra packages.
func Packages(imports []Import, extra ...string) []string {
	pkgs := make([]string, 0, len(imports)+len(extra))
	for _, imp := range imports {
		if imp.Package != "" {
			pkgs = append(pkgs, imp.Package)
		}
	}
	pkgs = append(pkgs, extra...)
	slices.Sort(pkgs)
	return slices.Compact(pkgs)
}

func sortedSymbols(symbols []string) []string {
	out := slices.Clone(symbols)
	slices.Sort(out)
	return slices.Compact(out)
}
