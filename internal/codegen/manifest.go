package codegen

import (
	ps "github.com/okra-platform/gqlpurs/internal/codegen/purescript"
)

// DirectivesPackage provides the type-level lists used by directive
// metadata. Every schema library depends on it.
const DirectivesPackage = "typelevel-lists"

// Manifest returns the sorted, unique spago packages a schema library needs
// for the given modules.
func Manifest(mods ...*ps.Module) []string {
	return ps.Packages(moduleImports(mods), DirectivesPackage)
}

// LibraryManifest returns the packages of a library of standalone modules,
// such as the shared or database enum libraries.
func LibraryManifest(mods []*ps.Module) []string {
	return ps.Packages(moduleImports(mods))
}

func moduleImports(mods []*ps.Module) []ps.Import {
	var imports []ps.Import
	for _, m := range mods {
		if m != nil {
			imports = append(imports, m.Imports...)
		}
	}
	return imports
}
