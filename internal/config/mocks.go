package config

import (
	"strings"

	"github.com/okra-platform/gqlpurs/internal/codegen/purescript"
)

// MockLib is the spago library holding stand-ins for override types.
const MockLib = "oa-ids"

// MockModules returns stand-in modules declaring every override type that is
// not itself a generated enum as a newtype over String, one module per
// override module. They let the schema libraries compile without the real
// definitions.
func MockModules(o Overrides, ws *Workspace) []*purescript.Module {
	generated := []string{
		purescript.ProperName(ws.PostgresEnumsLib),
		purescript.ProperName(ws.SharedGraphQLEnumsLib),
	}

	var mods []*purescript.Module
	byModule := make(map[string]*purescript.Module)
	for _, t := range o.Types() {
		if isGenerated(t.Module, generated) {
			continue
		}
		m, ok := byModule[t.Module]
		if !ok {
			m = &purescript.Module{Name: t.Module}
			byModule[t.Module] = m
			mods = append(mods, m)
		}
		m.Exports = append(m.Exports, t.Name)
		m.Types = append(m.Types, &purescript.TypeDecl{
			Name:    t.Name,
			Body:    purescript.Type("String"),
			Newtype: true,
		})
	}
	return mods
}

func isGenerated(module string, libs []string) bool {
	for _, lib := range libs {
		if lib != "" && strings.Contains(module, lib) {
			return true
		}
	}
	return false
}
