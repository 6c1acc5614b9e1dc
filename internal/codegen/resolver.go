package codegen

import (
	"cmp"
	"slices"
	"strings"

	ps "github.com/okra-platform/gqlpurs/internal/codegen/purescript"
	"github.com/okra-platform/gqlpurs/internal/config"
)

// EnumLookup finds the type generated for a database enum by its raw name.
// *catalog.Catalog implements it.
type EnumLookup interface {
	Lookup(name string) (config.ExternalType, bool)
}

const comparisonSuffix = "_comparison_exp"

var (
	importAsGql         = ps.NewImport("graphql-client", "GraphQL.Client.AsGql", "AsGql")
	importComparison    = ps.NewImport("graphql-client", "GraphQL.Hasura.ComparisonExp", "ComparisonExp")
	importComparisonStr = ps.NewImport("graphql-client", "Data.ComparisonExpString", "ComparisonExpString")
)

// pinnedImports are the comparison wrapper modules. Each prints only its
// wrapper whatever override symbols were collected for it.
var pinnedImports = map[string]string{
	importComparison.Module:    "ComparisonExp",
	importComparisonStr.Module: "ComparisonExpString",
}

// scalars maps database scalars exposed through GraphQL to PureScript types.
var scalars = map[string]string{
	"date":        "Date",
	"json":        "Json",
	"jsonb":       "Json",
	"uuid":        "String",
	"citext":      "String",
	"time":        "Time",
	"timestamp":   "DateTime",
	"timestamptz": "DateTime",
	"smallint":    "Int",
	"bigint":      "Number",
	"numeric":     "Number",
	"Float":       "Number",
}

// scalarImports are needed as soon as the schema declares the scalar.
var scalarImports = map[string]ps.Import{
	"date":        ps.NewImport("datetime", "Data.Date", "Date"),
	"timestamp":   ps.NewImport("datetime", "Data.DateTime", "DateTime"),
	"timestamptz": ps.NewImport("datetime", "Data.DateTime", "DateTime"),
	"json":        ps.NewImport("argonaut-core", "Data.Argonaut.Core", "Json"),
	"jsonb":       ps.NewImport("argonaut-core", "Data.Argonaut.Core", "Json"),
	"time":        ps.NewImport("datetime", "Data.Time", "Time"),
}

// Generated input and argument names wrap an entity name, e.g.
// users_bool_exp, insert_users_one, update_users_by_pk. Longer suffixes
// come first so _obj_rel_insert_input is not cut as _insert_input.
var (
	entitySuffixes = sortedByLength([]string{
		"_insert_input", "_obj_rel_insert_input", "_arr_rel_insert_input",
		"_set_input", "_inc_input", "_pk_columns_input", "_append_input",
		"_prepend_input", "_delete_key_input", "_delete_elem_input",
		"_delete_at_path_input", "_stream_cursor_input", "_stream_cursor_value_input",
		"_bool_exp", "_aggregate_bool_exp", "_order_by", "_on_conflict", "_updates",
		"_by_pk", "_one", "_many", "_aggregate", "_stream",
	})
	entityPrefixes = []string{"insert_", "update_", "delete_"}
)

func sortedByLength(s []string) []string {
	slices.SortStableFunc(s, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	return s
}

// Entity strips one generated suffix and one mutation prefix from a
// container name.
func Entity(container string) string {
	name := container
	for _, suffix := range entitySuffixes {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok && trimmed != "" {
			name = trimmed
			break
		}
	}
	for _, prefix := range entityPrefixes {
		if trimmed, ok := strings.CutPrefix(name, prefix); ok && trimmed != "" {
			name = trimmed
			break
		}
	}
	return name
}

// Resolver maps a field's GraphQL base type to a PureScript type. The
// override table and enum catalog are filled before the resolver is used and
// only read afterwards.
type Resolver struct {
	overrides config.Overrides
	enums     EnumLookup
}

// NewResolver creates a resolver. enums may be nil when no database catalog
// is configured.
func NewResolver(overrides config.Overrides, enums EnumLookup) *Resolver {
	return &Resolver{overrides: overrides, enums: enums}
}

// Resolve returns the type of field inside container for the GraphQL base
// type name, wrapped as `AsGql "<name>" <type>`, together with the imports
// the type needs.
func (r *Resolver) Resolve(container, field, name string) (ps.TypeExpr, []ps.Import) {
	t, imports := r.resolve(container, field, name)
	return ps.Type("AsGql", ps.Symbol(name), t), imports
}

func (r *Resolver) resolve(container, field, name string) (ps.TypeExpr, []ps.Import) {
	if ext, ok := r.override(container, field); ok {
		own := ps.NewImport(ext.Package, ext.Module, ext.Name)
		compared, isComparison := strings.CutSuffix(name, comparisonSuffix)
		if !isComparison {
			return ps.Type(ext.Name), []ps.Import{own}
		}
		wrapper := importComparison
		if scalarType(compared) == "String" {
			wrapper = importComparisonStr
		}
		return ps.Type(wrapper.Symbols[0], ps.Type(ext.Name)), []ps.Import{own, wrapper}
	}

	if r.enums != nil {
		if ext, ok := r.enums.Lookup(name); ok {
			return ps.Type(ext.Name), []ps.Import{ps.NewImport(ext.Package, ext.Module, ext.Name)}
		}
	}

	return ps.Type(scalarType(name)), nil
}

// override tries the container as written, then the entity it wraps.
func (r *Resolver) override(container, field string) (config.ExternalType, bool) {
	if ext, ok := r.overrides.Lookup(container, field); ok {
		return ext, true
	}
	if entity := Entity(container); entity != container {
		return r.overrides.Lookup(entity, field)
	}
	return config.ExternalType{}, false
}

func scalarType(name string) string {
	if t, ok := scalars[name]; ok {
		return t
	}
	return ps.ProperName(name)
}
