package codegen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	ps "github.com/okra-platform/gqlpurs/internal/codegen/purescript"
	"github.com/okra-platform/gqlpurs/internal/codegen/writer"
	"github.com/okra-platform/gqlpurs/internal/schema"
)

// Operation locations a client can attach a directive to. Directives
// allowed nowhere else are left out of the module.
var operationLocations = []string{"QUERY", "MUTATION", "SUBSCRIPTION"}

var importTypeList = ps.NewImport("typelevel-lists", "Type.Data.List", "type (:>)", "List'", "Nil'")

// DirectivesModuleName is the module holding a role's directive list
func DirectivesModuleName(role string) string {
	return ps.ProperName(role) + ".Directives"
}

// DirectivesModule builds the module listing the operation directives of a
// role's schema as a type-level list, plus one applying function per
// directive.
func DirectivesModule(role string, directives []schema.Directive) (*ps.Module, error) {
	m := &ps.Module{
		Name:    DirectivesModuleName(role),
		Imports: []ps.Import{importTypeList},
	}

	var entries []string
	locations := map[string]bool{}
	for _, d := range directives {
		locs := operationOnly(d.Locations)
		if len(locs) == 0 {
			continue
		}
		for _, l := range locs {
			locations[l] = true
		}

		args := ps.NewRecord(d.Name)
		for _, arg := range d.Args {
			t, imports := WrapArgument(ps.Type(scalarType(arg.Type.Name)), arg.Type.Wrapping)
			if err := args.Add(arg.Name, t); err != nil {
				return nil, fmt.Errorf("directive @%s: %w", d.Name, err)
			}
			m.Imports = append(m.Imports, imports...)
		}

		entries = append(entries, fmt.Sprintf("Directive %s %s %s (%s)",
			strconv.Quote(d.Name),
			strconv.Quote(d.Description),
			inlineRecord(args.Record()),
			strings.Join(append(locs, "Nil'"), " :> "),
		))
		m.Blocks = append(m.Blocks, applyFunction(d.Name))
	}

	w := writer.NewWriter("  ")
	w.WriteLine("type Directives :: List' Type")
	w.WriteBlock("type Directives =", func() {
		for i, entry := range entries {
			if i == 0 {
				w.WriteLine(entry)
				continue
			}
			w.WriteLine(":> " + entry)
		}
		if len(entries) == 0 {
			w.WriteLine("Nil'")
		} else {
			w.WriteLine(":> Nil'")
		}
	})
	m.Blocks = append([]string{strings.TrimRight(w.String(), "\n")}, m.Blocks...)

	if len(entries) > 0 {
		used := make([]string, 0, len(locations))
		for _, l := range operationLocations {
			if locations[l] {
				used = append(used, l)
			}
		}
		m.Imports = append(m.Imports,
			ps.NewImport("graphql-client", "GraphQL.Client.Directive", "ApplyDirective", "applyDir"),
			ps.NewImport("graphql-client", "GraphQL.Client.Directive.Definition", "Directive"),
			ps.NewImport("graphql-client", "GraphQL.Client.Directive.Location", used...),
			ps.NewImport("prelude", "Type.Proxy", "Proxy(..)"),
		)
	}
	return m, nil
}

func operationOnly(locations []string) []string {
	var out []string
	for _, l := range operationLocations {
		if slices.Contains(locations, l) {
			out = append(out, l)
		}
	}
	return out
}

// inlineRecord prints a record on one line so it can sit inside a list entry
func inlineRecord(r *ps.Record) string {
	if len(r.Fields) == 0 {
		return "{}"
	}
	fields := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = f.String()
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

func applyFunction(name string) string {
	return fmt.Sprintf("%s :: forall q args. args -> q -> ApplyDirective %q args q\n%s = applyDir (Proxy :: _ %q)",
		name, name, name, name)
}
