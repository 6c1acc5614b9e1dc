package config

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gopkg.in/yaml.v3"
)

// ExternalType is a PureScript type defined outside the generated schema
// module, together with the module that exports it and its spago package.
type ExternalType struct {
	Name    string
	Module  string
	Package string
}

// Overrides maps an entity (table, action or input name) to the field types
// that replace the generated ones.
type Overrides map[string]map[string]ExternalType

// Lookup returns the override for entity.field
func (o Overrides) Lookup(entity, field string) (ExternalType, bool) {
	t, ok := o[entity][field]
	return t, ok
}

// Types returns every distinct override type sorted by module then name.
func (o Overrides) Types() []ExternalType {
	var out []ExternalType
	for _, fields := range o {
		for _, t := range fields {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b ExternalType) int {
		return cmp.Or(cmp.Compare(a.Module, b.Module), cmp.Compare(a.Name, b.Name), cmp.Compare(a.Package, b.Package))
	})
	return slices.Compact(out)
}

// overridesFile is the YAML layout of one overrides file:
//
//	types:
//	  ids: "Id, Data.Id.$, oa-ids"
//	templates:
//	  owned:
//	    owner_id: ids=UserId
//	outside_types:
//	  users:
//	    with: owned
//	    user_id: ids=UserId
//	    region: ClientRegion, GqlOverrides.ClientRegion, oa-overrides
type overridesFile struct {
	Types        map[string]string      `yaml:"types"`
	Templates    map[string]*fieldTable `yaml:"templates"`
	OutsideTypes map[string]*fieldTable `yaml:"outside_types"`
}

// fieldTable is a field-to-type mapping plus the templates it includes.
// `with` takes a single template name or a list of them.
type fieldTable struct {
	With   []string
	Fields map[string]string
}

func (t *fieldTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of field names to types", node.Line)
	}
	t.Fields = make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		if key == "with" {
			switch value.Kind {
			case yaml.ScalarNode:
				t.With = []string{value.Value}
			case yaml.SequenceNode:
				if err := value.Decode(&t.With); err != nil {
					return fmt.Errorf("line %d: with: %w", value.Line, err)
				}
			default:
				return fmt.Errorf("line %d: with must be a template name or a list of them", value.Line)
			}
			continue
		}
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: field %s must map to a type string", value.Line, key)
		}
		t.Fields[key] = value.Value
	}
	return nil
}

// LoadOverrides reads and merges override files. An entity may appear in
// several files as long as no field is given two different types.
func LoadOverrides(paths ...string) (Overrides, error) {
	merged := make(Overrides)
	for _, path := range paths {
		o, err := loadOverridesFile(path)
		if err != nil {
			return nil, err
		}
		for entity, fields := range o {
			if merged[entity] == nil {
				merged[entity] = make(map[string]ExternalType, len(fields))
			}
			for field, t := range fields {
				if prev, ok := merged[entity][field]; ok && prev != t {
					return nil, fmt.Errorf("%w: %s: %s.%s is %s in an earlier file and %s here", ErrConfiguration, path, entity, field, prev.Module, t.Module)
				}
				merged[entity][field] = t
			}
		}
	}
	return merged, nil
}

func loadOverridesFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse overrides file %s: %v", ErrConfiguration, path, err)
	}
	if file.OutsideTypes == nil {
		return nil, fmt.Errorf("%w: overrides file %s has no outside_types key", ErrConfiguration, path)
	}

	o, err := file.resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfiguration, path, err)
	}
	return o, nil
}

func (f *overridesFile) resolve() (Overrides, error) {
	templates, err := f.resolveTemplates()
	if err != nil {
		return nil, err
	}

	out := make(Overrides, len(f.OutsideTypes))
	for entity, table := range f.OutsideTypes {
		fields, err := f.expand(entity, table, templates)
		if err != nil {
			return nil, err
		}
		out[entity] = fields
	}
	return out, nil
}

// resolveTemplates expands templates in dependency order so a template that
// includes another sees its fully expanded fields.
func (f *overridesFile) resolveTemplates() (map[string]map[string]ExternalType, error) {
	g := simple.NewDirectedGraph()
	nodes := make(map[string]graph.Node, len(f.Templates))
	names := make(map[int64]string, len(f.Templates))

	// Sorted so node IDs, and therefore error messages, are stable.
	templateNames := make([]string, 0, len(f.Templates))
	for name := range f.Templates {
		templateNames = append(templateNames, name)
	}
	slices.Sort(templateNames)

	for _, name := range templateNames {
		node := g.NewNode()
		g.AddNode(node)
		nodes[name] = node
		names[node.ID()] = name
	}
	for _, name := range templateNames {
		// A template without a body decodes to nil and includes nothing
		table := f.Templates[name]
		if table == nil {
			continue
		}
		for _, parent := range table.With {
			from, ok := nodes[parent]
			if !ok {
				return nil, fmt.Errorf("template %s includes unknown template %q", name, parent)
			}
			if parent == name {
				return nil, fmt.Errorf("template %s includes itself", name)
			}
			g.SetEdge(g.NewEdge(from, nodes[name]))
		}
	}

	sorted, err := topo.Sort(g)
	if err != nil {
		if unorderable, ok := err.(topo.Unorderable); ok {
			var cycles [][]string
			for _, set := range unorderable {
				var cycle []string
				for _, node := range set {
					cycle = append(cycle, names[node.ID()])
				}
				slices.Sort(cycle)
				cycles = append(cycles, cycle)
			}
			return nil, fmt.Errorf("templates include each other: %v", cycles)
		}
		return nil, err
	}

	resolved := make(map[string]map[string]ExternalType, len(sorted))
	for _, node := range sorted {
		name := names[node.ID()]
		fields, err := f.expand("template "+name, f.Templates[name], resolved)
		if err != nil {
			return nil, err
		}
		resolved[name] = fields
	}
	return resolved, nil
}

// expand merges the included templates and then the table's own fields. Two
// included templates may not disagree on a field; the table's own fields
// always win.
func (f *overridesFile) expand(owner string, table *fieldTable, templates map[string]map[string]ExternalType) (map[string]ExternalType, error) {
	out := make(map[string]ExternalType)
	if table == nil {
		return out, nil
	}

	source := make(map[string]string)
	for _, name := range table.With {
		tmpl, ok := templates[name]
		if !ok {
			return nil, fmt.Errorf("%s uses unknown template %q", owner, name)
		}
		for field, t := range tmpl {
			if prev, ok := out[field]; ok && prev != t {
				return nil, fmt.Errorf("%s: templates %s and %s define %s differently", owner, source[field], name, field)
			}
			out[field] = t
			source[field] = name
		}
	}

	for field, value := range table.Fields {
		t, err := f.parseType(value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", owner, field, err)
		}
		out[field] = t
	}
	return out, nil
}

// parseType reads either "alias=TypeName", which expands the alias declared
// under types with $ replaced by TypeName, or "Name, Module, package".
func (f *overridesFile) parseType(value string) (ExternalType, error) {
	if alias, name, ok := strings.Cut(value, "="); ok {
		alias, name = strings.TrimSpace(alias), strings.TrimSpace(name)
		decl, ok := f.Types[alias]
		if !ok {
			return ExternalType{}, fmt.Errorf("unknown type alias %q", alias)
		}
		parts, err := splitTypeDecl(decl)
		if err != nil {
			return ExternalType{}, fmt.Errorf("type alias %s: %w", alias, err)
		}
		return ExternalType{
			Name:    name,
			Module:  strings.ReplaceAll(parts[1], "$", name),
			Package: parts[2],
		}, nil
	}

	parts, err := splitTypeDecl(value)
	if err != nil {
		return ExternalType{}, err
	}
	return ExternalType{Name: parts[0], Module: parts[1], Package: parts[2]}, nil
}

func splitTypeDecl(s string) ([]string, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%q is neither alias=Type nor \"Name, Module, package\"", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil, fmt.Errorf("%q has an empty part", s)
		}
	}
	return parts, nil
}
