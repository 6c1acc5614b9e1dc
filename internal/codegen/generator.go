// Package codegen walks a role's GraphQL schema and builds the PureScript
// schema module, its directives module and the shared enum modules.
package codegen

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	ps "github.com/okra-platform/gqlpurs/internal/codegen/purescript"
	"github.com/okra-platform/gqlpurs/internal/config"
	"github.com/okra-platform/gqlpurs/internal/schema"
)

var (
	importVoid    = ps.NewImport("prelude", "Data.Void", "Void")
	importNewtype = ps.NewImport("newtype", "Data.Newtype", "class Newtype")
	importProxy   = ps.NewImport("prelude", "Type.Proxy", "Proxy")
)

// Config is the run-wide configuration of the generator
type Config struct {
	Workspace          *config.Workspace
	SharedEnumSuffixes []string
	// DirectivesProxy types the root directives slot as `Proxy Directives`
	// instead of Void.
	DirectivesProxy bool
}

// RoleModule is everything generated for one role
type RoleModule struct {
	Role       string
	Schema     *ps.Module
	Directives *ps.Module
	// Packages is the spago dependency list of the role's library
	Packages []string
}

// Generator builds role modules. It holds no per-role state and is safe for
// concurrent use by several roles.
type Generator struct {
	cfg      Config
	resolver *Resolver
	shared   *SharedEnums
	logger   zerolog.Logger
}

// NewGenerator creates a generator. Shared enums seen by any role are added
// to shared.
func NewGenerator(cfg Config, resolver *Resolver, shared *SharedEnums, logger zerolog.Logger) (*Generator, error) {
	if cfg.Workspace == nil {
		return nil, fmt.Errorf("%w: generator needs a workspace", config.ErrConfiguration)
	}
	if resolver == nil {
		resolver = NewResolver(nil, nil)
	}
	if shared == nil {
		shared = NewSharedEnums()
	}
	return &Generator{
		cfg:      cfg,
		resolver: resolver,
		shared:   shared,
		logger:   logger.With().Str("component", "codegen").Logger(),
	}, nil
}

// SchemaModuleName is the module holding a role's schema
func SchemaModuleName(role string) string {
	return "Schema." + ps.ProperName(role)
}

// roleState is the module under construction for one role
type roleState struct {
	role      string
	imports   []ps.Import
	types     []*ps.TypeDecl
	variants  []*ps.Variant
	instances []*ps.Instance
}

func (r *roleState) use(imports ...ps.Import) {
	r.imports = append(r.imports, imports...)
}

// Generate builds the modules of one role from its schema
func (g *Generator) Generate(role string, s *schema.Schema) (*RoleModule, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: role %s has no schema", schema.ErrUnrecognizedSchema, role)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("role %s: %w", role, err)
	}

	logger := g.logger.With().Str("role", role).Logger()
	state := &roleState{role: role}
	state.use(importNotNull, importAsGql, importNewtype)

	for _, t := range s.Types {
		if strings.HasPrefix(t.Name, "__") {
			continue
		}
		if err := g.walkType(state, t, logger); err != nil {
			return nil, fmt.Errorf("role %s: type %s: %w", role, t.Name, err)
		}
	}

	root, err := g.rootRecord(state, s)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", role, err)
	}

	directives, err := DirectivesModule(role, s.Directives)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", role, err)
	}

	slices.SortFunc(state.variants, func(a, b *ps.Variant) int {
		return cmp.Compare(a.Name, b.Name)
	})
	slices.SortStableFunc(state.instances, func(a, b *ps.Instance) int {
		return cmp.Compare(a.Type, b.Type)
	})
	state.instances = slices.CompactFunc(state.instances, func(a, b *ps.Instance) bool {
		return a.Class == b.Class && a.Type == b.Type
	})

	module := &ps.Module{
		Name:      SchemaModuleName(role),
		Imports:   state.imports,
		Pinned:    pinnedImports,
		Records:   []*ps.RecordBuilder{root},
		Types:     state.types,
		Variants:  state.variants,
		Instances: state.instances,
	}

	logger.Debug().
		Int("types", len(ps.SortTypes(state.types))).
		Int("variants", len(state.variants)).
		Msg("Generated schema module")

	return &RoleModule{
		Role:       role,
		Schema:     module,
		Directives: directives,
		Packages:   Manifest(module, directives),
	}, nil
}

func (g *Generator) walkType(state *roleState, t schema.Type, logger zerolog.Logger) error {
	switch t.Kind {
	case schema.KindObject:
		return g.object(state, t)
	case schema.KindInputObject:
		return g.inputObject(state, t)
	case schema.KindScalar:
		if imp, ok := scalarImports[t.Name]; ok {
			state.use(imp)
		}
	case schema.KindEnum:
		res, err := g.routeEnum(t)
		if err != nil {
			return err
		}
		state.use(res.Imports...)
		if res.Variant != nil {
			state.variants = append(state.variants, res.Variant)
		}
	case schema.KindInterface, schema.KindUnion:
		logger.Info().Str("kind", string(t.Kind)).Str("type", t.Name).Msg("Skipping abstract type")
	default:
		return fmt.Errorf("%w: unknown kind %q", schema.ErrUnrecognizedSchema, t.Kind)
	}
	return nil
}

// object emits `newtype X = X { field :: { | args } -> Return }`. Fields
// without arguments are plain return types.
func (g *Generator) object(state *roleState, t schema.Type) error {
	name := ps.ProperName(t.Name)
	record := ps.NewRecord(name)
	for _, f := range t.Fields {
		base, imports := g.resolver.Resolve(t.Name, f.Name, f.Type.Name)
		state.use(imports...)
		ret, imports := WrapReturn(base, f.Type.Wrapping)
		state.use(imports...)

		var fieldType ps.TypeExpr = ret
		if len(f.Args) > 0 {
			args, err := g.arguments(state, f.Name, f.Args)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			fieldType = ps.Func([]ps.TypeExpr{args.Record()}, ret)
		}
		if err := record.Add(f.Name, fieldType); err != nil {
			return err
		}
	}
	return g.newtype(state, name, record)
}

// inputObject emits a newtype over a record of argument-position fields
func (g *Generator) inputObject(state *roleState, t schema.Type) error {
	name := ps.ProperName(t.Name)
	record, err := g.arguments(state, t.Name, t.InputFields)
	if err != nil {
		return err
	}
	return g.newtype(state, name, record)
}

// arguments builds the record of input values belonging to container,
// which is the field name for arguments and the type name for input fields.
func (g *Generator) arguments(state *roleState, container string, values []schema.InputValue) (*ps.RecordBuilder, error) {
	record := ps.NewRecord(ps.ProperName(container) + "Arguments")
	for _, v := range values {
		base, imports := g.resolver.Resolve(container, v.Name, v.Type.Name)
		state.use(imports...)
		arg, imports := WrapArgument(base, v.Type.Wrapping)
		state.use(imports...)
		if err := record.Add(v.Name, arg); err != nil {
			return nil, err
		}
	}
	return record, nil
}

func (g *Generator) newtype(state *roleState, name string, record *ps.RecordBuilder) error {
	decl, err := ps.NewNewtype(name, nil, record.Record())
	if err != nil {
		return err
	}
	state.types = append(state.types, decl)
	state.instances = append(state.instances, ps.DeriveNewtype(name))
	return nil
}

// rootRecord builds `type Schema` with exactly the query, mutation,
// subscription and directives slots. Absent roots are Void.
func (g *Generator) rootRecord(state *roleState, s *schema.Schema) (*ps.RecordBuilder, error) {
	root := ps.NewRecord("Schema")
	slots := []struct{ slot, alias, root string }{
		{"query", "Query", s.QueryType},
		{"mutation", "Mutation", s.MutationType},
		{"subscription", "Subscription", s.SubscriptionType},
	}

	var errs []error
	for _, slot := range slots {
		if slot.root == "" {
			errs = append(errs, root.Add(slot.slot, ps.Type("Void")))
			state.use(importVoid)
			continue
		}
		// A root already named like its slot needs no alias
		if target := ps.ProperName(slot.root); target != slot.alias {
			state.types = append(state.types, &ps.TypeDecl{Name: slot.alias, Body: ps.Type(target)})
		}
		errs = append(errs, root.Add(slot.slot, ps.Type(slot.alias)))
	}

	if g.cfg.DirectivesProxy {
		errs = append(errs, root.Add("directives", ps.Type("Proxy", ps.Type("Directives"))))
		state.use(importProxy, ps.NewImport("", DirectivesModuleName(state.role), "Directives"))
	} else {
		errs = append(errs, root.Add("directives", ps.Type("Void")))
		state.use(importVoid)
	}
	return root, errors.Join(errs...)
}
