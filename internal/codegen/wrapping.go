package codegen

import (
	ps "github.com/okra-platform/gqlpurs/internal/codegen/purescript"
	"github.com/okra-platform/gqlpurs/internal/schema"
)

var (
	importMaybe   = ps.NewImport("maybe", "Data.Maybe", "Maybe")
	importNotNull = ps.NewImport("graphql-client", "GraphQL.Client.Args", "NotNull")
)

// WrapReturn applies a wrapping stack (innermost first) to a field's return
// type. Nullability is the default: every layer not guarded by NonNull is
// wrapped in Maybe, and lists become Array.
//
//	T       -> Maybe T
//	T!      -> T
//	[T]     -> Maybe (Array (Maybe T))
//	[T]!    -> Array (Maybe T)
//	[T!]    -> Maybe (Array T)
//	[T!]!   -> Array T
func WrapReturn(base ps.TypeExpr, wrapping []schema.Modifier) (ps.TypeExpr, []ps.Import) {
	var imports []ps.Import
	maybe := func(t ps.TypeExpr) ps.TypeExpr {
		if imports == nil {
			imports = []ps.Import{importMaybe}
		}
		return ps.Type("Maybe", t)
	}

	t := base
	nonNull := false
	for _, m := range wrapping {
		switch m {
		case schema.NonNull:
			nonNull = true
		case schema.List:
			if !nonNull {
				t = maybe(t)
			}
			t = ps.Type("Array", t)
			nonNull = false
		}
	}
	if !nonNull {
		t = maybe(t)
	}
	return t, imports
}

// WrapArgument applies a wrapping stack (innermost first) to an argument or
// input field type. NonNull becomes an explicit NotNull wrapper and nothing is
// optional by default.
//
//	T       -> T
//	T!      -> NotNull T
//	[T]     -> Array T
//	[T!]!   -> NotNull (Array (NotNull T))
func WrapArgument(base ps.TypeExpr, wrapping []schema.Modifier) (ps.TypeExpr, []ps.Import) {
	var imports []ps.Import
	t := base
	for _, m := range wrapping {
		switch m {
		case schema.NonNull:
			if imports == nil {
				imports = []ps.Import{importNotNull}
			}
			t = ps.Type("NotNull", t)
		case schema.List:
			t = ps.Type("Array", t)
		}
	}
	return t, imports
}
