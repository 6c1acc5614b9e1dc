package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSDL_BasicTypes(t *testing.T) {
	// Test plan:
	// - Parse object, input, enum and scalar types
	// - Verify wrapping stacks and arguments
	// - Default root names are picked up without a schema definition

	input := `
scalar uuid

type Query {
  users(limit: Int, where: users_bool_exp): [User!]!
  user_by_pk(id: uuid!): User
}

type User {
  id: uuid!
  name: String
  tags: [String]!
  status: Status!
}

enum Status {
  ACTIVE
  DONE
}

input users_bool_exp {
  id: uuid_comparison_exp
  _and: [users_bool_exp!]
}`

	s, err := ParseSDL(input)
	require.NoError(t, err)
	require.NotNil(t, s)

	// Test: roots
	assert.Equal(t, "Query", s.QueryType)
	assert.Empty(t, s.MutationType)
	assert.Empty(t, s.SubscriptionType)

	// Test: kinds in document order
	require.Len(t, s.Types, 5)
	kinds := make([]Kind, len(s.Types))
	for i, typ := range s.Types {
		kinds[i] = typ.Kind
	}
	assert.Equal(t, []Kind{KindScalar, KindObject, KindObject, KindEnum, KindInputObject}, kinds)

	// Test: query field with arguments
	query, ok := s.Lookup("Query")
	require.True(t, ok)
	users := query.Fields[0]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, TypeRef{Name: "User", Wrapping: []Modifier{NonNull, List, NonNull}}, users.Type)
	require.Len(t, users.Args, 2)
	assert.Equal(t, "limit", users.Args[0].Name)
	assert.Equal(t, TypeRef{Name: "Int"}, users.Args[0].Type)

	// Test: object fields
	user, ok := s.Lookup("User")
	require.True(t, ok)
	assert.Equal(t, "uuid!", user.Fields[0].Type.String())
	assert.Equal(t, "String", user.Fields[1].Type.String())
	assert.Equal(t, "[String]!", user.Fields[2].Type.String())

	// Test: enum values keep declaration order
	status, ok := s.Lookup("Status")
	require.True(t, ok)
	require.Len(t, status.EnumValues, 2)
	assert.Equal(t, "ACTIVE", status.EnumValues[0].Name)
	assert.Equal(t, "DONE", status.EnumValues[1].Name)

	// Test: input object fields
	boolExp, ok := s.Lookup("users_bool_exp")
	require.True(t, ok)
	require.Len(t, boolExp.InputFields, 2)
	assert.Equal(t, TypeRef{Name: "users_bool_exp", Wrapping: []Modifier{NonNull, List}}, boolExp.InputFields[1].Type)
}

func TestParseSDL_SchemaDefinition(t *testing.T) {
	// Test plan:
	// - Explicit schema definition overrides the conventional names

	input := `
schema {
  query: query_root
  mutation: mutation_root
}

type query_root {
  ping: Boolean
}

type mutation_root {
  reset: Boolean
}

type Subscription {
  ticks: Int
}`

	s, err := ParseSDL(input)
	require.NoError(t, err)

	assert.Equal(t, "query_root", s.QueryType)
	assert.Equal(t, "mutation_root", s.MutationType)
	// Test: the conventional name is not used when a schema definition exists
	assert.Empty(t, s.SubscriptionType)
}

func TestParseSDL_DescriptionsAndDefaults(t *testing.T) {
	input := `
"""
Root of all reads
"""
type Query {
  "Paged list"
  items(limit: Int = 10, order: Order = ASC, name: String = "x"): [String]
}

enum Order {
  ASC
  DESC
}`

	s, err := ParseSDL(input)
	require.NoError(t, err)

	query, _ := s.Lookup("Query")
	assert.Contains(t, query.Description, "Root of all reads")
	assert.Equal(t, "Paged list", query.Fields[0].Description)

	args := query.Fields[0].Args
	require.Len(t, args, 3)
	assert.Equal(t, "10", args[0].DefaultValue)
	assert.Equal(t, "ASC", args[1].DefaultValue)
	assert.Equal(t, `"x"`, args[2].DefaultValue)
}

func TestParseSDL_InterfacesAndUnions(t *testing.T) {
	input := `
interface Node {
  id: ID!
}

type Query {
  node: Node
}

union SearchResult = Query`

	s, err := ParseSDL(input)
	require.NoError(t, err)

	node, ok := s.Lookup("Node")
	require.True(t, ok)
	assert.Equal(t, KindInterface, node.Kind)
	assert.Len(t, node.Fields, 1)

	union, ok := s.Lookup("SearchResult")
	require.True(t, ok)
	assert.Equal(t, KindUnion, union.Kind)
}

func TestParseSDL_DirectiveDefinitions(t *testing.T) {
	input := `
"Caches the field"
directive @cached(ttl: Int!, refresh: Boolean) on QUERY | FIELD

type Query {
  ping: Boolean
}`

	s, err := ParseSDL(input)
	require.NoError(t, err)

	require.Len(t, s.Directives, 1)
	d := s.Directives[0]
	assert.Equal(t, "cached", d.Name)
	assert.Equal(t, "Caches the field", d.Description)
	require.Len(t, d.Args, 2)
	assert.Equal(t, "Int!", d.Args[0].Type.String())
	assert.ElementsMatch(t, []string{"QUERY", "FIELD"}, d.Locations)
}

func TestParseSDL_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax error", "type Query {"},
		{"no query root", "type User { id: ID }"},
		{"query root is not an object", "schema { query: Q }\nscalar Q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSDL(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnrecognizedSchema)
		})
	}
}

func TestTypeRef_String(t *testing.T) {
	tests := []struct {
		ref  TypeRef
		want string
	}{
		{TypeRef{Name: "T"}, "T"},
		{TypeRef{Name: "T", Wrapping: []Modifier{NonNull}}, "T!"},
		{TypeRef{Name: "T", Wrapping: []Modifier{List}}, "[T]"},
		{TypeRef{Name: "T", Wrapping: []Modifier{List, NonNull}}, "[T]!"},
		{TypeRef{Name: "T", Wrapping: []Modifier{NonNull, List}}, "[T!]"},
		{TypeRef{Name: "T", Wrapping: []Modifier{NonNull, List, NonNull}}, "[T!]!"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.String())
		})
	}
}
