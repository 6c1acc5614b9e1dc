package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const introspectionFixture = `{
  "data": {
    "__schema": {
      "queryType": { "name": "query_root" },
      "mutationType": null,
      "subscriptionType": null,
      "types": [
        {
          "kind": "OBJECT",
          "name": "query_root",
          "description": null,
          "fields": [
            {
              "name": "users",
              "description": "fetch data from the table: \"users\"",
              "args": [
                {
                  "name": "limit",
                  "description": null,
                  "type": { "kind": "SCALAR", "name": "Int", "ofType": null },
                  "defaultValue": null
                }
              ],
              "type": {
                "kind": "NON_NULL", "name": null,
                "ofType": {
                  "kind": "LIST", "name": null,
                  "ofType": {
                    "kind": "NON_NULL", "name": null,
                    "ofType": { "kind": "OBJECT", "name": "users", "ofType": null }
                  }
                }
              }
            }
          ],
          "inputFields": null,
          "enumValues": null
        },
        {
          "kind": "OBJECT",
          "name": "users",
          "fields": [
            {
              "name": "tags",
              "args": [],
              "type": {
                "kind": "LIST", "name": null,
                "ofType": { "kind": "SCALAR", "name": "String", "ofType": null }
              }
            }
          ]
        },
        {
          "kind": "ENUM",
          "name": "order_by",
          "enumValues": [
            { "name": "asc", "description": "in ascending order" },
            { "name": "desc", "description": null }
          ]
        },
        {
          "kind": "INPUT_OBJECT",
          "name": "users_bool_exp",
          "inputFields": [
            {
              "name": "_not",
              "type": { "kind": "INPUT_OBJECT", "name": "users_bool_exp", "ofType": null },
              "defaultValue": null
            }
          ]
        }
      ],
      "directives": [
        {
          "name": "cached",
          "description": "whether this query should be cached",
          "locations": ["QUERY"],
          "args": [
            {
              "name": "ttl",
              "type": {
                "kind": "NON_NULL", "name": null,
                "ofType": { "kind": "SCALAR", "name": "Int", "ofType": null }
              },
              "defaultValue": "60"
            }
          ]
        }
      ]
    }
  }
}`

func TestDecodeIntrospection(t *testing.T) {
	// Test plan:
	// - Decode a full response envelope
	// - ofType chains become innermost-first wrapping stacks
	// - null descriptions and defaults become empty strings

	s, err := DecodeIntrospection([]byte(introspectionFixture))
	require.NoError(t, err)

	assert.Equal(t, "query_root", s.QueryType)
	assert.Empty(t, s.MutationType)
	require.Len(t, s.Types, 4)

	root, ok := s.Lookup("query_root")
	require.True(t, ok)
	assert.Equal(t, KindObject, root.Kind)
	assert.Empty(t, root.Description)

	users := root.Fields[0]
	assert.Equal(t, `fetch data from the table: "users"`, users.Description)
	assert.Equal(t, TypeRef{Name: "users", Wrapping: []Modifier{NonNull, List, NonNull}}, users.Type)
	require.Len(t, users.Args, 1)
	assert.Equal(t, "Int", users.Args[0].Type.String())

	u, _ := s.Lookup("users")
	assert.Equal(t, "[String]", u.Fields[0].Type.String())

	orderBy, _ := s.Lookup("order_by")
	assert.Equal(t, KindEnum, orderBy.Kind)
	assert.Equal(t, []EnumValue{{Name: "asc", Description: "in ascending order"}, {Name: "desc"}}, orderBy.EnumValues)

	boolExp, _ := s.Lookup("users_bool_exp")
	assert.Equal(t, KindInputObject, boolExp.Kind)
	assert.Equal(t, "users_bool_exp", boolExp.InputFields[0].Type.String())

	require.Len(t, s.Directives, 1)
	assert.Equal(t, "60", s.Directives[0].Args[0].DefaultValue)
	assert.Equal(t, "Int!", s.Directives[0].Args[0].Type.String())
	assert.Equal(t, []string{"QUERY"}, s.Directives[0].Locations)
}

func TestDecodeIntrospection_BareSchema(t *testing.T) {
	data := `{"__schema": {"queryType": {"name": "Query"}, "types": [{"kind": "OBJECT", "name": "Query", "fields": []}], "directives": []}}`

	s, err := DecodeIntrospection([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "Query", s.QueryType)
}

func TestDecodeIntrospection_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"invalid json", `{`, "decode introspection"},
		{"graphql errors", `{"errors": [{"message": "not allowed"}]}`, "not allowed"},
		{"no schema", `{"data": {}}`, "no __schema"},
		{"missing query root", `{"__schema": {"queryType": null, "types": []}}`, "no query root"},
		{"unknown query root", `{"__schema": {"queryType": {"name": "Q"}, "types": []}}`, `"Q"`},
		{
			"dangling modifier",
			`{"__schema": {"queryType": {"name": "Q"}, "types": [{"kind": "OBJECT", "name": "Q", "fields": [{"name": "f", "type": {"kind": "NON_NULL", "name": null, "ofType": null}}]}]}}`,
			"ends in a modifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeIntrospection([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnrecognizedSchema)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(introspectionFixture), 0o644))
	s, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "query_root", s.QueryType)

	sdlPath := filepath.Join(dir, "schema.graphql")
	require.NoError(t, os.WriteFile(sdlPath, []byte("type Query { ping: Boolean }"), 0o644))
	s, err = Load(sdlPath)
	require.NoError(t, err)
	assert.Equal(t, "Query", s.QueryType)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
