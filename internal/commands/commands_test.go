package commands

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/gqlpurs/internal/config"
	"github.com/okra-platform/gqlpurs/internal/schema"
)

const testSDL = `
type Query {
  users(where: users_bool_exp): [users!]!
}

type users {
  id: Int!
  user_id: uuid!
  status: StatusEnum
  plan: plan_type
}

input users_bool_exp {
  id: Int
}

scalar uuid

enum StatusEnum {
  ACTIVE
  DONE
}

enum plan_type {
  free
  pro
}
`

// project lays out a workspace, roles file, overrides file and schema in a
// temp dir and returns settings pointing at them.
func project(t *testing.T, roles string) (string, config.Settings) {
	t.Helper()
	root := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	workspace := write("gqlpurs.workspace.yaml", `
postgres_enums_lib: generated-postgres
postgres_enums_dir: `+filepath.Join(root, "db")+`
shared_graphql_enums_lib: oa-gql-enums
shared_graphql_enums_dir: `+filepath.Join(root, "shared")+`
schema_libs_prefix: schema-
schema_libs_dir: `+filepath.Join(root, "schemas")+`
`)

	return root, config.Settings{
		SchemaFile:         write("schema.graphql", testSDL),
		RolesFile:          write("roles.yaml", roles),
		WorkspaceFile:      workspace,
		OverrideFiles:      []string{write("overrides.yaml", "outside_types:\n  users:\n    user_id: UserId, Data.Id.UserId, oa-ids\n")},
		SharedEnumSuffixes: []string{"Enum"},
		Concurrency:        2,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// stubSource serves one schema for every role except those in fail
type stubSource struct {
	schema *schema.Schema
	fail   map[string]bool
}

func (s stubSource) Fetch(_ context.Context, role string) (*schema.Schema, error) {
	if s.fail[role] {
		return nil, errors.New("role not found")
	}
	return s.schema, nil
}

func TestController_Generate(t *testing.T) {
	// Test plan:
	// - Every role gets a schema library with both modules
	// - Shared enums land in the shared library
	// - Override types resolve to the external module
	// - Mock modules are written when enabled

	root, settings := project(t, "- admin\n- user\n")
	settings.MockOutsideTypes = true

	c := &Controller{Flags: &Flags{Settings: settings}, Logger: zerolog.Nop()}
	require.NoError(t, c.Generate(context.Background()))

	for _, role := range []struct{ lib, module string }{
		{"schema-admin", "Admin"},
		{"schema-user", "User"},
	} {
		lib := filepath.Join(root, "schemas", role.lib)

		text := readFile(t, filepath.Join(lib, "src", "Schema", role.module+".purs"))
		assert.Contains(t, text, "module Schema."+role.module+" where")
		assert.Contains(t, text, "import Data.Id.UserId (UserId)")
		assert.Contains(t, text, "import OaGqlEnums.StatusEnum (StatusEnum)")

		assert.FileExists(t, filepath.Join(lib, "src", role.module, "Directives.purs"))
		assert.Contains(t, readFile(t, filepath.Join(lib, "spago.yaml")), "graphql-client")
		assert.FileExists(t, filepath.Join(lib, ".gitignore"))
	}

	shared := filepath.Join(root, "shared", "oa-gql-enums")
	assert.Contains(t, readFile(t, filepath.Join(shared, "src", "OaGqlEnums", "StatusEnum.purs")), "module OaGqlEnums.StatusEnum")
	assert.Contains(t, readFile(t, filepath.Join(shared, "spago.yaml")), "name: oa-gql-enums")

	mock := readFile(t, filepath.Join(root, "shared", "oa-ids", "src", "Data", "Id", "UserId.purs"))
	assert.Contains(t, mock, "newtype UserId")
}

func TestController_Generate_RoleFailureIsIsolated(t *testing.T) {
	root, settings := project(t, "- admin\n- broken\n- user\n")
	s, err := schema.ParseSDL(testSDL)
	require.NoError(t, err)

	c := &Controller{
		Flags:  &Flags{Settings: settings},
		Logger: zerolog.Nop(),
		Source: stubSource{schema: s, fail: map[string]bool{"broken": true}},
	}

	err = c.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role broken: role not found")
	assert.NotContains(t, err.Error(), "role admin")

	assert.FileExists(t, filepath.Join(root, "schemas", "schema-admin", "src", "Schema", "Admin.purs"))
	assert.FileExists(t, filepath.Join(root, "schemas", "schema-user", "src", "Schema", "User.purs"))
	assert.NoDirExists(t, filepath.Join(root, "schemas", "schema-broken"))
	assert.FileExists(t, filepath.Join(root, "shared", "oa-gql-enums", "src", "OaGqlEnums", "StatusEnum.purs"))
}

func TestController_Generate_DatabaseEnums(t *testing.T) {
	root, settings := project(t, "- admin\n")
	settings.DatabaseURL = "postgres://localhost/app"

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT pg_type.typname AS enumtype")).
		WillReturnRows(sqlmock.NewRows([]string{"enumtype", "enumlabel"}).AddRow("plan_type", "{free,pro}"))
	mock.ExpectClose()

	var opened string
	c := &Controller{
		Flags:  &Flags{Settings: settings},
		Logger: zerolog.Nop(),
		OpenDB: func(_ context.Context, url string) (*sql.DB, error) {
			opened = url
			return db, nil
		},
	}
	require.NoError(t, c.Generate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, "postgres://localhost/app", opened)

	lib := filepath.Join(root, "db", "generated-postgres")
	assert.Contains(t, readFile(t, filepath.Join(lib, "src", "GeneratedPostgres", "PlanType.purs")), "module GeneratedPostgres.PlanType")
	assert.FileExists(t, filepath.Join(lib, "spago.yaml"))

	text := readFile(t, filepath.Join(root, "schemas", "schema-admin", "src", "Schema", "Admin.purs"))
	assert.Contains(t, text, "import GeneratedPostgres.PlanType (PlanType)")
}

func TestController_Generate_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(s *config.Settings)
		errIs       error
		errContains string
	}{
		{
			name:   "no schema source",
			mutate: func(s *config.Settings) { s.SchemaFile = "" },
			errIs:  config.ErrConfiguration,
		},
		{
			name:        "missing roles file",
			mutate:      func(s *config.Settings) { s.RolesFile = filepath.Join(filepath.Dir(s.RolesFile), "missing.yaml") },
			errContains: "failed to read roles file",
		},
		{
			name:   "negative concurrency",
			mutate: func(s *config.Settings) { s.Concurrency = -1 },
			errIs:  config.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, settings := project(t, "- admin\n")
			tt.mutate(&settings)

			c := &Controller{Flags: &Flags{Settings: settings}, Logger: zerolog.Nop()}
			err := c.Generate(context.Background())
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}

func TestController_Watch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Test: adding a role to the roles file generates its library
	root, settings := project(t, "- admin\n")
	c := &Controller{Flags: &Flags{Settings: settings}, Logger: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()

	admin := filepath.Join(root, "schemas", "schema-admin", "src", "Schema", "Admin.purs")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(admin)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	// Give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(settings.RolesFile, []byte("- admin\n- user\n"), 0644))

	user := filepath.Join(root, "schemas", "schema-user", "src", "Schema", "User.purs")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(user)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func mockMigrations(t *testing.T, state string) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery("hdb_version").
		WillReturnRows(sqlmock.NewRows([]string{"migrations"}).AddRow(state))
	mock.ExpectClose()
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return db
}

func TestController_CheckMigrations(t *testing.T) {
	tests := []struct {
		name    string
		main    string
		codegen string
		want    string
	}{
		{
			name:    "up to date",
			main:    `{"1700000000001": false}`,
			codegen: `{"1700000000001": false}`,
			want:    "Up to date\n",
		},
		{
			name:    "codegen behind",
			main:    `{"1700000000001": false, "1700000000002": false}`,
			codegen: `{"1700000000001": false}`,
			want:    "Migrations missing from codegen db\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(dir, "1700000000001_init"), 0755))

			dbs := map[string]*sql.DB{
				"postgres://main":    mockMigrations(t, tt.main),
				"postgres://codegen": mockMigrations(t, tt.codegen),
			}
			var out bytes.Buffer
			c := &Controller{
				Flags: &Flags{
					Settings:           config.Settings{DatabaseURL: "postgres://main"},
					CodegenDatabaseURL: "postgres://codegen",
					MigrationsDir:      dir,
				},
				Logger: zerolog.Nop(),
				OpenDB: func(_ context.Context, url string) (*sql.DB, error) { return dbs[url], nil },
				Stdout: &out,
			}

			require.NoError(t, c.CheckMigrations(context.Background()))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestController_CheckMigrations_RequiresSettings(t *testing.T) {
	c := &Controller{Flags: &Flags{}, Logger: zerolog.Nop()}

	err := c.CheckMigrations(context.Background())
	require.ErrorIs(t, err, config.ErrConfiguration)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
	assert.Contains(t, err.Error(), "CODEGEN_DATABASE_URL is required")
	assert.Contains(t, err.Error(), "HASURA_MIGRATIONS_DIR is required")
}
