package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/gqlpurs/internal/commands"
	"github.com/okra-platform/gqlpurs/internal/config"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "gqlpurs",
		Usage:   "Generate PureScript schema libraries from Hasura GraphQL roles",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "graphql-url",
				Usage:   "GraphQL endpoint to introspect",
				Sources: cli.EnvVars("GRAPHQL_URL"),
			},
			&cli.StringFlag{
				Name:    "graphql-secret",
				Usage:   "Hasura admin secret",
				Sources: cli.EnvVars("GRAPHQL_SECRET"),
			},
			&cli.StringFlag{
				Name:  "schema-file",
				Usage: "read the schema from an SDL or introspection JSON file instead of the endpoint",
			},
			&cli.StringFlag{
				Name:    "roles",
				Usage:   "YAML list of roles to generate",
				Sources: cli.EnvVars("ROLES_YAML"),
			},
			&cli.StringFlag{
				Name:    "outside-types",
				Usage:   "comma separated override files",
				Sources: cli.EnvVars("OUTSIDE_TYPES_YAML"),
			},
			&cli.StringFlag{
				Name:    "workspace",
				Usage:   "workspace config (default: " + config.WorkspaceFileName + " in the current directory or a parent)",
				Sources: cli.EnvVars("SPAGO_WORKSPACE_CONFIG_YAML"),
			},
			&cli.StringFlag{
				Name:    "shared-enum-suffixes",
				Usage:   "comma separated suffixes of enums shared between roles",
				Sources: cli.EnvVars("SHARED_ENUM_SUFFIXES"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Postgres database to read enums from",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.BoolFlag{
				Name:    "mock-outside-types",
				Usage:   "write stand-in modules for override types",
				Sources: cli.EnvVars("MOCK_OUTSIDE_TYPES"),
			},
			&cli.BoolFlag{
				Name:  "directives-proxy",
				Usage: "reference the role's directives from the schema record",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "roles generated at once (0 for no limit)",
				Value: 4,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Logger = log.Logger
			ctrl.Flags.LogLevel = level.String()
			ctrl.Flags.Settings = config.Settings{
				GraphQLURL:         c.String("graphql-url"),
				GraphQLSecret:      c.String("graphql-secret"),
				SchemaFile:         c.String("schema-file"),
				RolesFile:          c.String("roles"),
				WorkspaceFile:      c.String("workspace"),
				OverrideFiles:      config.SplitList(c.String("outside-types")),
				SharedEnumSuffixes: config.SplitList(c.String("shared-enum-suffixes")),
				DatabaseURL:        c.String("database-url"),
				MockOutsideTypes:   c.Bool("mock-outside-types"),
				DirectivesProxy:    c.Bool("directives-proxy"),
				Concurrency:        int(c.Int("concurrency")),
			}

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate the schema library of every role",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx)
				},
			},
			{
				Name:  "watch",
				Usage: "Generate, then regenerate whenever an input file changes",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Watch(ctx)
				},
			},
			{
				Name:  "check-migrations",
				Usage: "Compare the Hasura migrations applied to the main and codegen databases",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "codegen-database-url",
						Usage:   "database the schemas are generated against",
						Sources: cli.EnvVars("CODEGEN_DATABASE_URL"),
					},
					&cli.StringFlag{
						Name:    "migrations-dir",
						Usage:   "Hasura migrations directory",
						Sources: cli.EnvVars("HASURA_MIGRATIONS_DIR"),
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					ctrl.Flags.CodegenDatabaseURL = c.String("codegen-database-url")
					ctrl.Flags.MigrationsDir = c.String("migrations-dir")
					return ctrl.CheckMigrations(ctx)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run gqlpurs")
	}
}
