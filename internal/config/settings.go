package config

import (
	"fmt"
	"strings"
)

// Settings are the run-wide settings derived from flags and environment
// variables. They are built once at startup and passed down explicitly.
type Settings struct {
	GraphQLURL    string
	GraphQLSecret string
	// SchemaFile, when set, replaces introspection over HTTP. The same
	// schema is then used for every role.
	SchemaFile string

	RolesFile     string
	WorkspaceFile string
	OverrideFiles []string

	SharedEnumSuffixes []string
	DatabaseURL        string
	MockOutsideTypes   bool
	DirectivesProxy    bool
	Concurrency        int
}

// SplitList splits a comma separated flag value, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks the settings needed for a generation run
func (s *Settings) Validate() error {
	var problems []string
	if s.SchemaFile == "" && s.GraphQLURL == "" {
		problems = append(problems, "GRAPHQL_URL (or a schema file) is required")
	}
	if s.RolesFile == "" {
		problems = append(problems, "ROLES_YAML is required")
	}
	if s.WorkspaceFile == "" {
		problems = append(problems, "SPAGO_WORKSPACE_CONFIG_YAML is required")
	}
	if s.Concurrency < 0 {
		problems = append(problems, "concurrency cannot be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}
