package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfiguration marks malformed or inconsistent configuration. It is fatal
// for the whole run.
var ErrConfiguration = errors.New("configuration error")

// WorkspaceFileName is looked up in the current directory and its parents
// when no workspace file is given explicitly.
const WorkspaceFileName = "gqlpurs.workspace.yaml"

// Workspace describes where the generated spago libraries live
type Workspace struct {
	PostgresEnumsLib      string `yaml:"postgres_enums_lib"`
	PostgresEnumsDir      string `yaml:"postgres_enums_dir"`
	SharedGraphQLEnumsLib string `yaml:"shared_graphql_enums_lib"`
	SharedGraphQLEnumsDir string `yaml:"shared_graphql_enums_dir"`
	SchemaLibsPrefix      string `yaml:"schema_libs_prefix"`
	SchemaLibsDir         string `yaml:"schema_libs_dir"`
}

// LoadWorkspace loads the workspace configuration from a specific path
func LoadWorkspace(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("%w: failed to parse workspace file %s: %v", ErrConfiguration, path, err)
	}

	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &ws, nil
}

// Validate reports every missing key at once
func (w *Workspace) Validate() error {
	var missing []string
	for _, kv := range []struct{ key, value string }{
		{"postgres_enums_lib", w.PostgresEnumsLib},
		{"postgres_enums_dir", w.PostgresEnumsDir},
		{"shared_graphql_enums_lib", w.SharedGraphQLEnumsLib},
		{"shared_graphql_enums_dir", w.SharedGraphQLEnumsDir},
		{"schema_libs_prefix", w.SchemaLibsPrefix},
		{"schema_libs_dir", w.SchemaLibsDir},
	} {
		if kv.value == "" {
			missing = append(missing, kv.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: workspace is missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// FindWorkspace searches for WorkspaceFileName in startDir and its parents
// and returns the path of the first one found.
func FindWorkspace(startDir string) (string, error) {
	dir := startDir
	for {
		path := filepath.Join(dir, WorkspaceFileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: no %s found in %s or any parent directory", ErrConfiguration, WorkspaceFileName, startDir)
}

// LoadRoles reads a YAML list of role names
func LoadRoles(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roles file: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: failed to parse roles file %s: %v", ErrConfiguration, path, err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: roles file %s must be a list of role names", ErrConfiguration, path)
	}

	seen := make(map[string]bool)
	var roles []string
	for _, item := range node.Content[0].Content {
		if item.Kind != yaml.ScalarNode || item.Value == "" {
			return nil, fmt.Errorf("%w: roles file %s line %d: roles must be plain strings", ErrConfiguration, path, item.Line)
		}
		if seen[item.Value] {
			return nil, fmt.Errorf("%w: roles file %s: role %q is listed twice", ErrConfiguration, path, item.Value)
		}
		seen[item.Value] = true
		roles = append(roles, item.Value)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: roles file %s lists no roles", ErrConfiguration, path)
	}
	return roles, nil
}
