// Package output writes generated modules into the spago workspace.
package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/okra-platform/gqlpurs/internal/codegen"
	"github.com/okra-platform/gqlpurs/internal/codegen/purescript"
	"github.com/okra-platform/gqlpurs/internal/config"
)

// GitIgnore is written at the root of every schema library
const GitIgnore = `bower_components/
node_modules/
.pulp-cache/
output/
output-es/
generated-docs/
.psc-package/
.psc*
.purs*
.psa*
.spago
`

// FileSystem is the part of the file system the writer needs
type FileSystem interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Layout maps libraries and modules to paths inside the workspace
type Layout struct {
	Workspace *config.Workspace
}

// SchemaLib is the directory of a role's schema library
func (l Layout) SchemaLib(role string) string {
	return filepath.Join(l.Workspace.SchemaLibsDir, l.Workspace.SchemaLibsPrefix+purescript.Kebab(role))
}

// SharedEnumsLib is the directory of the shared GraphQL enum library
func (l Layout) SharedEnumsLib() string {
	return filepath.Join(l.Workspace.SharedGraphQLEnumsDir, l.Workspace.SharedGraphQLEnumsLib)
}

// PostgresEnumsLib is the directory of the database enum library
func (l Layout) PostgresEnumsLib() string {
	return filepath.Join(l.Workspace.PostgresEnumsDir, l.Workspace.PostgresEnumsLib)
}

// MocksLib is the directory of the override stand-in library
func (l Layout) MocksLib() string {
	return filepath.Join(l.Workspace.SharedGraphQLEnumsDir, config.MockLib)
}

// ModulePath is the source file of a module inside a library
func ModulePath(lib, module string) string {
	return filepath.Join(lib, "src", filepath.FromSlash(strings.ReplaceAll(module, ".", "/"))+".purs")
}

// Writer persists generated libraries
type Writer struct {
	fs     FileSystem
	layout Layout
	logger zerolog.Logger
}

// NewWriter creates a writer for the workspace ws
func NewWriter(ws *config.Workspace, logger zerolog.Logger) *Writer {
	return NewWriterWithFS(ws, osFileSystem{}, logger)
}

// NewWriterWithFS creates a writer on a custom file system
func NewWriterWithFS(ws *config.Workspace, fs FileSystem, logger zerolog.Logger) *Writer {
	return &Writer{
		fs:     fs,
		layout: Layout{Workspace: ws},
		logger: logger.With().Str("component", "output").Logger(),
	}
}

// Layout returns the paths the writer uses
func (w *Writer) Layout() Layout {
	return w.layout
}

// Write stores text at path, creating parent directories as needed
func (w *Writer) Write(path, text string) error {
	if err := w.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := w.fs.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.logger.Debug().Str("path", path).Msg("Wrote file")
	return nil
}

// WriteRole writes a role's schema library: the schema and directives
// modules, spago.yaml and .gitignore.
func (w *Writer) WriteRole(rm *codegen.RoleModule) error {
	lib := w.layout.SchemaLib(rm.Role)
	name := w.layout.Workspace.SchemaLibsPrefix + purescript.Kebab(rm.Role)

	manifest, err := SpagoManifest(name, rm.Packages)
	if err != nil {
		return err
	}

	files := []struct{ path, text string }{
		{ModulePath(lib, rm.Schema.Name), rm.Schema.String()},
		{ModulePath(lib, rm.Directives.Name), rm.Directives.String()},
		{filepath.Join(lib, "spago.yaml"), manifest},
		{filepath.Join(lib, ".gitignore"), GitIgnore},
	}
	for _, f := range files {
		if err := w.Write(f.path, f.text); err != nil {
			return err
		}
	}
	w.logger.Info().Str("role", rm.Role).Str("lib", lib).Msg("Wrote schema library")
	return nil
}

// WriteLibrary writes standalone modules into lib together with a
// spago.yaml depending on every package they import.
func (w *Writer) WriteLibrary(lib, name string, mods []*purescript.Module) error {
	if len(mods) == 0 {
		return nil
	}
	manifest, err := SpagoManifest(name, codegen.LibraryManifest(mods))
	if err != nil {
		return err
	}
	for _, m := range mods {
		if err := w.Write(ModulePath(lib, m.Name), m.String()); err != nil {
			return err
		}
	}
	if err := w.Write(filepath.Join(lib, "spago.yaml"), manifest); err != nil {
		return err
	}
	w.logger.Info().Str("lib", lib).Int("modules", len(mods)).Msg("Wrote library")
	return nil
}

type spagoFile struct {
	Package spagoPackage `yaml:"package"`
}

type spagoPackage struct {
	Name         string   `yaml:"name"`
	Dependencies []string `yaml:"dependencies"`
}

// SpagoManifest renders a spago.yaml declaring package name with deps
func SpagoManifest(name string, deps []string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(spagoFile{Package: spagoPackage{Name: name, Dependencies: deps}}); err != nil {
		return "", fmt.Errorf("failed to render spago.yaml for %s: %w", name, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to render spago.yaml for %s: %w", name, err)
	}
	return buf.String(), nil
}
