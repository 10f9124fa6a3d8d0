package gen

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/tools/imports"

	"github.com/llehouerou/go-graphql-projection/schema"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.New("projection.tmpl").Funcs(template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}).ParseFS(templateFS, "templates/*.tmpl"))

// Generate loads the configured schema and returns the formatted source of
// the generated file.
func Generate(cfg *Config) ([]byte, error) {
	var sources []*ast.Source
	for _, path := range cfg.SchemaPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", path, err)
		}
		sources = append(sources, &ast.Source{Name: filepath.Base(path), Input: string(data)})
	}
	s, err := schema.Load(sources...)
	if err != nil {
		return nil, err
	}
	return GenerateSchema(cfg, s)
}

// GenerateSchema renders the generated file for an already loaded schema.
func GenerateSchema(cfg *Config, s *schema.Schema) ([]byte, error) {
	data, err := buildFile(cfg, s)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	out, err := imports.Process(cfg.Output, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return out, nil
}

// WriteFile generates the code and writes it to the configured output.
func WriteFile(cfg *Config) error {
	out, err := Generate(cfg)
	if err != nil {
		return err
	}
	path := cfg.OutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
