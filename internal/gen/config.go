// Package gen generates typed projection builders, entities and an
// operation context from a GraphQL schema.
package gen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the generator configuration, usually read from a YAML file.
type Config struct {
	// Schema lists the SDL files, relative to the config file.
	Schema []string `yaml:"schema"`
	// Package is the Go package name of the generated file.
	Package string `yaml:"package"`
	// Output is the generated file path, relative to the config file.
	Output string `yaml:"output"`
	// SchemaVar names the string variable, declared in the target package,
	// that holds the SDL at run time (typically via go:embed).
	SchemaVar string `yaml:"schemaVar"`
	// SchemaName is the source name the schema is loaded under.
	SchemaName string `yaml:"schemaName"`
	// Scalars maps custom scalar names (and optionally built-ins) to Go.
	Scalars map[string]ScalarConfig `yaml:"scalars"`

	dir string
}

// ScalarConfig binds a GraphQL scalar to a Go type and a registry codec.
type ScalarConfig struct {
	// Type is the Go type as written in generated code, e.g. "time.Time".
	Type string `yaml:"type"`
	// Import is the import path Type needs, if any.
	Import string `yaml:"import"`
	// Codec is the expression of the scalar.Codec, e.g. "scalar.Date".
	Codec string `yaml:"codec"`
}

var builtinScalars = map[string]ScalarConfig{
	"Int":     {Type: "int", Codec: "scalar.Int"},
	"Float":   {Type: "float64", Codec: "scalar.Float"},
	"String":  {Type: "string", Codec: "scalar.String"},
	"Boolean": {Type: "bool", Codec: "scalar.Boolean"},
	"ID":      {Type: "string", Codec: "scalar.ID"},
}

// LoadConfig reads and validates a YAML configuration file. Relative paths
// in it are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the required keys and fills in defaults.
func (c *Config) Validate() error {
	var errs []error
	if c.Package == "" {
		errs = append(errs, errors.New("package is required"))
	}
	if len(c.Schema) == 0 {
		errs = append(errs, errors.New("at least one schema file is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	for name, s := range c.Scalars {
		if s.Type == "" || s.Codec == "" {
			errs = append(errs, fmt.Errorf("scalar %s needs both type and codec", name))
		}
	}
	if c.SchemaVar == "" {
		c.SchemaVar = "SchemaSDL"
	}
	if c.SchemaName == "" && len(c.Schema) > 0 {
		c.SchemaName = filepath.Base(c.Schema[0])
	}
	return errors.Join(errs...)
}

// SchemaPaths returns the schema files resolved against the config file.
func (c *Config) SchemaPaths() []string {
	paths := make([]string, len(c.Schema))
	for i, p := range c.Schema {
		paths[i] = c.resolve(p)
	}
	return paths
}

// OutputPath returns the output file resolved against the config file.
func (c *Config) OutputPath() string {
	return c.resolve(c.Output)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// scalar returns the binding of a scalar, falling back to the built-ins.
func (c *Config) scalar(name string) (ScalarConfig, bool) {
	if s, ok := c.Scalars[name]; ok {
		return s, true
	}
	s, ok := builtinScalars[name]
	return s, ok
}
