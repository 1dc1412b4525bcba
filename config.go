package asterix

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide set of options governing one decode run: where
// the category schemas live, which categories to load, which output shape
// to produce, and an optional filter_spec. It is populated either by
// loading a YAML file or by the fluent With* setters, mirroring the
// option-builder shape the teacher uses for per-connection settings.
type Config struct {
	CataloguePath    string   `yaml:"catalogue_path"`
	CategoriesToLoad []int    `yaml:"categories_to_load"`
	FilterSpec       string   `yaml:"filter_spec"`
	OutputFormat     string   `yaml:"output_format"`
	LogLevel         string   `yaml:"log_level"`
	Verbose          bool     `yaml:"verbose"`
}

// NewConfig returns a Config with the built-in defaults: schemas under
// ./catalogue, every category loaded, Text output, no filter.
func NewConfig() *Config {
	return &Config{
		CataloguePath: "catalogue",
		OutputFormat:  "text",
		LogLevel:      "error",
	}
}

// WithCataloguePath sets the directory the schema loader reads category XML
// from and returns c, for chaining.
func (c *Config) WithCataloguePath(dir string) *Config {
	c.CataloguePath = dir
	return c
}

// WithCategories restricts the schema loader to the given category numbers
// and returns c, for chaining. An empty list (the default) loads every
// category found under CataloguePath.
func (c *Config) WithCategories(ids []int) *Config {
	c.CategoriesToLoad = ids
	return c
}

// WithOutputFormat sets the output shape by name (text, compact-json,
// human-json, extensive-json, compact-xml, human-xml, eout) and returns c,
// for chaining.
func (c *Config) WithOutputFormat(format string) *Config {
	c.OutputFormat = format
	return c
}

// WithFilterSpec sets the filter_spec string and returns c, for chaining.
func (c *Config) WithFilterSpec(spec string) *Config {
	c.FilterSpec = spec
	return c
}

// WithVerbose sets the Verbose flag and returns c, for chaining. Verbose is
// passed on to the emitter, but no output shape reads it: extensive-json
// always includes each field's hex, mask, name and meaning.
func (c *Config) WithVerbose(v bool) *Config {
	c.Verbose = v
	return c
}

// LoadConfig reads and parses a YAML configuration file, starting from
// NewConfig's defaults so a partial file only overrides what it names.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveOutputFormat resolves the configured OutputFormat name to its
// OutputFormat value, defaulting to Text for an unrecognized or empty name.
func (c *Config) ResolveOutputFormat() OutputFormat {
	switch c.OutputFormat {
	case "compact-json":
		return CompactJSON
	case "human-json":
		return HumanJSON
	case "extensive-json":
		return ExtensiveJSON
	case "compact-xml":
		return CompactXML
	case "human-xml":
		return HumanXML
	case "eout":
		return EOut
	default:
		return Text
	}
}

// WantsCategory reports whether id should be loaded: true for every
// category when CategoriesToLoad is empty, else only for listed ids.
func (c *Config) WantsCategory(id int) bool {
	if len(c.CategoriesToLoad) == 0 {
		return true
	}
	for _, want := range c.CategoriesToLoad {
		if want == id {
			return true
		}
	}
	return false
}
