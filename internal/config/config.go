package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/magiconair/properties"
	"github.com/mcncl/jsonrewrite/internal/errors"
	"github.com/mcncl/jsonrewrite/internal/models"
	"github.com/mcncl/jsonrewrite/internal/rewriter"
	"gopkg.in/yaml.v3"
)

// DefaultEnvPrefix marks environment variables that are exposed to
// replacement values.
const DefaultEnvPrefix = "JSONREWRITE_VAR_"

// Config represents the complete configuration for jsonrewrite
type Config struct {
	Strategy          string            `yaml:"strategy"`
	Mode              string            `yaml:"mode"`
	Mappings          []MappingConfig   `yaml:"mappings"`
	MappingFile       string            `yaml:"mapping_file"`
	Variables         map[string]string `yaml:"variables"`
	VariableEnvPrefix string            `yaml:"variable_env_prefix"`
	Output            OutputConfig      `yaml:"output"`
	Dev               DevConfig         `yaml:"dev"`

	// directory of the loaded file, used to resolve MappingFile (not serialized)
	baseDir string
	// --var values, which beat both the file and the environment
	cliVariables map[string]string
}

// MappingConfig is one rewrite rule as written in the config file
type MappingConfig struct {
	Selector string `yaml:"selector"`
	Value    string `yaml:"value"`
	Type     string `yaml:"type,omitempty"`
}

// OutputConfig controls how the rewritten document is printed
type OutputConfig struct {
	Pretty bool   `yaml:"pretty"`
	Indent string `yaml:"indent"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Strategy:          models.ExactMatch.String(),
		Mode:              rewriter.ModePath.String(),
		Mappings:          []MappingConfig{},
		Variables:         make(map[string]string),
		VariableEnvPrefix: DefaultEnvPrefix,
		Output: OutputConfig{
			Pretty: false,
			Indent: "  ",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}
	if cfg.Variables == nil {
		cfg.Variables = make(map[string]string)
	}
	cfg.baseDir = filepath.Dir(path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(currentDir)
}

func findConfigFrom(dir string) string {
	configNames := []string{".jsonrewrite.yml", ".jsonrewrite.yaml", "jsonrewrite.yml", "jsonrewrite.yaml"}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root directory
			break
		}
		dir = parentDir
	}

	return ""
}

// Validate checks the strategy, mode and every inline mapping.
func (c *Config) Validate() error {
	if _, err := c.PathStrategy(); err != nil {
		return err
	}
	if _, err := c.MappingMode(); err != nil {
		return err
	}
	for _, m := range c.Mappings {
		if _, err := m.Entry(); err != nil {
			return errors.NewConfigError("invalid mapping in config", err)
		}
	}
	return nil
}

// PathStrategy returns the configured path mapping strategy.
func (c *Config) PathStrategy() (models.PathMappingStrategy, error) {
	s, err := models.ParseStrategy(c.Strategy)
	if err != nil {
		return s, errors.NewConfigError("invalid strategy", err)
	}
	return s, nil
}

// MappingMode returns how selectors are to be interpreted.
func (c *Config) MappingMode() (rewriter.Mode, error) {
	m, err := rewriter.ParseMode(c.Mode)
	if err != nil {
		return m, errors.NewConfigError("invalid mode", err)
	}
	return m, nil
}

// Entry converts a configured rule into a mapping entry.
func (m MappingConfig) Entry() (models.MappingEntry, error) {
	if strings.TrimSpace(m.Selector) == "" {
		return models.MappingEntry{}, &errors.InvalidMappingError{Reason: "selector is empty"}
	}
	hint, err := models.ParseTypeHint(m.Type)
	if err != nil {
		return models.MappingEntry{}, &errors.InvalidMappingError{Selector: m.Selector, Reason: err.Error()}
	}
	return models.MappingEntry{Selector: m.Selector, Replacement: m.Value, Type: hint}, nil
}

// MappingFilePath resolves MappingFile against the directory of the config
// file it came from.
func (c *Config) MappingFilePath() string {
	if c.MappingFile == "" || filepath.IsAbs(c.MappingFile) || c.baseDir == "" {
		return c.MappingFile
	}
	return filepath.Join(c.baseDir, c.MappingFile)
}

// BuildMappings returns the mapping file entries in file order followed by
// the inline mappings in config order.
func (c *Config) BuildMappings() (models.Mappings, error) {
	var mappings models.Mappings
	if path := c.MappingFilePath(); path != "" {
		fromFile, err := LoadPropertiesFile(path)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, fromFile...)
	}
	for _, m := range c.Mappings {
		entry, err := m.Entry()
		if err != nil {
			return nil, errors.NewConfigError("invalid mapping", err)
		}
		mappings = append(mappings, entry)
	}
	return mappings, nil
}

// LoadPropertiesFile reads selector=value pairs from a properties file. Keys
// keep file order and ${...} is left untouched for the resolver.
func LoadPropertiesFile(path string) (models.Mappings, error) {
	p, err := propertiesLoader().LoadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load mapping file '%s'", path), err)
	}
	return propertiesMappings(p), nil
}

// ParseProperties reads selector=value pairs from properties text.
func ParseProperties(data string) (models.Mappings, error) {
	p, err := propertiesLoader().LoadBytes([]byte(data))
	if err != nil {
		return nil, errors.NewConfigError("failed to parse mappings", err)
	}
	return propertiesMappings(p), nil
}

func propertiesLoader() *properties.Loader {
	return &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
}

func propertiesMappings(p *properties.Properties) models.Mappings {
	mappings := make(models.Mappings, 0, p.Len())
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		mappings = mappings.Add(key, value)
	}
	return mappings
}

// Indent returns the serializer indent, or "" for compact output.
func (c *Config) Indent() string {
	if !c.Output.Pretty {
		return ""
	}
	if c.Output.Indent == "" {
		return "  "
	}
	return c.Output.Indent
}

// VariableContext merges variables from the config file, the environment and
// the command line, later sources winning. For environment variables the
// prefix is stripped and the rest converted to lowerCamelCase, so
// JSONREWRITE_VAR_HELLO_TEXT becomes helloText.
func (c *Config) VariableContext(environ []string) models.MapContext {
	vars := make(models.MapContext, len(c.Variables))
	for k, v := range c.Variables {
		vars[k] = v
	}
	if c.VariableEnvPrefix != "" {
		for _, kv := range environ {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || !strings.HasPrefix(key, c.VariableEnvPrefix) {
				continue
			}
			name := strings.TrimPrefix(key, c.VariableEnvPrefix)
			if name == "" {
				continue
			}
			vars[strcase.ToLowerCamel(strings.ToLower(name))] = value
		}
	}
	for k, v := range c.cliVariables {
		vars[k] = v
	}
	return vars
}

// RewriterOptions translates the config into engine options.
func (c *Config) RewriterOptions() ([]rewriter.Option, error) {
	strategy, err := c.PathStrategy()
	if err != nil {
		return nil, err
	}
	mode, err := c.MappingMode()
	if err != nil {
		return nil, err
	}
	opts := []rewriter.Option{rewriter.WithStrategy(strategy), rewriter.WithMode(mode)}
	if indent := c.Indent(); indent != "" {
		opts = append(opts, rewriter.WithIndent(indent))
	}
	return opts, nil
}

// Overrides carries command-line values. Empty strings and nil slices leave
// the config untouched.
type Overrides struct {
	Strategy    string
	Mode        string
	Mappings    []string
	MappingFile string
	Variables   []string
	Pretty      bool
	Debug       bool
}

// ParseAssignment splits "name=value" at the first '='.
func ParseAssignment(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", s)
	}
	return name, value, nil
}

// MergeConfigs applies CLI overrides on top of base.
// Mappings from the command line are appended after the configured ones.
func MergeConfigs(base *Config, o Overrides) (*Config, error) {
	merged := *base
	merged.Mappings = append([]MappingConfig(nil), base.Mappings...)
	merged.cliVariables = make(map[string]string, len(base.cliVariables)+len(o.Variables))
	for k, v := range base.cliVariables {
		merged.cliVariables[k] = v
	}

	if o.Strategy != "" {
		merged.Strategy = o.Strategy
	}
	if o.Mode != "" {
		merged.Mode = o.Mode
	}
	if o.MappingFile != "" {
		abs, err := filepath.Abs(o.MappingFile)
		if err != nil {
			return nil, errors.NewConfigError("invalid mapping file path", err)
		}
		merged.MappingFile = abs
	}
	for _, m := range o.Mappings {
		selector, value, err := ParseAssignment(m)
		if err != nil {
			return nil, errors.NewConfigError("invalid --mapping", &errors.InvalidMappingError{Reason: err.Error()})
		}
		merged.Mappings = append(merged.Mappings, MappingConfig{Selector: selector, Value: value})
	}
	for _, v := range o.Variables {
		name, value, err := ParseAssignment(v)
		if err != nil {
			return nil, errors.NewConfigError("invalid --var", err)
		}
		merged.cliVariables[name] = value
	}
	if o.Pretty {
		merged.Output.Pretty = true
	}
	if o.Debug {
		merged.Dev.Debug = true
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfigWithCLI loads config with CLI argument precedence. With no path
// the defaults are used.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}
	return MergeConfigs(cfg, o)
}
