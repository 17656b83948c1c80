package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/tstyper/internal/errors"
	"github.com/mcncl/tstyper/internal/models"
	"github.com/mcncl/tstyper/internal/parser"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for tstyper
type Config struct {
	RootName     string             `yaml:"root_name"`
	ItemName     string             `yaml:"item_name"`
	Declarations DeclarationsConfig `yaml:"declarations"`
	Inference    InferenceConfig    `yaml:"inference"`
	Naming       NamingConfig       `yaml:"naming"`
	Input        InputConfig        `yaml:"input"`
	Output       OutputConfig       `yaml:"output"`
	Dev          DevConfig          `yaml:"dev"`
}

// DeclarationsConfig controls how declarations are written
type DeclarationsConfig struct {
	Style  models.DeclarationStyle `yaml:"style"`
	Export bool                    `yaml:"export"`
	Indent string                  `yaml:"indent"`
}

// InferenceConfig controls type inference
type InferenceConfig struct {
	OptionalOnNull    bool `yaml:"optional_on_null"`
	DetectStringEnums bool `yaml:"detect_string_enums"`
}

// NamingConfig controls declaration naming
type NamingConfig struct {
	// SanitizeNames turns names such as "api-response" into "ApiResponse"
	// instead of rejecting them.
	SanitizeNames bool `yaml:"sanitize_names"`
}

// InputConfig controls how input is read
type InputConfig struct {
	Repair bool   `yaml:"repair"`
	Path   string `yaml:"path"`
}

// OutputConfig controls output generation options
type OutputConfig struct {
	FileHeader string `yaml:"file_header"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	defaults := models.DefaultOptions()
	return &Config{
		RootName: defaults.RootName,
		ItemName: defaults.ItemName,
		Declarations: DeclarationsConfig{
			Style:  defaults.Style,
			Export: defaults.Export,
			Indent: defaults.Indent,
		},
		Inference: InferenceConfig{
			OptionalOnNull:    defaults.OptionalOnNull,
			DetectStringEnums: defaults.DetectStringEnums,
		},
		Naming: NamingConfig{
			SanitizeNames: false,
		},
		Input:  InputConfig{},
		Output: OutputConfig{},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	// Start with defaults so omitted keys keep their default value
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".tstyper.yml", ".tstyper.yaml", "tstyper.yml", "tstyper.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks the configuration, sanitising names when
// naming.sanitize_names is enabled.
func (c *Config) Validate() error {
	if c.Declarations.Style == "" {
		c.Declarations.Style = models.StyleInterface
	}
	if !c.Declarations.Style.Valid() {
		return errors.NewConfigError(
			fmt.Sprintf("declaration style '%s' must be '%s' or '%s'", c.Declarations.Style, models.StyleInterface, models.StyleTypeAlias),
			errors.ErrInvalidStyle,
		)
	}

	var err error
	if c.RootName, err = c.checkName("root_name", c.RootName); err != nil {
		return err
	}
	if c.ItemName, err = c.checkName("item_name", c.ItemName); err != nil {
		return err
	}
	if c.RootName == c.ItemName {
		return errors.NewConfigError(
			fmt.Sprintf("root_name and item_name must differ, both are '%s'", c.RootName),
			errors.ErrInvalidName,
		)
	}

	if strings.TrimLeft(c.Declarations.Indent, " \t") != "" {
		return errors.NewConfigError("indent may only contain spaces and tabs", nil)
	}
	if c.Declarations.Indent == "" {
		c.Declarations.Indent = models.DefaultOptions().Indent
	}

	return nil
}

func (c *Config) checkName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if models.IsIdentifier(name) {
		return name, nil
	}
	if c.Naming.SanitizeNames {
		if sanitized := strcase.ToCamel(name); models.IsIdentifier(sanitized) {
			return sanitized, nil
		}
	}
	return "", errors.NewConfigError(
		fmt.Sprintf("%s '%s' is not a valid TypeScript identifier", field, name),
		errors.ErrInvalidName,
	)
}

// Overrides holds values given on the command line. Empty strings and false
// booleans mean "not set" and leave the file value in place, except for
// NoEnums which switches enum detection off.
type Overrides struct {
	RootName       string
	ItemName       string
	Style          string
	OptionalOnNull bool
	NoEnums        bool
	Export         bool
	Repair         bool
	Path           string
	Debug          bool
	LogFile        string
}

// Apply merges CLI overrides into the config
func (c *Config) Apply(o Overrides) {
	if o.RootName != "" {
		c.RootName = o.RootName
	}
	if o.ItemName != "" {
		c.ItemName = o.ItemName
	}
	if o.Style != "" {
		c.Declarations.Style = models.DeclarationStyle(strings.ToLower(o.Style))
	}
	if o.OptionalOnNull {
		c.Inference.OptionalOnNull = true
	}
	if o.NoEnums {
		c.Inference.DetectStringEnums = false
	}
	if o.Export {
		c.Declarations.Export = true
	}
	if o.Repair {
		c.Input.Repair = true
	}
	if o.Path != "" {
		c.Input.Path = o.Path
	}
	if o.Debug {
		c.Dev.Debug = true
	}
	if o.LogFile != "" {
		c.Dev.LogFile = o.LogFile
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI flags > config file > defaults. The result is validated.
func LoadConfigWithCLI(configPath string, overrides Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg.Apply(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToOptions returns the inference configuration for one conversion
func (c *Config) ToOptions() models.Options {
	return models.Options{
		Style:             c.Declarations.Style,
		OptionalOnNull:    c.Inference.OptionalOnNull,
		DetectStringEnums: c.Inference.DetectStringEnums,
		RootName:          c.RootName,
		ItemName:          c.ItemName,
		Export:            c.Declarations.Export,
		Indent:            c.Declarations.Indent,
	}
}

// ParserOptions returns the input handling options
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		Repair: c.Input.Repair,
		Path:   c.Input.Path,
	}
}
