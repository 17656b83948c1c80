package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcncl/tstyper/internal/errors"
	"github.com/mcncl/tstyper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".tstyper.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "Root", cfg.RootName)
	assert.Equal(t, "Item", cfg.ItemName)
	assert.Equal(t, models.StyleInterface, cfg.Declarations.Style)
	assert.False(t, cfg.Declarations.Export)
	assert.Equal(t, "  ", cfg.Declarations.Indent)
	assert.False(t, cfg.Inference.OptionalOnNull)
	assert.True(t, cfg.Inference.DetectStringEnums)
	assert.False(t, cfg.Naming.SanitizeNames)
	assert.False(t, cfg.Input.Repair)
	assert.Empty(t, cfg.Output.FileHeader)
	assert.False(t, cfg.Dev.Debug)

	assert.Equal(t, models.DefaultOptions(), cfg.ToOptions())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
root_name: "APIResponse"
item_name: "Entry"
declarations:
  style: "type"
  export: true
  indent: "    "
inference:
  optional_on_null: true
  detect_string_enums: false
naming:
  sanitize_names: true
input:
  repair: true
  path: "data.items"
output:
  file_header: "Code generated by tstyper. DO NOT EDIT."
dev:
  debug: true
  log_file: "/tmp/tstyper.log"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "APIResponse", cfg.RootName)
	assert.Equal(t, "Entry", cfg.ItemName)
	assert.Equal(t, models.StyleTypeAlias, cfg.Declarations.Style)
	assert.True(t, cfg.Declarations.Export)
	assert.Equal(t, "    ", cfg.Declarations.Indent)
	assert.True(t, cfg.Inference.OptionalOnNull)
	assert.False(t, cfg.Inference.DetectStringEnums)
	assert.True(t, cfg.Naming.SanitizeNames)
	assert.True(t, cfg.Input.Repair)
	assert.Equal(t, "data.items", cfg.Input.Path)
	assert.Equal(t, "Code generated by tstyper. DO NOT EDIT.", cfg.Output.FileHeader)
	assert.True(t, cfg.Dev.Debug)
	assert.Equal(t, "/tmp/tstyper.log", cfg.Dev.LogFile)

	parseOpts := cfg.ParserOptions()
	assert.True(t, parseOpts.Repair)
	assert.Equal(t, "data.items", parseOpts.Path)
}

func TestConfig_PartialYAMLKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `root_name: "Payload"`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Payload", cfg.RootName)
	assert.Equal(t, "Item", cfg.ItemName)
	assert.True(t, cfg.Inference.DetectStringEnums)
	assert.Equal(t, models.StyleInterface, cfg.Declarations.Style)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, `
root_name: "Root"
invalid_yaml: [unclosed array
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
	assert.Contains(t, errors.UserFriendlyError(err), "Configuration error")
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	configPath := filepath.Join(tmpDir, "project", ".tstyper.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(`root_name: "Found"`), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(nestedDir))

	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), `root_name: "Found"`)
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir := t.TempDir()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(tmpDir))

	// A config file in a parent of the temp dir would be found; skip rather
	// than fail on such machines.
	if found := FindConfigFile(); found != "" {
		t.Skipf("found unrelated config file %s", found)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		wantErr  error
		wantRoot string
		wantItem string
	}{
		{
			name:     "defaults",
			modify:   func(*Config) {},
			wantRoot: "Root",
			wantItem: "Item",
		},
		{
			name:     "empty style defaults to interface",
			modify:   func(c *Config) { c.Declarations.Style = "" },
			wantRoot: "Root",
			wantItem: "Item",
		},
		{
			name:    "unknown style",
			modify:  func(c *Config) { c.Declarations.Style = "class" },
			wantErr: errors.ErrInvalidStyle,
		},
		{
			name:    "invalid root name",
			modify:  func(c *Config) { c.RootName = "api-response" },
			wantErr: errors.ErrInvalidName,
		},
		{
			name: "sanitized root name",
			modify: func(c *Config) {
				c.RootName = "api-response"
				c.Naming.SanitizeNames = true
			},
			wantRoot: "ApiResponse",
			wantItem: "Item",
		},
		{
			name: "sanitized item name",
			modify: func(c *Config) {
				c.ItemName = "user_record"
				c.Naming.SanitizeNames = true
			},
			wantRoot: "Root",
			wantItem: "UserRecord",
		},
		{
			name: "unsanitizable name",
			modify: func(c *Config) {
				c.RootName = "123"
				c.Naming.SanitizeNames = true
			},
			wantErr: errors.ErrInvalidName,
		},
		{
			name:    "root and item clash",
			modify:  func(c *Config) { c.ItemName = "Root" },
			wantErr: errors.ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoot, cfg.RootName)
			assert.Equal(t, tt.wantItem, cfg.ItemName)
		})
	}
}

func TestConfig_ValidateIndent(t *testing.T) {
	cfg := NewConfig()
	cfg.Declarations.Indent = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "  ", cfg.Declarations.Indent)

	cfg.Declarations.Indent = "\t"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "\t", cfg.Declarations.Indent)

	cfg.Declarations.Indent = "--"
	assert.Error(t, cfg.Validate())
}

func TestConfig_Apply(t *testing.T) {
	cfg := NewConfig()
	cfg.Apply(Overrides{
		RootName:       "Payload",
		Style:          "TYPE",
		OptionalOnNull: true,
		NoEnums:        true,
		Export:         true,
		Repair:         true,
		Path:           "data",
	})

	opts := cfg.ToOptions()
	assert.Equal(t, "Payload", opts.RootName)
	assert.Equal(t, "Item", opts.ItemName)
	assert.Equal(t, models.StyleTypeAlias, opts.Style)
	assert.True(t, opts.OptionalOnNull)
	assert.False(t, opts.DetectStringEnums)
	assert.True(t, opts.Export)
	assert.True(t, cfg.Input.Repair)
	assert.Equal(t, "data", cfg.Input.Path)
}

func TestLoadConfigWithPrecedence(t *testing.T) {
	path := writeConfig(t, `
root_name: "Response"
item_name: "Record"
declarations:
  style: "type"
inference:
  optional_on_null: true
`)

	cfg, err := LoadConfigWithCLI(path, Overrides{RootName: "APIResult", Style: "interface"})
	require.NoError(t, err)

	// CLI > config file > defaults
	assert.Equal(t, "APIResult", cfg.RootName)
	assert.Equal(t, models.StyleInterface, cfg.Declarations.Style)
	assert.Equal(t, "Record", cfg.ItemName)
	assert.True(t, cfg.Inference.OptionalOnNull)
	assert.True(t, cfg.Inference.DetectStringEnums)
}

func TestLoadConfigWithPrecedence_NoOverrides(t *testing.T) {
	path := writeConfig(t, `
inference:
  detect_string_enums: false
`)

	cfg, err := LoadConfigWithCLI(path, Overrides{})
	require.NoError(t, err)

	assert.False(t, cfg.Inference.DetectStringEnums)
	assert.Equal(t, "Root", cfg.RootName)
}

func TestLoadConfigWithCLI_NoFile(t *testing.T) {
	cfg, err := LoadConfigWithCLI("", Overrides{RootName: "Thing"})
	require.NoError(t, err)
	assert.Equal(t, "Thing", cfg.RootName)
}

func TestLoadConfigWithCLI_InvalidOverride(t *testing.T) {
	_, err := LoadConfigWithCLI("", Overrides{Style: "class"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidStyle)
}
