package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Success(t *testing.T) {
	path := writeConfig(t, `{
		"output_dir": "data",
		"base_url": "https://api.stackexchange.com/2.3",
		"log_file": "run.log",
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.OutputDir)
	assert.Equal(t, "https://api.stackexchange.com/2.3", cfg.BaseURL)
	assert.Equal(t, "run.log", cfg.LogFile)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestValidate(t *testing.T) {
	valid := Config{BaseURL: "https://api.stackexchange.com/2.3"}
	assert.NoError(t, valid.Validate())

	empty := Config{}
	assert.NoError(t, empty.Validate())

	invalid := Config{BaseURL: "not a url"}
	assert.Error(t, invalid.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{OutputDir: "custom", Verbose: true}
	defaults := Config{
		OutputDir: "output",
		BaseURL:   "https://api.stackexchange.com/2.3",
		LogFile:   "pipeline.log",
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "custom", merged.OutputDir)
	assert.Equal(t, "https://api.stackexchange.com/2.3", merged.BaseURL)
	assert.Equal(t, "pipeline.log", merged.LogFile)
	assert.True(t, merged.Verbose)
	assert.Empty(t, merged.DatabaseURL)
}
