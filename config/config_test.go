package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 4096, cfg.Execution.MemSize)
	assert.Equal(t, uint64(5000), cfg.Execution.MaxCycles)
	assert.Equal(t, uint32(0), cfg.Execution.EntryPoint)

	assert.Equal(t, 1000, cfg.Debugger.HistorySize)
	assert.True(t, cfg.Debugger.ShowSource)

	assert.Equal(t, 16, cfg.Display.BytesPerLine)
	assert.Equal(t, "hex", cfg.Display.NumberFormat)

	assert.Equal(t, 8088, cfg.API.Port)
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	require.NotEmpty(t, path)
	assert.Equal(t, "config.toml", filepath.Base(path))

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if path != "config.toml" {
			assert.Equal(t, "rv32i-sim", filepath.Base(dir))
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()
	require.NotEmpty(t, path)

	if runtime.GOOS == "darwin" || runtime.GOOS == "linux" {
		assert.Equal(t, "logs", filepath.Base(path))
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxCycles = 50000
	cfg.Execution.EnableTrace = true
	cfg.Debugger.HistorySize = 500
	cfg.Display.ColorOutput = false

	require.NoError(t, cfg.SaveTo(configPath))
	_, err := os.Stat(configPath)
	require.NoError(t, err)

	loaded, err := LoadFrom(configPath)
	require.NoError(t, err)

	assert.Equal(t, uint64(50000), loaded.Execution.MaxCycles)
	assert.True(t, loaded.Execution.EnableTrace)
	assert.Equal(t, 500, loaded.Debugger.HistorySize)
	assert.False(t, loaded.Display.ColorOutput)
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.Execution.MemSize)
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[execution]
max_cycles = "not a number"
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidTOML), 0644))

	_, err := LoadFrom(configPath)
	assert.Error(t, err)
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	require.NoError(t, cfg.SaveTo(configPath))

	_, err := os.Stat(configPath)
	assert.NoError(t, err)
}
