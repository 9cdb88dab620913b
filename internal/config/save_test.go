package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, path string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestSetValue_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SetValue(configPath, "render.mode", "side-by-side"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, "render:\n  mode: side-by-side\n", string(data))
}

func TestSetValue_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# my settings
intraline:
  aligner: myers # faster on long lines
render:
  mode: unified
  style: monokai
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o600))

	require.NoError(t, SetValue(configPath, "render.mode", "side-by-side"))
	require.NoError(t, SetValue(configPath, "watch.debounce", "250ms"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "# my settings")
	require.Contains(t, string(data), "# faster on long lines")

	cfg := load(t, configPath)
	require.Equal(t, "myers", cfg.Intraline.Aligner)
	require.Equal(t, "side-by-side", cfg.Render.Mode)
	require.Equal(t, "monokai", cfg.Render.Style)
	require.Equal(t, "250ms", cfg.Watch.Debounce.String())
}

func TestSetValue_Errors(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("render: plain\n"), 0o600))

	require.ErrorContains(t, SetValue(configPath, "render.mode", "unified"), "not a mapping")
	require.ErrorContains(t, SetValue(configPath, "render..mode", "unified"), "invalid key")

	require.NoError(t, os.WriteFile(configPath, []byte("- a\n- b\n"), 0o600))
	require.ErrorContains(t, SetValue(configPath, "render.mode", "unified"), "not a mapping")
}

func TestSaveMarks(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	marks := []MarkConfig{
		{Text: "TODO", Color: "#ffff00"},
		{Text: "FIXME", Color: "orange"},
	}
	require.NoError(t, SaveMarks(configPath, marks))

	cfg := load(t, configPath)
	require.Equal(t, marks, cfg.Marks)
	require.Equal(t, "difflib", cfg.Intraline.Aligner, "other sections are kept")

	require.NoError(t, SaveMarks(configPath, marks[:1]))
	require.Equal(t, marks[:1], load(t, configPath).Marks)
}

func TestSaveMarks_RejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := SaveMarks(configPath, []MarkConfig{{Text: "TODO"}})
	require.Error(t, err)
	_, statErr := os.Stat(configPath)
	require.True(t, os.IsNotExist(statErr))
}
