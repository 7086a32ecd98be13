package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jex/internal/ui"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 50, cfg.MaxCellWidth)
	assert.Equal(t, 8, cfg.FloatPrecision)
	assert.Equal(t, "jq", cfg.JQCommand)
	assert.False(t, cfg.StartAtPrompt)
	assert.Zero(t, cfg.EvalTimeoutSecs)
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := writeConfigFile(t, `
max_cell_width = 30
float_precision = 4
start_at_prompt = true
eval_timeout_secs = 10
jq_command = "gojq"
copy_command = "wl-copy"
append_history_command = "atuin history start -- {}"

[bindings.table]
"J" = "last_row"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.MaxCellWidth)
	assert.Equal(t, 4, cfg.FloatPrecision)
	assert.True(t, cfg.StartAtPrompt)
	assert.Equal(t, 10, cfg.EvalTimeoutSecs)
	assert.Equal(t, "gojq", cfg.JQCommand)
	assert.Equal(t, "wl-copy", cfg.CopyCommand)
	assert.Equal(t, "atuin history start -- {}", cfg.AppendHistoryCommand)
	assert.Equal(t, "last_row", cfg.Bindings.Table["J"])
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `start_at_prompt = true`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.StartAtPrompt)
	assert.Equal(t, 50, cfg.MaxCellWidth)
	assert.Equal(t, "jq", cfg.JQCommand)
}

func TestLoadConfigFloorsBadValues(t *testing.T) {
	path := writeConfigFile(t, "max_cell_width = -5\nfloat_precision = 0\n")
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxCellWidth)
	assert.Equal(t, 8, cfg.FloatPrecision)
}

func TestLoadConfigExplicitMissingPathIsError(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigMissingDefaultSeedsExample(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	seeded := filepath.Join(dir, "jex", "config.toml")
	data, err := os.ReadFile(seeded)
	require.NoError(t, err, "first run should leave an example config behind")
	assert.Contains(t, string(data), "max_cell_width")

	// The second run parses the seeded file without complaint.
	_, err = loadConfig("")
	assert.NoError(t, err)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeConfigFile(t, `max_cell_width = [`)
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownCommands(t *testing.T) {
	path := writeConfigFile(t, `
[bindings.global]
"ctrl+q" = "no_such_command"
`)
	_, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_command")
}

func TestLoadConfigRejectsPanelMismatch(t *testing.T) {
	// yank is a prompt command; binding it in the table section is a typo
	// worth catching at startup.
	path := writeConfigFile(t, `
[bindings.table]
"y" = "yank"
`)
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigAllowsUnbinding(t *testing.T) {
	path := writeConfigFile(t, `
[bindings.global]
"esc" = ""
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	b := uiBindings(cfg.Bindings)
	_, bound := b.Global["esc"]
	assert.False(t, bound)
	assert.Equal(t, ui.CmdUndo, b.Global["ctrl+_"], "other defaults survive")
}

func TestUIBindingsOverlayDefaults(t *testing.T) {
	b := uiBindings(BindingsConfig{
		Table: map[string]string{"J": ui.CmdLastRow},
	})
	assert.Equal(t, ui.CmdLastRow, b.Table["J"])
	assert.Equal(t, ui.CmdEnterCell, b.Table["enter"])
}

func TestExampleConfigIsValidTOML(t *testing.T) {
	var cfg Config
	assert.NoError(t, toml.Unmarshal([]byte(exampleConfigTOML), &cfg))
}

func TestRenderConfigRoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bindings.Table = map[string]string{"J": "last_row"}

	out, err := renderConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "max_cell_width = 50")

	var back Config
	require.NoError(t, toml.Unmarshal([]byte(out), &back))
	assert.Equal(t, cfg, back)
}
