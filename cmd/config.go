package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/oakwood-commons/jex/internal/ui"
)

// Config is the on-disk configuration. Zero/empty fields fall back to the
// defaults below, so a partial file is fine.
type Config struct {
	MaxCellWidth    int  `toml:"max_cell_width"`
	FloatPrecision  int  `toml:"float_precision"`
	StartAtPrompt   bool `toml:"start_at_prompt"`
	EvalTimeoutSecs int  `toml:"eval_timeout_secs"`

	// JQCommand is the evaluator binary (or a path to one).
	JQCommand string `toml:"jq_command"`

	// CopyCommand, when set, replaces the platform clipboard helper; the
	// text to copy is piped to it on stdin.
	CopyCommand string `toml:"copy_command"`

	// AppendHistoryCommand records an invocation in the shell history;
	// "{}" is replaced by the quoted command line.
	AppendHistoryCommand string `toml:"append_history_command"`

	Bindings BindingsConfig `toml:"bindings"`
}

// BindingsConfig overlays the default key bindings. Keys are bubbletea key
// strings ("ctrl+a", "alt+enter", "f1", plain runes); values are command
// names. Binding a key to "" unbinds it.
type BindingsConfig struct {
	Global map[string]string `toml:"global"`
	Prompt map[string]string `toml:"prompt"`
	Table  map[string]string `toml:"table"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		MaxCellWidth:   50,
		FloatPrecision: 8,
		JQCommand:      "jq",
	}
}

// exampleConfigTOML is written to the default config location on first run
// so the user has something to edit.
const exampleConfigTOML = `# jex configuration

# Cells wider than this are truncated with an ellipsis.
#max_cell_width = 50

# Significant digits used when rendering floats.
#float_precision = 8

# Focus the prompt instead of the table on startup.
#start_at_prompt = false

# Evaluator binary. Needs jq >= 1.7.
#jq_command = "jq"

# Abort an evaluation after this many seconds (0 = no limit).
#eval_timeout_secs = 0

# Clipboard command; the text to copy is piped to its stdin.
# Leave unset to use pbcopy/xclip/xsel/wl-copy/clip.
#copy_command = ""

# Shell history integration. "{}" is replaced by the quoted invocation.
#append_history_command = "atuin history start -- {}"

# Key binding overrides. Bind a key to "" to unbind it.
#[bindings.global]
#"ctrl+q" = "quit"
#
#[bindings.prompt]
#
#[bindings.table]
#"J" = "last_row"
`

// defaultConfigPath returns $XDG_CONFIG_HOME/jex/config.toml, falling back
// to ~/.config/jex/config.toml. Empty when no home directory is known.
func defaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "jex", "config.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "jex", "config.toml")
	}
	return ""
}

// loadConfig reads the config at path (the default location when path is
// empty). A missing file at the default location is seeded with the
// commented example and the defaults are returned; a missing explicit path
// is an error.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		writeExampleConfig(path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxCellWidth <= 0 {
		cfg.MaxCellWidth = 50
	}
	if cfg.FloatPrecision <= 0 {
		cfg.FloatPrecision = 8
	}
	if cfg.JQCommand == "" {
		cfg.JQCommand = "jq"
	}
	if err := validateBindings(cfg.Bindings); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// writeExampleConfig is best-effort; a read-only config dir is not fatal.
func writeExampleConfig(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(path, []byte(exampleConfigTOML), 0o644)
}

func validateBindings(b BindingsConfig) error {
	tables := []struct {
		name     string
		bindings map[string]string
	}{
		{"global", b.Global},
		{"prompt", b.Prompt},
		{"table", b.Table},
	}
	var bad []string
	for _, t := range tables {
		for key, command := range t.bindings {
			if command == "" {
				continue // unbind
			}
			if !ui.KnownCommand(t.name, command) {
				bad = append(bad, fmt.Sprintf("[bindings.%s] %q = %q", t.name, key, command))
			}
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("unknown commands: %s", strings.Join(bad, ", "))
	}
	return nil
}

// uiBindings converts the config overlay into the ui package's format and
// merges it over the defaults.
func uiBindings(b BindingsConfig) ui.Bindings {
	return ui.DefaultBindings().Merge(ui.Bindings{
		Global: b.Global,
		Prompt: b.Prompt,
		Table:  b.Table,
	})
}

// renderConfig serializes the effective config for --print-config.
func renderConfig(cfg Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
