// Package cmd wires flags, config, input loading and the evaluator together
// and starts the interactive session.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/jex/internal/document"
	"github.com/oakwood-commons/jex/internal/jq"
	"github.com/oakwood-commons/jex/internal/table"
	"github.com/oakwood-commons/jex/internal/ui"
	"github.com/oakwood-commons/jex/pkg/loader"
	"github.com/oakwood-commons/jex/pkg/logger"
)

// version is stamped at build time.
var version = "dev"

var (
	initialFilter string
	configPath    string
	logFile       string
	debug         bool
	maxCellWidth  int
	slurp         bool
	jqCommand     string
	watch         bool
	printConfig   bool
)

var stdinIsPiped = func() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) == 0
}

var rootCmd = &cobra.Command{
	Use:   "jex [file]",
	Short: "interactively explore JSON with jq filters",
	Long: `jex loads a JSON (or YAML/NDJSON) document and opens an interactive
session: the prompt holds a jq filter, the table shows its result, and
stepping into cells extends the filter. ESC walks back through the
filter history, which doubles as walking back up the document.`,
	Example: "\n  jex data.json\n  kubectl get pods -o json | jex -c '.items'\n  jex -s events.ndjson\n  jex --watch build/report.json",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if err := logger.Setup(logFile, debug); err != nil {
			return err
		}
		log := logger.Get()

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-cell-width") {
			cfg.MaxCellWidth = maxCellWidth
		}
		if cmd.Flags().Changed("jq") {
			cfg.JQCommand = jqCommand
		}

		if printConfig {
			out, err := renderConfig(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}

		var (
			doc    *document.Value
			path   string
			reload func() (*document.Value, error)
		)
		switch {
		case len(args) == 1:
			path = args[0]
			reload = func() (*document.Value, error) { return loadDocumentFile(path, slurp) }
			doc, err = reload()
		case stdinIsPiped():
			doc, err = loadDocumentReader(os.Stdin, slurp)
		default:
			return cmd.Help()
		}
		if err != nil {
			return err
		}

		if watch && path == "" {
			return fmt.Errorf("--watch needs a file argument")
		}

		evaluator := jq.New(cfg.JQCommand, nil, time.Duration(cfg.EvalTimeoutSecs)*time.Second)
		if warning := evaluator.CheckVersion(context.Background()); warning != "" {
			fmt.Fprintln(os.Stderr, "warning: "+warning)
			log.Info("evaluator version check", "warning", warning)
		}

		var watcher *fsnotify.Watcher
		if watch {
			watcher, err = fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer watcher.Close()
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}

		model := ui.New(ui.Options{
			Runner:               evaluator,
			Document:             doc,
			InitialFilter:        initialFilter,
			Reload:               reload,
			Watcher:              watcher,
			MaxCellWidth:         cfg.MaxCellWidth,
			FloatPrecision:       cfg.FloatPrecision,
			StartAtPrompt:        cfg.StartAtPrompt,
			CopyCommand:          cfg.CopyCommand,
			AppendHistoryCommand: cfg.AppendHistoryCommand,
			HistoryArgv:          historyArgv(path),
			Bindings:             uiBindings(cfg.Bindings),
			Styles:               table.DefaultStyles(),
			Logger:               log,
		})

		opts, cleanup := programOptions()
		defer cleanup()
		p := tea.NewProgram(model, opts...)
		_, err = p.Run()
		return err
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.Flags().StringVarP(&initialFilter, "command", "c", "", "initial filter to evaluate on startup")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file (default: $XDG_CONFIG_HOME/jex/config.toml)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "append structured logs to this file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log at debug level (needs --log-file)")
	rootCmd.Flags().IntVarP(&maxCellWidth, "max-cell-width", "w", 0, "truncate cells wider than this (overrides config)")
	rootCmd.Flags().BoolVarP(&slurp, "slurp", "s", false, "wrap the input document(s) in an array")
	rootCmd.Flags().StringVar(&jqCommand, "jq", "", "evaluator binary to run (overrides config)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "reload the file and re-evaluate when it changes")
	rootCmd.Flags().BoolVar(&printConfig, "print-config", false, "print the effective config as TOML and exit")
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("jex {{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadDocumentFile loads and assembles the session's root value. Multiple
// documents (NDJSON, multi-doc YAML) always become an array; --slurp wraps
// even a single document so jq filters see a one-element array.
func loadDocumentFile(path string, slurp bool) (*document.Value, error) {
	docs, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return assembleRoot(docs, slurp), nil
}

func loadDocumentReader(r io.Reader, slurp bool) (*document.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	docs, err := loader.LoadData(data)
	if err != nil {
		return nil, err
	}
	return assembleRoot(docs, slurp), nil
}

func assembleRoot(docs []*document.Value, slurp bool) *document.Value {
	if !slurp && len(docs) == 1 {
		return docs[0]
	}
	return document.Array(docs...)
}

// historyArgv reconstructs the command line that append_history records.
// For piped input there is no replayable invocation, so it stays nil.
func historyArgv(path string) func(filter string) []string {
	if path == "" {
		return nil
	}
	return func(filter string) []string {
		argv := []string{"jex"}
		if filter != "" {
			argv = append(argv, "-c", filter)
		}
		return append(argv, path)
	}
}

// programOptions redirects the program's input to the real terminal when
// stdin carries the document.
func programOptions() ([]tea.ProgramOption, func()) {
	cleanup := func() {}
	if !stdinIsPiped() {
		return nil, cleanup
	}

	tty, err := openTerminal()
	if err != nil {
		// No controlling terminal (CI and the like); fall back to stdin.
		return nil, cleanup
	}
	cleanup = func() { _ = tty.Close() }

	opts := []tea.ProgramOption{tea.WithInput(tty)}
	if w, h, err := term.GetSize(int(tty.Fd())); err == nil && w > 0 && h > 0 {
		opts = append(opts, tea.WithWindowSize(w, h))
	}
	return opts, cleanup
}

func openTerminal() (*os.File, error) {
	name := "/dev/tty"
	if runtime.GOOS == "windows" {
		name = "CONIN$"
	}
	return os.OpenFile(name, os.O_RDWR, 0)
}
