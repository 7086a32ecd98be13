package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// copyToClipboardFn and appendShellHistoryFn are the active implementations
// for the external sinks. Tests replace them with no-ops via
// StubPlatformActions() to prevent side effects.
var (
	copyToClipboardFn    = copyToClipboardImpl
	appendShellHistoryFn = appendShellHistoryImpl
)

// copyToClipboard copies text to the system clipboard. A configured
// copyCommand is run through the shell with the text on stdin; without one a
// platform-specific helper is used.
func copyToClipboard(copyCommand, text string) error {
	return copyToClipboardFn(copyCommand, text)
}

// appendShellHistory records cmdLine in the user's shell history using the
// configured command template; "{}" in the template is replaced by the
// quoted invocation.
func appendShellHistory(template, cmdLine string) error {
	return appendShellHistoryFn(template, cmdLine)
}

// StubPlatformActions replaces clipboard and shell-history functions with
// recording no-ops and returns a restore function. Use in tests to prevent
// side effects.
func StubPlatformActions(record func(kind, text string)) (restore func()) {
	origCopy := copyToClipboardFn
	origHist := appendShellHistoryFn
	copyToClipboardFn = func(_, text string) error {
		if record != nil {
			record("clipboard", text)
		}
		return nil
	}
	appendShellHistoryFn = func(_, cmd string) error {
		if record != nil {
			record("history", cmd)
		}
		return nil
	}
	return func() {
		copyToClipboardFn = origCopy
		appendShellHistoryFn = origHist
	}
}

// copyToClipboardImpl is the real clipboard implementation.
func copyToClipboardImpl(copyCommand, text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var cmd *exec.Cmd
	if copyCommand != "" {
		cmd = exec.CommandContext(ctx, "bash", "-c", copyCommand)
	} else {
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.CommandContext(ctx, "pbcopy")
		case "linux":
			// Try xclip first, then xsel, then wl-copy (Wayland)
			if _, err := exec.LookPath("xclip"); err == nil {
				cmd = exec.CommandContext(ctx, "xclip", "-selection", "clipboard")
			} else if _, err := exec.LookPath("xsel"); err == nil {
				cmd = exec.CommandContext(ctx, "xsel", "--clipboard", "--input")
			} else if _, err := exec.LookPath("wl-copy"); err == nil {
				cmd = exec.CommandContext(ctx, "wl-copy")
			} else {
				return fmt.Errorf("no clipboard command found (install xclip, xsel, or wl-clipboard)")
			}
		case "windows":
			cmd = exec.CommandContext(ctx, "clip")
		default:
			return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
		}
	}

	cmd.Stdin = strings.NewReader(text)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	return nil
}

// appendShellHistoryImpl is the real shell-history implementation.
func appendShellHistoryImpl(template, cmdLine string) error {
	if template == "" {
		return fmt.Errorf("no append_history_command configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	script := strings.ReplaceAll(template, "{}", shellQuote(cmdLine))
	cmd := exec.CommandContext(ctx, "bash", "-c", script)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	return nil
}

// shellQuote wraps s in single quotes, escaping embedded ones, so it
// survives one round of POSIX shell word splitting.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'\\$`|&;<>()*?[]#~{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// quoteInvocation renders an argv as a copy-pasteable shell line.
func quoteInvocation(argv []string) string {
	parts := make([]string, 0, len(argv))
	for _, a := range argv {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}
