// Package jq invokes the external jq-compatible filter engine. The core
// knows nothing about the query language itself: it hands the document to
// the process on stdin, the filter as the final argument, and interprets
// stdout as JSON, stderr as diagnostics and the exit status as the
// success/failure signal.
package jq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oakwood-commons/jex/internal/document"
)

// DefaultCommand is the evaluator executable used when none is configured.
const DefaultCommand = "jq"

// Runner is the evaluation contract the session depends on. Tests swap in
// a stub; production uses *Evaluator.
type Runner interface {
	Evaluate(ctx context.Context, doc *document.Value, filter string) (*document.Value, error)
}

// EvalError reports a failed evaluation: non-zero exit status, a killed
// process, or output that did not parse as JSON. The previous table is
// kept when this is returned.
type EvalError struct {
	Filter   string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *EvalError) Error() string {
	if e.Stderr != "" {
		return strings.TrimSpace(e.Stderr)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("evaluator exited with status %d", e.ExitCode)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Evaluator runs a jq-compatible executable. The zero value is not usable;
// construct with New.
type Evaluator struct {
	command string
	args    []string // extra arguments before the filter, e.g. --slurp
	timeout time.Duration
}

// New returns an evaluator for the given executable. command may be empty,
// in which case DefaultCommand is used. timeout of zero means no limit
// beyond the caller's context.
func New(command string, args []string, timeout time.Duration) *Evaluator {
	if command == "" {
		command = DefaultCommand
	}
	return &Evaluator{command: command, args: args, timeout: timeout}
}

// Command returns the configured executable name.
func (e *Evaluator) Command() string { return e.command }

// Argv returns the full argument vector for the given filter, mainly for
// logging and tests. An empty filter evaluates as identity.
func (e *Evaluator) Argv(filter string) []string {
	if strings.TrimSpace(filter) == "" {
		filter = "."
	}
	argv := make([]string, 0, len(e.args)+2)
	argv = append(argv, e.command)
	argv = append(argv, e.args...)
	return append(argv, filter)
}

// Evaluate runs the filter against the document. It blocks until the
// process exits or ctx is cancelled; cancelling kills the process. Multiple
// output values (e.g. from `.[]`) are collected into one array.
func (e *Evaluator) Evaluate(ctx context.Context, doc *document.Value, filter string) (*document.Value, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	input, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	argv := e.Argv(filter)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return nil, &EvalError{Filter: filter, Stderr: stderr.String(), ExitCode: code, Err: err}
	}

	return parseOutput(filter, stdout.Bytes(), stderr.String())
}

// parseOutput interprets evaluator stdout. jq emits one JSON value per
// result; a stream of results is folded into an array so the table always
// gets a single value.
func parseOutput(filter string, out []byte, stderr string) (*document.Value, error) {
	values, err := document.DecodeStream(bytes.NewReader(out))
	if err != nil {
		return nil, &EvalError{
			Filter: filter,
			Stderr: stderr,
			Err:    fmt.Errorf("evaluator output is not JSON: %w", err),
		}
	}
	if len(values) == 1 {
		return values[0], nil
	}
	return document.Array(values...), nil
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// CheckVersion probes the evaluator binary and returns a human-readable
// warning when it is missing or older than jq 1.7, or "" when everything
// looks fine. The session still starts either way; selectors may just
// misbehave on old engines.
func (e *Evaluator) CheckVersion(ctx context.Context) string {
	cmd := exec.CommandContext(ctx, e.command, "--version")
	out, err := cmd.Output()
	if err != nil {
		return fmt.Sprintf("cannot run %q: %v", e.command, err)
	}
	version := strings.TrimSpace(string(out))
	m := versionPattern.FindStringSubmatch(version)
	if m == nil {
		return ""
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	if major > 1 || (major == 1 && minor >= 7) {
		return ""
	}
	return fmt.Sprintf("%s reports version %s, but at least 1.7 is required; some operations may not work", e.command, version)
}
