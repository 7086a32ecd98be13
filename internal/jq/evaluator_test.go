package jq

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/oakwood-commons/jex/internal/document"
)

func TestArgv(t *testing.T) {
	e := New("", nil, 0)
	if got := e.Argv(".items"); !reflect.DeepEqual(got, []string{"jq", ".items"}) {
		t.Fatalf("Argv = %v", got)
	}
	// Empty and blank filters evaluate as identity.
	if got := e.Argv(""); !reflect.DeepEqual(got, []string{"jq", "."}) {
		t.Fatalf("Argv(\"\") = %v", got)
	}
	if got := e.Argv("   "); !reflect.DeepEqual(got, []string{"jq", "."}) {
		t.Fatalf("Argv(blank) = %v", got)
	}

	e = New("gojq", []string{"--tab"}, 0)
	if got := e.Argv(".a"); !reflect.DeepEqual(got, []string{"gojq", "--tab", ".a"}) {
		t.Fatalf("Argv with args = %v", got)
	}
}

func TestParseOutputSingleValue(t *testing.T) {
	v, err := parseOutput(".", []byte("{\"a\":1}\n"), "")
	if err != nil {
		t.Fatalf("parseOutput: %v", err)
	}
	if v.String() != `{"a":1}` {
		t.Fatalf("value = %s", v)
	}
}

func TestParseOutputFoldsStreamIntoArray(t *testing.T) {
	v, err := parseOutput(".[]", []byte("1\n2\n3\n"), "")
	if err != nil {
		t.Fatalf("parseOutput: %v", err)
	}
	if v.Kind() != document.KindArray || v.Len() != 3 {
		t.Fatalf("value = %s", v)
	}
}

func TestParseOutputRejectsGarbage(t *testing.T) {
	_, err := parseOutput(".", []byte("not json"), "some diagnostics")
	if err == nil {
		t.Fatal("expected error")
	}
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error type %T", err)
	}
	if evalErr.Stderr != "some diagnostics" {
		t.Fatalf("Stderr = %q", evalErr.Stderr)
	}
}

func TestEvalErrorMessagePrefersStderr(t *testing.T) {
	e := &EvalError{Stderr: "jq: error: boom\n", ExitCode: 5}
	if got := e.Error(); got != "jq: error: boom" {
		t.Fatalf("Error() = %q", got)
	}
	e = &EvalError{ExitCode: 5}
	if got := e.Error(); !strings.Contains(got, "5") {
		t.Fatalf("Error() = %q", got)
	}
}

// The remaining tests drive a real subprocess through /bin/sh, standing in
// for the evaluator binary.

func shEvaluator(t *testing.T, script string, timeout time.Duration) *Evaluator {
	t.Helper()
	return New("sh", []string{"-c", script, "sh"}, timeout)
}

func TestEvaluateParsesStdout(t *testing.T) {
	// Ignores the filter argument and emits fixed JSON.
	e := shEvaluator(t, `cat >/dev/null; echo '{"ok":true}'`, 0)
	v, err := e.Evaluate(context.Background(), document.Object(), ".")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.String() != `{"ok":true}` {
		t.Fatalf("value = %s", v)
	}
}

func TestEvaluatePassesDocumentOnStdin(t *testing.T) {
	e := shEvaluator(t, `cat`, 0) // echo stdin back
	doc, _ := document.Parse([]byte(`{"z":1,"a":2}`))
	v, err := e.Evaluate(context.Background(), doc, ".")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !document.Equal(v, doc) {
		t.Fatalf("round trip: %s", v)
	}
}

func TestEvaluateReportsExitCodeAndStderr(t *testing.T) {
	e := shEvaluator(t, `cat >/dev/null; echo 'bad filter' >&2; exit 3`, 0)
	_, err := e.Evaluate(context.Background(), document.Null(), ".oops")
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error = %v", err)
	}
	if evalErr.ExitCode != 3 {
		t.Fatalf("ExitCode = %d", evalErr.ExitCode)
	}
	if evalErr.Error() != "bad filter" {
		t.Fatalf("Error() = %q", evalErr.Error())
	}
	if evalErr.Filter != ".oops" {
		t.Fatalf("Filter = %q", evalErr.Filter)
	}
}

func TestEvaluateHonorsContextCancel(t *testing.T) {
	e := shEvaluator(t, `sleep 10`, 0)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := e.Evaluate(ctx, document.Null(), ".")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	e := shEvaluator(t, `sleep 10`, 100*time.Millisecond)
	_, err := e.Evaluate(context.Background(), document.Null(), ".")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}
