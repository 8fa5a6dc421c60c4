package polyglot

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/naab-lang/naab/internal/value"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available on this machine", name)
	}
}

func TestPythonExecutor_EvaluatesSingleExpression(t *testing.T) {
	requireBinary(t, "python3")
	ex := NewPythonExecutor(t.TempDir(), 10*time.Second, "")
	v, err := ex.Run(context.Background(), "a + b", map[string]value.Value{
		"a": value.Int(2),
		"b": value.Int(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != value.Int(5) {
		t.Errorf("expected 5, got %v", v)
	}
}

func TestJavaScriptExecutor_ReturnsValueFromBody(t *testing.T) {
	requireBinary(t, "node")
	ex := NewJavaScriptExecutor(t.TempDir(), 10*time.Second, "")
	v, err := ex.Run(context.Background(), "return a * 2;", map[string]value.Value{
		"a": value.Int(21),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != value.Int(42) {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestShellExecutor_AlwaysReturnsStructEvenOnNonzeroExit(t *testing.T) {
	requireBinary(t, "sh")
	ex := NewShellExecutor(t.TempDir(), 10*time.Second, "")
	v, err := ex.Run(context.Background(), "echo hello; exit 7", nil)
	if err != nil {
		t.Fatalf("shell should never raise on nonzero exit, got: %v", err)
	}
	d, ok := v.(*value.Dict)
	if !ok {
		t.Fatalf("expected *value.Dict result, got %T", v)
	}
	code, _ := d.Get("exit_code")
	if code != value.Int(7) {
		t.Errorf("expected exit_code 7, got %v", code)
	}
	stdout, _ := d.Get("stdout")
	if !strings.Contains(string(stdout.(value.String)), "hello") {
		t.Errorf("expected stdout to contain 'hello', got %v", stdout)
	}
}

func TestPythonExecutor_TimeoutRaisesPolyglotTimeout(t *testing.T) {
	requireBinary(t, "python3")
	ex := NewPythonExecutor(t.TempDir(), 200*time.Millisecond, "")
	_, err := ex.Run(context.Background(), "import time\ntime.sleep(5)", nil)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
}
