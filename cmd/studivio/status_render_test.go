package main

import (
	"bytes"
	"strings"
	"testing"

	"studivio/internal/preflight"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Database", statusOK, "ready", false)
	if !strings.Contains(line, "Database:") || !strings.Contains(line, "[OK] ready") {
		t.Fatalf("unexpected line %q", line)
	}
	colored := renderStatusLine("Database", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
}

func TestResultKind(t *testing.T) {
	cases := []struct {
		result preflight.Result
		want   statusKind
	}{
		{preflight.Result{Passed: true}, statusOK},
		{preflight.Result{Optional: true}, statusWarn},
		{preflight.Result{}, statusError},
	}
	for _, tc := range cases {
		if got := resultKind(tc.result); got != tc.want {
			t.Fatalf("resultKind(%+v) = %v, want %v", tc.result, got, tc.want)
		}
	}
}

func TestShouldColorizeIgnoresBuffers(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]column{{Header: "Name"}, {Header: "Count", AlignEnd: true}}, [][]string{{"alpha", "3"}, {"beta"}})
	for _, want := range []string{"NAME", "COUNT", "ALPHA", "BETA"} {
		if !strings.Contains(strings.ToUpper(out), want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if renderTable(nil, nil) != "" {
		t.Fatal("expected empty render without columns")
	}
}
