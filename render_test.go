package main

import (
	"errors"
	"testing"
)

func TestRunRenderCapturesLines(t *testing.T) {
	lines, err := runRender([]string{"sh", "-c", "printf 'one\\ntwo\\nthree'"})
	if err != nil {
		t.Fatalf("runRender: %v", err)
	}

	want := []string{"one\n", "two\n", "three"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRunRenderMergesStderr(t *testing.T) {
	lines, err := runRender([]string{"sh", "-c", "echo out; echo err >&2"})
	if err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if len(lines) != 2 || lines[0] != "out\n" || lines[1] != "err\n" {
		t.Errorf("unexpected capture: %q", lines)
	}
}

func TestRunRenderNonzeroExit(t *testing.T) {
	_, err := runRender([]string{"sh", "-c", "echo 'parse error at line 9' >&2; exit 2"})

	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if rerr.Terminated {
		t.Error("nonzero exit should not count as terminated")
	}
	if got := rerr.Error(); got != "render failed: parse error at line 9" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRunRenderNonzeroExitNoOutput(t *testing.T) {
	_, err := runRender([]string{"sh", "-c", "exit 1"})

	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if got := rerr.Error(); got != "render failed" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRunRenderTerminated(t *testing.T) {
	_, err := runRender([]string{"sh", "-c", "kill -TERM $$"})

	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if !rerr.Terminated {
		t.Error("signal death should count as terminated")
	}
	if got := rerr.Error(); got != "render terminated" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRunRenderStartFailure(t *testing.T) {
	_, err := runRender([]string{"/nonexistent/render-prog"})
	if err == nil {
		t.Fatal("expected an error")
	}

	var rerr *RenderError
	if errors.As(err, &rerr) {
		t.Error("spawn failures must not be RenderErrors")
	}
}

func TestRunRenderEmptyOutput(t *testing.T) {
	lines, err := runRender([]string{"true"})
	if err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %q", lines)
	}
}
