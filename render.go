package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// RenderError reports a render program that ran but did not succeed:
// either a nonzero exit or death by signal. Any other failure around the
// child (pipe creation, spawn, wait) is an ordinary error and fatal for
// the whole program.
type RenderError struct {
	Terminated bool   // killed before producing an exit status
	Detail     string // first captured output line, if any
}

func (e *RenderError) Error() string {
	msg := "render failed"
	if e.Terminated {
		msg = "render terminated"
	}
	if e.Detail != "" {
		return msg + ": " + strings.TrimRight(e.Detail, "\r\n")
	}
	return msg
}

// runRender executes argv as a child process with stdout and stderr
// merged into a single pipe, so diagnostics interleave with output in
// encounter order. Stdin stays connected to the null device (exec's
// default for a nil Stdin). Returns the captured lines with their
// original terminators.
func runRender(argv []string) ([]string, error) {
	cmd := exec.Command(argv[0], argv[1:]...)

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating render pipe: %w", err)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Start(); err != nil {
		w.Close()
		r.Close()
		return nil, fmt.Errorf("starting render: %w", err)
	}

	// Close the write end in the parent so the read loop sees EOF once
	// the child exits.
	w.Close()

	lines, readErr := readLines(r)
	r.Close()

	waitErr := cmd.Wait()
	if readErr != nil {
		return nil, fmt.Errorf("reading from render: %w", readErr)
	}
	if waitErr == nil {
		return lines, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		first := ""
		if len(lines) > 0 {
			first = lines[0]
		}
		return nil, &RenderError{
			Terminated: exitErr.ExitCode() < 0,
			Detail:     first,
		}
	}
	return nil, fmt.Errorf("waiting for render: %w", waitErr)
}

// readLines splits the stream into lines, keeping each line's
// terminator. The final line may lack one.
func readLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
