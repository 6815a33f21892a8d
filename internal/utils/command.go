package utils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Runner executes external commands so callers can be driven without
// spawning real processes.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Stream(ctx context.Context, name string, args []string, onLine func(string)) error
}

type ExecRunner struct{}

// Output runs name and returns its stdout. On failure the last stderr line
// is added to the error.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%v: %s", err, lastLine(string(exitErr.Stderr)))
		}
		return out, err
	}
	return out, nil
}

// Stream runs name and hands every non-empty stdout and stderr line to
// onLine as it arrives.
func (ExecRunner) Stream(ctx context.Context, name string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("error creating stdout pipe: %v", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("error creating stderr pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error starting %s: %v", name, err)
	}

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var lastErrLine string
	wg.Add(2)
	go func() {
		defer wg.Done()
		processStream(stdout, onLine)
	}()
	go func() {
		defer wg.Done()
		processStream(stderr, func(line string) {
			errMu.Lock()
			lastErrLine = line
			errMu.Unlock()
			if onLine != nil {
				onLine(line)
			}
		})
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if lastErrLine != "" {
			return fmt.Errorf("%s failed: %v: %s", name, err, lastErrLine)
		}
		return fmt.Errorf("%s failed: %v", name, err)
	}
	return nil
}

// processStream forwards trimmed, non-empty lines from reader.
func processStream(reader io.Reader, onLine func(string)) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && onLine != nil {
			onLine(line)
		}
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
