package utils

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
}

func TestExecRunnerOutput(t *testing.T) {
	skipWithoutShell(t)
	out, err := ExecRunner{}.Output(context.Background(), "sh", "-c", "printf hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestExecRunnerOutputIncludesStderr(t *testing.T) {
	skipWithoutShell(t)
	_, err := ExecRunner{}.Output(context.Background(), "sh", "-c", "echo first >&2; echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.NotContains(t, err.Error(), "first")
}

func TestExecRunnerStream(t *testing.T) {
	skipWithoutShell(t)
	var mu sync.Mutex
	var lines []string
	err := ExecRunner{}.Stream(context.Background(), "sh", []string{"-c", "echo one; echo; echo two >&2"}, func(line string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, line)
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, lines)
}

func TestExecRunnerStreamFailure(t *testing.T) {
	skipWithoutShell(t)
	err := ExecRunner{}.Stream(context.Background(), "sh", []string{"-c", "echo ERROR: nope >&2; exit 1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR: nope")
}

func TestExecRunnerMissingBinary(t *testing.T) {
	err := ExecRunner{}.Stream(context.Background(), "tunequeue-no-such-binary", nil, nil)
	assert.Error(t, err)
}
