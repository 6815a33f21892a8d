package menu

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrQuit is returned by a Prompter when the user closes input.
var ErrQuit = errors.New("input closed")

type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

type ReadlinePrompter struct {
	rl *readline.Instance
}

// NewReadlinePrompter reads lines from the terminal with line editing.
func NewReadlinePrompter(stdout io.Writer) (*ReadlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdout:          stdout,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, err
	}
	return &ReadlinePrompter{rl: rl}, nil
}

// Prompt shows prompt and returns the trimmed line. Ctrl-C and EOF both
// return ErrQuit.
func (p *ReadlinePrompter) Prompt(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrQuit
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}
