// Package prompt provides the operator-facing confirmation and input providers.
//
// Workflow components never read the terminal directly. They ask a Prompter,
// which is either Yes (accept every default, for unattended runs) or Interactive,
// which runs a small Bubble Tea program per question.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

var (
	// ErrNoTerminal is returned by NewTerminal when stdin is not a TTY.
	ErrNoTerminal = errors.New("cannot prompt: input is not a terminal (use --yes)")
	// ErrCancelled is returned when the operator presses esc or ctrl+c.
	ErrCancelled = errors.New("prompt cancelled")
)

// Prompter asks the operator yes/no questions and free-form values.
type Prompter interface {
	// Confirm asks a yes/no question. def is the preselected answer.
	Confirm(msg string, def bool) (bool, error)
	// Input asks for a value. def is the prefilled value.
	Input(msg, def string) (string, error)
}

// Yes accepts every confirmation and every default value.
type Yes struct{}

// Confirm always answers yes.
func (Yes) Confirm(string, bool) (bool, error) { return true, nil }

// Input always returns the default.
func (Yes) Input(_ string, def string) (string, error) { return def, nil }

// Interactive asks each question with a Bubble Tea program reading from in and
// rendering to out. Answered questions are echoed to out as one line.
type Interactive struct {
	in  io.Reader
	out io.Writer
}

// NewInteractive returns a Prompter bound to in/out.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{in: in, out: out}
}

// NewTerminal returns a Prompter on stdin/stdout, or ErrNoTerminal when stdin
// is not a TTY.
func NewTerminal() (*Interactive, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNoTerminal
	}
	return NewInteractive(os.Stdin, os.Stdout), nil
}

// Confirm implements Prompter.
func (p *Interactive) Confirm(msg string, def bool) (bool, error) {
	final, err := p.run(newConfirmModel(msg, def))
	if err != nil {
		return false, err
	}
	m := final.(*confirmModel)
	if m.cancelled {
		return false, ErrCancelled
	}
	answer := "no"
	if m.result {
		answer = "yes"
	}
	_, _ = fmt.Fprintf(p.out, "%s %s\n", msg, answer)
	return m.result, nil
}

// Input implements Prompter.
func (p *Interactive) Input(msg, def string) (string, error) {
	final, err := p.run(newInputModel(msg, def))
	if err != nil {
		return "", err
	}
	m := final.(*inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	_, _ = fmt.Fprintf(p.out, "%s: %s\n", msg, m.result)
	return m.result, nil
}

func (p *Interactive) run(model tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(model, tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}
