// Package shell runs external tools through bash.
//
// pyenv and Lmod are shell functions as much as binaries, so every command is a
// bash script rather than an argv. Arguments are quoted with Quote.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"opsinstall/internal/logger"
)

// ErrCommandFailed matches every *CommandError.
var ErrCommandFailed = errors.New("external command failed")

// Command is one bash script to run.
type Command struct {
	// Script is passed to `bash -c`.
	Script string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds KEY=VALUE overrides applied on top of the inherited environment.
	Env []string
	// Unset lists inherited variables removed before Env is applied.
	Unset []string
}

// String renders the command for logs.
func (c Command) String() string {
	if c.Dir == "" {
		return c.Script
	}
	return fmt.Sprintf("(cd %s) %s", c.Dir, c.Script)
}

// CommandError reports a command that exited non-zero or could not start.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCommandFailed) true for any CommandError.
func (e *CommandError) Is(target error) bool { return target == ErrCommandFailed }

// Runner executes commands and returns their stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// Bash runs commands with `bash -c`. When InitScript is set it is sourced first,
// which is how site-specific Lmod setups are made available.
type Bash struct {
	InitScript string
}

// Run implements Runner.
func (b Bash) Run(ctx context.Context, c Command) (string, error) {
	script := c.Script
	if b.InitScript != "" {
		script = "source " + Quote(b.InitScript) + " && " + script
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", script)
	cmd.Dir = c.Dir
	cmd.Env = mergeEnv(os.Environ(), c.Unset, c.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("[DEBUG] Running command: %s\n", c)
	if err := cmd.Run(); err != nil {
		return stdout.String(), &CommandError{Command: script, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// mergeEnv removes unset keys and every key overridden by env from base, then
// appends env.
func mergeEnv(base, unset, env []string) []string {
	drop := make(map[string]bool, len(unset)+len(env))
	for _, k := range unset {
		drop[k] = true
	}
	for _, kv := range env {
		k, _, _ := strings.Cut(kv, "=")
		drop[k] = true
	}

	out := make([]string, 0, len(base)+len(env))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if !drop[k] {
			out = append(out, kv)
		}
	}
	return append(out, env...)
}

// Quote returns s quoted for bash.
func Quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only NUL bytes are unquotable; they cannot appear in argv anyway.
		return "'" + strings.ReplaceAll(strings.ReplaceAll(s, "\x00", ""), "'", `'\''`) + "'"
	}
	return q
}

// Join quotes each argument and joins them with spaces.
func Join(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}
