package tools

import (
	"context"
	"strings"

	"opsinstall/internal/shell"
)

// pyenvInit makes the pyenv and pyenv-virtualenv shims available to a script.
const pyenvInit = `eval "$(pyenv init -)" && eval "$(pyenv virtualenv-init -)" && `

// Pyenv implements installer.VersionManager.
type Pyenv struct {
	Runner shell.Runner
}

// Versions lists installed versions and virtualenvs, one bare name per entry.
func (p Pyenv) Versions(ctx context.Context) ([]string, error) {
	out, err := p.Runner.Run(ctx, shell.Command{Script: "pyenv versions --bare"})
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// Global returns the first global version.
func (p Pyenv) Global(ctx context.Context) (string, error) {
	out, err := p.Runner.Run(ctx, shell.Command{Script: "pyenv global"})
	if err != nil {
		return "", err
	}
	if l := lines(out); len(l) > 0 {
		return l[0], nil
	}
	return "system", nil
}

// Create runs `pyenv virtualenv <base> <name>`.
func (p Pyenv) Create(ctx context.Context, base, name string) error {
	_, err := p.Runner.Run(ctx, shell.Command{Script: "pyenv virtualenv " + shell.Join(base, name)})
	return err
}

// Prefix returns the environment's directory.
func (p Pyenv) Prefix(ctx context.Context, name string) (string, error) {
	out, err := p.Runner.Run(ctx, shell.Command{Script: "pyenv prefix " + shell.Quote(name)})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Exec runs script with env selected through PYENV_VERSION. Any inherited
// selection is dropped first so the product never builds against another environment.
func (p Pyenv) Exec(ctx context.Context, env, dir, script string) (string, error) {
	return p.Runner.Run(ctx, shell.Command{
		Script: pyenvInit + script,
		Dir:    dir,
		Unset:  []string{"PYENV_VERSION"},
		Env:    []string{"PYENV_VERSION=" + env},
	})
}

func lines(out string) []string {
	var res []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			res = append(res, l)
		}
	}
	return res
}
