package tools

import (
	"context"
	"fmt"

	"opsinstall/internal/installer"
	"opsinstall/internal/shell"
)

// EnvExec runs a script with an environment active.
type EnvExec interface {
	Exec(ctx context.Context, env, dir, script string) (string, error)
}

// Pip implements installer.Packager on top of an environment executor.
type Pip struct {
	Env EnvExec
}

// Install runs `pip install <requirement>`.
func (p Pip) Install(ctx context.Context, env, requirement string) error {
	_, err := p.Env.Exec(ctx, env, "", "pip install "+shell.Quote(requirement))
	return err
}

// EditableInstall runs `pip install -e .` in dir.
func (p Pip) EditableInstall(ctx context.Context, env, dir string) error {
	_, err := p.Env.Exec(ctx, env, dir, "pip install -e .")
	return err
}

// LockfileInstall is not implemented; lock-file projects are installed by hand.
func (p Pip) LockfileInstall(_ context.Context, _, dir string) error {
	return fmt.Errorf("%w: poetry project at %s", installer.ErrUnsupportedBuildTool, dir)
}
