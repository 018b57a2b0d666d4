package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"opsinstall/internal/shell"
)

// Git implements installer.SourceControl.
type Git struct {
	Runner shell.Runner
}

func (g Git) Clone(ctx context.Context, remote, path string) error {
	_, err := g.Runner.Run(ctx, shell.Command{Script: "git clone " + shell.Join(remote, path)})
	return err
}

func (g Git) Status(ctx context.Context, dir string) (string, error) {
	return g.Runner.Run(ctx, shell.Command{Script: "git status --branch --porcelain", Dir: dir})
}

func (g Git) CheckoutTracking(ctx context.Context, dir, branch string) error {
	_, err := g.Runner.Run(ctx, shell.Command{
		Script: "git checkout -b " + shell.Join(branch, "--track", "origin/"+branch),
		Dir:    dir,
	})
	return err
}

func (g Git) CheckoutTag(ctx context.Context, dir, tag string) error {
	_, err := g.Runner.Run(ctx, shell.Command{
		Script: "git checkout -b " + shell.Join(tag, "refs/tags/"+tag),
		Dir:    dir,
	})
	return err
}

func (g Git) Tags(ctx context.Context, dir string) ([]string, error) {
	out, err := g.Runner.Run(ctx, shell.Command{Script: "git tag", Dir: dir})
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// StripMetadata deletes the .git directory, leaving a plain snapshot.
func (g Git) StripMetadata(dir string) error {
	if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return fmt.Errorf("failed to remove git metadata from %s: %w", dir, err)
	}
	return nil
}
