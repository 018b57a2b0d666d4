package installer

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"opsinstall/internal/logger"
	"opsinstall/internal/prompt"
)

// bootstrapScript upgrades the packaging tools of every new environment.
const bootstrapScript = "pip install -U pip setuptools wheel"

// Provisioner ensures a named pyenv environment exists.
type Provisioner struct {
	VM     VersionManager
	Prompt prompt.Prompter
	// Base is the version new environments derive from. Empty means the global version.
	Base string
}

// EnvironmentName builds the default environment name for a product version.
func EnvironmentName(prefix, name, version string) string {
	if version == "" {
		return ""
	}
	return prefix + name + "-" + strings.ReplaceAll(version, "/", "_")
}

// Ensure returns environment name, reusing it if it exists and the operator agrees,
// creating it otherwise. An empty name asks the operator for one.
func (p *Provisioner) Ensure(ctx context.Context, name string) (Environment, error) {
	versions, err := p.VM.Versions(ctx)
	if err != nil {
		return Environment{}, err
	}

	if name != "" && slices.Contains(versions, name) {
		return p.reuse(ctx, name)
	}

	create := false
	if name != "" {
		if create, err = p.Prompt.Confirm(fmt.Sprintf("Create environment %s?", name), true); err != nil {
			return Environment{}, err
		}
	}
	if !create {
		name, err = p.Prompt.Input("Environment name", "")
		if err != nil {
			return Environment{}, err
		}
		if name = strings.TrimSpace(name); name == "" {
			return Environment{}, fmt.Errorf("%w: no environment name", ErrAborted)
		}
		if slices.Contains(versions, name) {
			return p.reuse(ctx, name)
		}
	}

	base := p.Base
	if base == "" {
		if base, err = p.VM.Global(ctx); err != nil {
			return Environment{}, err
		}
	}

	logger.Step("[INFO] Creating virtual environment %s from %s.\n", name, base)
	if err := p.VM.Create(ctx, base, name); err != nil {
		return Environment{}, err
	}
	if _, err := p.VM.Exec(ctx, name, "", bootstrapScript); err != nil {
		return Environment{}, err
	}

	env, err := p.locate(ctx, name)
	if err != nil {
		return Environment{}, err
	}
	env.Base = base
	env.Created = true
	return env, nil
}

func (p *Provisioner) reuse(ctx context.Context, name string) (Environment, error) {
	ok, err := p.Prompt.Confirm(fmt.Sprintf("Environment %s already exists. Use it?", name), true)
	if err != nil {
		return Environment{}, err
	}
	if !ok {
		return Environment{}, fmt.Errorf("%w: environment %s exists and was not reused", ErrAborted, name)
	}
	logger.Debug("[DEBUG] Reusing environment %s\n", name)
	return p.locate(ctx, name)
}

func (p *Provisioner) locate(ctx context.Context, name string) (Environment, error) {
	path, err := p.VM.Prefix(ctx, name)
	if err != nil {
		return Environment{}, fmt.Errorf("%w: %s: %v", ErrEnvironmentNotFound, name, err)
	}
	return Environment{Name: name, Path: path}, nil
}
