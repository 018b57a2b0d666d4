package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"opsinstall/internal/logger"
	"opsinstall/internal/product"
	"opsinstall/internal/prompt"
)

// Mode selects how a product is acquired.
type Mode int

const (
	// ModePackage installs a package spec with the package installer.
	ModePackage Mode = iota
	// ModeRepo clones a git repository.
	ModeRepo
	// ModeArchive unpacks a distribution archive.
	ModeArchive
)

func (m Mode) String() string {
	switch m {
	case ModeRepo:
		return "repository"
	case ModeArchive:
		return "archive"
	default:
		return "package"
	}
}

// Request is one install invocation.
type Request struct {
	// Product is a package spec, a repository remote or an archive path, depending on Mode.
	Product string
	Mode    Mode
	Branch  string
	Tag     string
	// Environment overrides the generated environment name.
	Environment       string
	EnvironmentPrefix string
	ProductDir        string
	ModulesRoot       string
	DescriptorExt     string
}

// Result summarises a completed install.
type Result struct {
	Name        string
	Version     string
	Environment Environment
	// Source is nil for package installs.
	Source      *RepositorySource
	Installed   bool
	Descriptor  ModuleDescriptor
	DefaultLink string
}

// Workflow runs the install steps in order, stopping at the first error.
// Completed steps are not rolled back.
type Workflow struct {
	Prompt     prompt.Prompter
	VM         VersionManager
	Git        SourceControl
	Packager   Packager
	BasePython string
}

// Run installs req.Product and registers its modulefile.
func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	res := &Result{}

	var requirement string
	var err error
	switch req.Mode {
	case ModePackage:
		spec, err := product.Parse(req.Product)
		if err != nil {
			return nil, err
		}
		requirement = spec.Requirement()
		if res.Name, res.Version, err = product.Resolve(req.Product, false, "", w.Prompt); err != nil {
			return nil, err
		}
		if res.Version == "" {
			if res.Version, err = w.Prompt.Input("Product version", ""); err != nil {
				return nil, err
			}
			if res.Version = strings.TrimSpace(res.Version); res.Version == "" {
				return nil, fmt.Errorf("%w: %q has no version to register", product.ErrMalformedSpec, req.Product)
			}
		}
	case ModeRepo:
		remote, err := product.NormalizeRemote(req.Product)
		if err != nil {
			return nil, err
		}
		req.Product = remote
		ref := req.Tag
		if ref == "" {
			ref = req.Branch
		}
		if res.Name, res.Version, err = product.Resolve(remote, true, ref, w.Prompt); err != nil {
			return nil, err
		}
	case ModeArchive:
		name, version, err := product.ParseArchiveName(req.Product)
		if err != nil {
			return nil, err
		}
		answer, err := w.Prompt.Input("Product name", name)
		if err != nil {
			return nil, err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			name = answer
		}
		res.Name, res.Version = name, version
	default:
		return nil, fmt.Errorf("unknown install mode %d", req.Mode)
	}
	logger.Debug("[DEBUG] Resolved %s install of %s version %s\n", req.Mode, res.Name, res.Version)

	envName := req.Environment
	if envName == "" {
		envName = EnvironmentName(req.EnvironmentPrefix, res.Name, res.Version)
	}
	provisioner := &Provisioner{VM: w.VM, Prompt: w.Prompt, Base: w.BasePython}
	if res.Environment, err = provisioner.Ensure(ctx, envName); err != nil {
		return nil, err
	}

	switch req.Mode {
	case ModePackage:
		logger.Step("[INFO] pip-installing %s.\n", requirement)
		if err := w.Packager.Install(ctx, res.Environment.Name, requirement); err != nil {
			return nil, err
		}
		res.Installed = true
	case ModeRepo:
		acquirer := &SourceAcquirer{Git: w.Git, Prompt: w.Prompt}
		src, err := acquirer.Acquire(ctx, SourceRequest{
			Remote:      req.Product,
			Environment: res.Environment.Name,
			ProductDir:  req.ProductDir,
			Name:        res.Name,
			Branch:      req.Branch,
			Tag:         req.Tag,
		})
		if err != nil {
			return nil, err
		}
		res.Source = &src
	case ModeArchive:
		acquirer := &ArchiveAcquirer{Prompt: w.Prompt}
		src, err := acquirer.Acquire(ctx, ArchiveRequest{
			Archive:     req.Product,
			Name:        res.Name,
			Version:     res.Version,
			Environment: res.Environment.Name,
			ProductDir:  req.ProductDir,
		})
		if err != nil {
			return nil, err
		}
		res.Source = &src
	}

	var bindings []EnvBinding
	if res.Source != nil {
		executor := &InstallExecutor{Packager: w.Packager, Prompt: w.Prompt}
		if res.Installed, err = executor.Install(ctx, res.Source.LocalPath, res.Environment.Name); err != nil {
			return nil, err
		}
		if bindings, err = w.repoBindings(res.Source.LocalPath, res.Installed); err != nil {
			return nil, err
		}
	}

	builder := &DescriptorBuilder{Prompt: w.Prompt}
	descReq := DescriptorRequest{
		Name:        res.Name,
		Version:     res.Version,
		Environment: res.Environment.Name,
		ModulesRoot: req.ModulesRoot,
		Ext:         req.DescriptorExt,
		Bindings:    bindings,
	}
	if res.Source != nil {
		descReq.RepoPath = res.Source.LocalPath
	}
	if res.Descriptor, err = builder.Build(ctx, descReq); err != nil {
		return nil, err
	}

	makeDefault, err := w.Prompt.Confirm("Make default?", false)
	if err != nil {
		return nil, err
	}
	if makeDefault {
		if res.DefaultLink, err = Promote(res.Descriptor.TargetPath); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// repoBindings returns the search-path and executable-path bindings for an
// acquired tree. When an install step ran they are only offered on request.
func (w *Workflow) repoBindings(path string, installed bool) ([]EnvBinding, error) {
	if installed {
		ok, err := w.Prompt.Confirm("Also prepend the repository to PYTHONPATH and PATH?", false)
		if err != nil || !ok {
			return nil, err
		}
	}
	return []EnvBinding{
		{Name: "PYTHONPATH", Value: path},
		{Name: "PATH", Value: filepath.Join(path, "bin")},
	}, nil
}
