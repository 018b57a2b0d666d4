package installer

import "context"

// Environment is a provisioned pyenv virtualenv.
type Environment struct {
	Name string
	// Base is the Python version the environment was created from. It is empty
	// when an existing environment was reused.
	Base string
	// Path is the environment prefix on disk.
	Path string
	// Created is false when an existing environment was reused.
	Created bool
}

// RepositorySource is an acquired product tree: a git checkout or an extracted archive.
type RepositorySource struct {
	RemoteURL string
	LocalPath string
	Branch    string
	Tag       string
	// IsImmutable is true for tag checkouts and archives. Such trees carry no
	// version-control metadata.
	IsImmutable bool
	// Reused is true when an existing path was accepted without re-cloning. The
	// branch or tag of a reused tree is not checked against the request.
	Reused bool
}

// EnvBinding is an environment variable set by a modulefile.
type EnvBinding struct {
	Name  string
	Value string
}

// ModuleDescriptor is a written modulefile.
type ModuleDescriptor struct {
	ProductName  string
	Version      string
	Environment  string
	Dependencies []string
	Bindings     []EnvBinding
	RepoDirVar   string
	TargetPath   string
	Text         string
}

// VersionManager is the runtime-version manager (pyenv).
type VersionManager interface {
	// Versions lists installed versions and environments as bare names.
	Versions(ctx context.Context) ([]string, error)
	// Global reports the active global version.
	Global(ctx context.Context) (string, error)
	// Create creates environment name from base.
	Create(ctx context.Context, base, name string) error
	// Prefix returns the on-disk location of an environment.
	Prefix(ctx context.Context, name string) (string, error)
	// Exec runs script in dir with env active and any ambient selection cleared.
	Exec(ctx context.Context, env, dir, script string) (string, error)
}

// SourceControl is the git client.
type SourceControl interface {
	Clone(ctx context.Context, remote, path string) error
	// Status returns `git status --branch --porcelain` output.
	Status(ctx context.Context, dir string) (string, error)
	// CheckoutTracking creates branch tracking origin/<branch> and checks it out.
	CheckoutTracking(ctx context.Context, dir, branch string) error
	// CheckoutTag creates a branch named after tag at the tag ref and checks it out.
	CheckoutTag(ctx context.Context, dir, tag string) error
	Tags(ctx context.Context, dir string) ([]string, error)
	// StripMetadata removes version-control metadata from a working copy.
	StripMetadata(dir string) error
}

// Packager installs Python products into an environment.
type Packager interface {
	// Install installs a requirement such as "numpy>=1.20".
	Install(ctx context.Context, env, requirement string) error
	// EditableInstall installs the project at dir in editable mode.
	EditableInstall(ctx context.Context, env, dir string) error
	// LockfileInstall installs a pyproject.toml project with its lock-file tool.
	LockfileInstall(ctx context.Context, env, dir string) error
}

// ModuleSystem is the environment-module system's introspection interface (Lmod).
type ModuleSystem interface {
	// Avail returns terse `avail` output for the default version of product.
	Avail(ctx context.Context, product string) (string, error)
	// Show returns `show` output for a product/version module.
	Show(ctx context.Context, module string) (string, error)
}
