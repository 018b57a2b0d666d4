package installer

import "errors"

// Every error is fatal to the invocation; the operator fixes state and re-runs.
var (
	// ErrAborted is returned when the operator declines a confirmation that the
	// workflow cannot continue without.
	ErrAborted = errors.New("aborted by operator")
	// ErrPathCollision is returned when a target path exists and reuse was declined.
	ErrPathCollision = errors.New("path already exists")
	// ErrBranchDetectionFailed is returned when `git status` output has no branch line.
	ErrBranchDetectionFailed = errors.New("cannot parse current branch")
	// ErrDescriptorAlreadyExists is returned when the modulefile for a version is already registered.
	ErrDescriptorAlreadyExists = errors.New("module descriptor already exists")
	// ErrEnvironmentNotFound is returned when a provisioned environment has no on-disk location.
	ErrEnvironmentNotFound = errors.New("environment not found")
	// ErrModuleNotFound is returned when the module system cannot locate a product or version.
	ErrModuleNotFound = errors.New("module not found")
	// ErrUnsupportedBuildTool is returned by a Packager for build descriptions it cannot install.
	ErrUnsupportedBuildTool = errors.New("build tool not supported")
)
