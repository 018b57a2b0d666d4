// Package tools holds the shell-backed clients for pyenv, git, pip and Lmod.
package tools

import "opsinstall/internal/installer"

var (
	_ installer.VersionManager = Pyenv{}
	_ installer.SourceControl  = Git{}
	_ installer.Packager       = Pip{}
	_ installer.ModuleSystem   = Lmod{}
)
