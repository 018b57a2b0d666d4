package main

import (
	"opsinstall/cmd" // CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// opsinstall installs observatory software products for shared operations accounts:
//   - Each product gets its own pyenv virtualenv, named <name>-<version> by default
//   - Products come from a package spec (pip), a git repository (cloned under the
//     products directory) or a distribution archive (extracted there)
//   - Tag checkouts and archives are sealed: their git metadata is removed
//   - Every install registers a Lua modulefile under the modules root, and a version
//     can be promoted to the product default with `set-version`
//   - Completed installs are appended to a JSON ledger shown by `list`
//
// Error handling strategy:
//   - The install workflow stops at the first failing step; nothing is rolled back
//   - Any error exits with a non-zero status after being printed in red
//
// Integration points:
//   - pyenv and pyenv-virtualenv for environments, git for sources, pip for installs
//   - Lmod for locating registered modulefiles
//   - A site init script (e.g. at LCO) is sourced before every external command
func main() {
	cmd.Execute()
}
