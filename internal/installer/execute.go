package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"opsinstall/internal/logger"
	"opsinstall/internal/prompt"
)

// Build descriptions recognised in an acquired tree, in priority order.
const (
	PyprojectFile = "pyproject.toml"
	SetupFile     = "setup.py"
)

// InstallExecutor runs the install step of an acquired tree.
type InstallExecutor struct {
	Packager Packager
	Prompt   prompt.Prompter
}

// Install detects how the tree at path is built and installs it into env.
// It returns whether an install step ran.
func (x *InstallExecutor) Install(ctx context.Context, path, env string) (bool, error) {
	switch {
	case exists(filepath.Join(path, PyprojectFile)):
		ok, err := x.Prompt.Confirm("Poetry install?", true)
		if err != nil || !ok {
			return false, err
		}
		err = x.Packager.LockfileInstall(ctx, env, path)
		if errors.Is(err, ErrUnsupportedBuildTool) {
			logger.Warn("[WARN] Poetry installation is not currently supported. Install the product manually.\n")
			return false, nil
		}
		return err == nil, err

	case exists(filepath.Join(path, SetupFile)):
		ok, err := x.Prompt.Confirm("Pip install repository?", true)
		if err != nil || !ok {
			return false, err
		}
		logger.Step("[INFO] Running installation.\n")
		if err := x.Packager.EditableInstall(ctx, env, path); err != nil {
			return false, err
		}
		return true, nil

	default:
		ok, err := x.Prompt.Confirm(fmt.Sprintf("Cannot find %s or %s. Continue?", SetupFile, PyprojectFile), false)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("%w: no build description in %s", ErrAborted, path)
		}
		return false, nil
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
