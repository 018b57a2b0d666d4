package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"opsinstall/internal/logger"
	"opsinstall/internal/product"
	"opsinstall/internal/prompt"
)

// PinFile is the pyenv local version file written into acquired trees.
const PinFile = ".python-version"

var branchLine = regexp.MustCompile(`^## (.+?)\.\.\.\S+`)

// SourceRequest describes a repository to acquire.
type SourceRequest struct {
	Remote      string
	Environment string
	ProductDir  string
	// Name overrides the repository name in the default path.
	Name   string
	Branch string
	Tag    string
}

// Ref returns the tag if set, otherwise the branch.
func (r SourceRequest) Ref() string {
	if r.Tag != "" {
		return r.Tag
	}
	return r.Branch
}

// SourceAcquirer clones repositories into the product directory.
type SourceAcquirer struct {
	Git    SourceControl
	Prompt prompt.Prompter
}

// DefaultSourcePath returns <productDir>/<name>/<ref with slashes replaced>.
func DefaultSourcePath(productDir, name, ref string) string {
	return filepath.Join(productDir, name, strings.ReplaceAll(ref, "/", "_"))
}

// Acquire clones req.Remote, checks out the requested branch or tag and pins the
// environment. Tag checkouts are sealed by removing the git metadata.
func (a *SourceAcquirer) Acquire(ctx context.Context, req SourceRequest) (RepositorySource, error) {
	remote, err := product.NormalizeRemote(req.Remote)
	if err != nil {
		return RepositorySource{}, err
	}
	name := req.Name
	if name == "" {
		name = product.RepoName(remote)
	}

	src := RepositorySource{RemoteURL: remote, Branch: req.Branch, Tag: req.Tag}

	path, reuse, err := claimPath(a.Prompt, "Path for cloned repository", DefaultSourcePath(req.ProductDir, name, req.Ref()))
	if err != nil {
		return RepositorySource{}, err
	}
	src.LocalPath = path
	if reuse {
		logger.Warn("[WARN] Reusing %s without checking its branch or tag.\n", path)
		src.Reused = true
		src.IsImmutable = req.Tag != ""
		return src, nil
	}

	logger.Step("[INFO] Cloning repository %s.\n", remote)
	if err := a.Git.Clone(ctx, remote, path); err != nil {
		return RepositorySource{}, err
	}

	status, err := a.Git.Status(ctx, path)
	if err != nil {
		return RepositorySource{}, err
	}
	current, err := parseBranch(status)
	if err != nil {
		return RepositorySource{}, err
	}
	logger.Debug("[DEBUG] Cloned %s on branch %s\n", path, current)

	if src.Tag == "" {
		tags, err := a.Git.Tags(ctx, path)
		if err != nil {
			return RepositorySource{}, err
		}
		if slices.Contains(tags, src.Branch) {
			logger.Warn("[WARN] %s is a tag; the checkout will be frozen.\n", src.Branch)
			src.Tag, src.Branch = src.Branch, ""
		}
	}

	switch {
	case src.Tag != "":
		if err := a.Git.CheckoutTag(ctx, path, src.Tag); err != nil {
			return RepositorySource{}, err
		}
	case current != src.Branch:
		if err := a.Git.CheckoutTracking(ctx, path, src.Branch); err != nil {
			return RepositorySource{}, err
		}
	}

	if err := writePin(path, req.Environment); err != nil {
		return RepositorySource{}, err
	}

	if src.Tag != "" {
		logger.Debug("[DEBUG] Removing git metadata from %s\n", path)
		if err := a.Git.StripMetadata(path); err != nil {
			return RepositorySource{}, err
		}
		src.IsImmutable = true
	}

	return src, nil
}

// claimPath asks the operator for a target path starting from def. When the path
// exists the operator may reuse it; declining is ErrPathCollision.
func claimPath(p prompt.Prompter, msg, def string) (path string, reuse bool, err error) {
	path, err = p.Input(msg, def)
	if err != nil {
		return "", false, err
	}
	if path = strings.TrimSpace(path); path == "" {
		return "", false, fmt.Errorf("%w: no path given", ErrAborted)
	}

	_, err = os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return path, false, nil
	case err != nil:
		return "", false, err
	}

	ok, err := p.Confirm(fmt.Sprintf("Path %s already exists. Reuse it?", path), false)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, fmt.Errorf("%w: %s", ErrPathCollision, path)
	}
	return path, true, nil
}

// parseBranch extracts the branch from `git status --branch --porcelain`.
func parseBranch(status string) (string, error) {
	first, _, _ := strings.Cut(status, "\n")
	m := branchLine.FindStringSubmatch(strings.TrimSpace(first))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrBranchDetectionFailed, first)
	}
	return m[1], nil
}

// writePin binds a tree to an environment through pyenv's local version file.
func writePin(dir, env string) error {
	if err := os.WriteFile(filepath.Join(dir, PinFile), []byte(env), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", PinFile, err)
	}
	return nil
}
