package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"opsinstall/internal/logger"
	"opsinstall/internal/prompt"
)

// ArchiveRequest describes a distribution archive to unpack as a product tree.
type ArchiveRequest struct {
	// Archive is a local path or an http(s) URL.
	Archive     string
	Name        string
	Version     string
	Environment string
	ProductDir  string
}

// ArchiveAcquirer unpacks distribution archives into the product directory.
// The result is immutable, like a tag checkout.
type ArchiveAcquirer struct {
	Prompt prompt.Prompter
}

// Acquire extracts req.Archive to <productDir>/<name>/<version> and pins the environment.
func (a *ArchiveAcquirer) Acquire(ctx context.Context, req ArchiveRequest) (RepositorySource, error) {
	if err := ctx.Err(); err != nil {
		return RepositorySource{}, err
	}
	remote := isArchiveURL(req.Archive)
	archive := req.Archive
	if !remote {
		abs, err := filepath.Abs(req.Archive)
		if err != nil {
			return RepositorySource{}, err
		}
		if _, err := os.Stat(abs); err != nil {
			return RepositorySource{}, fmt.Errorf("archive %s: %w", req.Archive, err)
		}
		archive = abs
	}

	path, reuse, err := claimPath(a.Prompt, "Path for extracted distribution", DefaultSourcePath(req.ProductDir, req.Name, req.Version))
	if err != nil {
		return RepositorySource{}, err
	}
	src := RepositorySource{RemoteURL: archive, LocalPath: path, IsImmutable: true}
	if reuse {
		logger.Warn("[WARN] Reusing %s without checking its contents.\n", path)
		src.Reused = true
		return src, nil
	}

	if remote {
		tmp, err := os.MkdirTemp("", "opsinstall-download-")
		if err != nil {
			return RepositorySource{}, err
		}
		defer os.RemoveAll(tmp)
		if archive, err = downloadArchive(ctx, req.Archive, tmp); err != nil {
			return RepositorySource{}, err
		}
	}

	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return RepositorySource{}, err
	}
	staging, err := os.MkdirTemp(parent, ".extract-")
	if err != nil {
		return RepositorySource{}, err
	}
	defer os.RemoveAll(staging)

	logger.Step("[INFO] Extracting %s.\n", archive)
	root, err := ExtractArchive(archive, staging)
	if err != nil {
		return RepositorySource{}, err
	}
	if err := os.Rename(root, path); err != nil {
		return RepositorySource{}, fmt.Errorf("failed to move extracted tree to %s: %w", path, err)
	}
	// A flat archive moves the 0700 staging directory itself.
	if err := os.Chmod(path, 0o755); err != nil {
		return RepositorySource{}, err
	}

	if err := writePin(path, req.Environment); err != nil {
		return RepositorySource{}, err
	}
	return src, nil
}
