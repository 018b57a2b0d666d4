package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"opsinstall/internal/logger"
)

// DefaultLink is the name of the per-product default pointer.
const DefaultLink = "default"

// Promote points the default link in the descriptor's directory at descriptorPath.
// The new link is created under a temporary name and renamed over the old one,
// so the directory always has exactly one default.
func Promote(descriptorPath string) (string, error) {
	target, err := filepath.Abs(descriptorPath)
	if err != nil {
		return "", err
	}
	if !exists(target) {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, target)
	}

	dir := filepath.Dir(target)
	link := filepath.Join(dir, DefaultLink)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%d", DefaultLink, os.Getpid()))

	_ = os.Remove(tmp)
	if err := os.Symlink(target, tmp); err != nil {
		return "", fmt.Errorf("failed to create default link: %w", err)
	}
	if err := os.Rename(tmp, link); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to replace %s: %w", link, err)
	}

	logger.Info("[INFO] Created default symlink %s -> %s\n", link, target)
	return link, nil
}

// SplitModule splits "name/version". version is empty when there is no slash.
func SplitModule(module string) (name, version string) {
	name, version, _ = strings.Cut(module, "/")
	return name, version
}

// ModuleLocator finds registered modulefiles through the module system's own
// introspection output.
type ModuleLocator struct {
	Modules ModuleSystem
	// Ext is appended when a reported path lacks an extension and does not exist.
	Ext string
}

// DefaultPath returns the modulefile the product's default currently resolves to.
func (l *ModuleLocator) DefaultPath(ctx context.Context, product string) (string, error) {
	out, err := l.Modules.Avail(ctx, product)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrModuleNotFound, product, err)
	}
	path, ok := parseAvail(out)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, product)
	}
	return l.resolveFile(path, product)
}

// DescriptorPath returns the modulefile registered for product/version.
func (l *ModuleLocator) DescriptorPath(ctx context.Context, product, version string) (string, error) {
	module := product + "/" + version
	out, err := l.Modules.Show(ctx, module)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrModuleNotFound, module, err)
	}
	path, ok := parseShow(out)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	}
	logger.Info("[INFO] Module found at %s\n", path)
	return l.resolveFile(path, module)
}

// PromoteVersion makes product/version the default and returns the link path.
func (l *ModuleLocator) PromoteVersion(ctx context.Context, product, version string) (string, error) {
	path, err := l.DescriptorPath(ctx, product, version)
	if err != nil {
		return "", err
	}
	return Promote(path)
}

func (l *ModuleLocator) resolveFile(path, module string) (string, error) {
	if exists(path) {
		return path, nil
	}
	ext := l.Ext
	if ext == "" {
		ext = "lua"
	}
	if withExt := path + "." + ext; filepath.Ext(path) != "."+ext && exists(withExt) {
		return withExt, nil
	}
	return "", fmt.Errorf("%w: %s (%s does not exist)", ErrModuleNotFound, module, path)
}

// parseAvail reads terse avail output: a "<dir>:" line followed by the module entry.
func parseAvail(out string) (string, bool) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, ":") {
			continue
		}
		for _, entry := range lines[i+1:] {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			entry, _, _ = strings.Cut(entry, "(")
			return filepath.Join(strings.TrimSuffix(line, ":"), strings.TrimSpace(entry)), true
		}
		return "", false
	}
	return "", false
}

// parseShow finds the modulefile path in show output: the first line ending in
// ":" outside the dashed separators.
func parseShow(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Trim(line, "-") == "" {
			continue
		}
		if strings.HasSuffix(line, ":") {
			return strings.TrimSuffix(line, ":"), true
		}
		return "", false
	}
	return "", false
}
