package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"opsinstall/internal/logger"
	"opsinstall/internal/prompt"
)

// EnvSelectorVar is the variable the modulefile sets to activate the environment.
const EnvSelectorVar = "PYENV_VERSION"

// DescriptorRequest describes the modulefile to build.
type DescriptorRequest struct {
	Name        string
	Version     string
	Environment string
	// RepoPath is the acquired tree; empty for package installs.
	RepoPath    string
	ModulesRoot string
	Ext         string
	// Bindings are offered to the operator, who may change or clear each value.
	Bindings []EnvBinding
}

// DescriptorBuilder writes Lua modulefiles.
type DescriptorBuilder struct {
	Prompt prompt.Prompter
}

// DescriptorPath returns <root>/<name>/<version>.<ext>. Slashes in version
// become underscores so the file stays beside its siblings.
func DescriptorPath(root, name, version, ext string) string {
	return filepath.Join(root, name, strings.ReplaceAll(version, "/", "_")+"."+ext)
}

// RepoDirVar returns the <NAME>_DIR variable for a product.
func RepoDirVar(name string) string {
	upper := strings.ToUpper(name)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, upper) + "_DIR"
}

// Build collects dependencies and bindings from the operator and writes the
// modulefile. An existing target is never overwritten.
func (b *DescriptorBuilder) Build(ctx context.Context, req DescriptorRequest) (ModuleDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return ModuleDescriptor{}, err
	}
	ok, err := b.Prompt.Confirm("Create modulefile?", true)
	if err != nil {
		return ModuleDescriptor{}, err
	}
	if !ok {
		return ModuleDescriptor{}, fmt.Errorf("%w: modulefile not created", ErrAborted)
	}
	if req.ModulesRoot == "" {
		return ModuleDescriptor{}, errors.New("no modules root configured (set MODULEPATH or --modulepath)")
	}
	if req.Ext == "" {
		req.Ext = "lua"
	}

	target, err := b.Prompt.Input("Module path", DescriptorPath(req.ModulesRoot, req.Name, req.Version, req.Ext))
	if err != nil {
		return ModuleDescriptor{}, err
	}
	if target = strings.TrimSpace(target); target == "" {
		return ModuleDescriptor{}, fmt.Errorf("%w: no module path", ErrAborted)
	}
	if exists(target) {
		return ModuleDescriptor{}, fmt.Errorf("%w: %s", ErrDescriptorAlreadyExists, target)
	}

	deps, err := b.Prompt.Input("Space-separated modules to load with this product", "")
	if err != nil {
		return ModuleDescriptor{}, err
	}

	desc := ModuleDescriptor{
		ProductName:  req.Name,
		Version:      req.Version,
		Environment:  req.Environment,
		Dependencies: strings.Fields(deps),
		TargetPath:   target,
	}
	if req.RepoPath != "" {
		desc.RepoDirVar = RepoDirVar(req.Name)
	}

	for _, binding := range req.Bindings {
		value, err := b.Prompt.Input(fmt.Sprintf("Value for %s (empty to skip)", binding.Name), binding.Value)
		if err != nil {
			return ModuleDescriptor{}, err
		}
		if value = strings.TrimSpace(value); value != "" {
			desc.Bindings = append(desc.Bindings, EnvBinding{Name: strings.ToUpper(binding.Name), Value: value})
		}
	}

	desc.Text = Render(desc, req.RepoPath)
	if err := writeDescriptor(target, desc.Text); err != nil {
		return ModuleDescriptor{}, err
	}

	logger.Info("[INFO] Created modulefile %s.\n", target)
	return desc, nil
}

// Render produces the modulefile text. Directive order is fixed: self conflict,
// load/prereq per dependency, repository dir, bindings, environment selector.
// *PATH bindings whose directory does not exist are dropped.
func Render(d ModuleDescriptor, repoPath string) string {
	lines := []string{fmt.Sprintf("conflict(%s)", luaString(d.ProductName)), ""}

	for _, dep := range d.Dependencies {
		lines = append(lines,
			fmt.Sprintf("load(%s)", luaString(dep)),
			fmt.Sprintf("prereq(%s)", luaString(dep)),
			"",
		)
	}

	if d.RepoDirVar != "" && repoPath != "" {
		lines = append(lines, fmt.Sprintf("setenv(%s, %s)", luaString(d.RepoDirVar), luaString(repoPath)))
	}

	for _, b := range d.Bindings {
		if !strings.HasSuffix(b.Name, "PATH") {
			lines = append(lines, fmt.Sprintf("setenv(%s, %s)", luaString(b.Name), luaString(b.Value)))
			continue
		}
		if !exists(b.Value) {
			logger.Debug("[DEBUG] Skipping %s=%s: path does not exist\n", b.Name, b.Value)
			continue
		}
		lines = append(lines, fmt.Sprintf("prepend_path{%s, %s, delim=':', priority='0'}", luaString(b.Name), luaString(b.Value)))
	}

	if lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	lines = append(lines, fmt.Sprintf("setenv(%s, %s)", luaString(EnvSelectorVar), luaString(d.Environment)), "")

	return strings.Join(lines, "\n")
}

func luaString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

// writeDescriptor creates path exclusively; a file appearing since the existence
// check is still reported as ErrDescriptorAlreadyExists.
func writeDescriptor(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrDescriptorAlreadyExists, path)
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
