package installer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsinstall/internal/prompt"
)

func TestRepoDirVar(t *testing.T) {
	assert.Equal(t, "WIDGET_DIR", RepoDirVar("widget"))
	assert.Equal(t, "SDSS_CLU_DIR", RepoDirVar("sdss-clu"))
}

func TestBuildDirectiveOrder(t *testing.T) {
	root := t.TempDir()
	repo := t.TempDir()
	ask := &scripted{inputs: map[string]string{"Space-separated": "a b"}}
	b := &DescriptorBuilder{Prompt: ask}

	desc, err := b.Build(context.Background(), DescriptorRequest{
		Name:        "widget",
		Version:     "main",
		Environment: "widget-main",
		RepoPath:    repo,
		ModulesRoot: root,
		Ext:         "lua",
		Bindings: []EnvBinding{
			{Name: "PYTHONPATH", Value: repo},
			{Name: "PATH", Value: filepath.Join(repo, "bin")},
			{Name: "WIDGET_CONFIG", Value: "/etc/widget.yaml"},
		},
	})
	require.NoError(t, err)

	want := "conflict('widget')\n" +
		"\n" +
		"load('a')\n" +
		"prereq('a')\n" +
		"\n" +
		"load('b')\n" +
		"prereq('b')\n" +
		"\n" +
		"setenv('WIDGET_DIR', '" + repo + "')\n" +
		"prepend_path{'PYTHONPATH', '" + repo + "', delim=':', priority='0'}\n" +
		"setenv('WIDGET_CONFIG', '/etc/widget.yaml')\n" +
		"\n" +
		"setenv('PYENV_VERSION', 'widget-main')\n"

	assert.Equal(t, want, desc.Text)
	assert.Equal(t, filepath.Join(root, "widget", "main.lua"), desc.TargetPath)
	assert.Equal(t, []string{"a", "b"}, desc.Dependencies)

	written, err := os.ReadFile(desc.TargetPath)
	require.NoError(t, err)
	assert.Equal(t, want, string(written))
}

func TestRenderIsDeterministic(t *testing.T) {
	d := ModuleDescriptor{
		ProductName:  "widget",
		Environment:  "widget-main",
		Dependencies: []string{"b", "a"},
		RepoDirVar:   "WIDGET_DIR",
	}
	first := Render(d, "/srv/widget/main")
	assert.Equal(t, first, Render(d, "/srv/widget/main"))
	assert.Less(t, strings.Index(first, "load('b')"), strings.Index(first, "load('a')"))
}

func TestRenderPackageInstall(t *testing.T) {
	text := Render(ModuleDescriptor{ProductName: "numpy", Environment: "numpy-1.20"}, "")
	assert.Equal(t, "conflict('numpy')\n\nsetenv('PYENV_VERSION', 'numpy-1.20')\n", text)
}

func TestRenderSkipsMissingPaths(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	text := Render(ModuleDescriptor{
		ProductName: "widget",
		Environment: "e",
		Bindings: []EnvBinding{
			{Name: "PATH", Value: missing},
			{Name: "PYTHONPATH", Value: missing},
		},
	}, "")
	assert.NotContains(t, text, "prepend_path")
	assert.NotContains(t, text, missing)
}

func TestBuildRefusesExistingDescriptor(t *testing.T) {
	root := t.TempDir()
	target := DescriptorPath(root, "widget", "main", "lua")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))

	_, err := (&DescriptorBuilder{Prompt: prompt.Yes{}}).Build(context.Background(), DescriptorRequest{
		Name: "widget", Version: "main", Environment: "e", ModulesRoot: root,
	})
	require.ErrorIs(t, err, ErrDescriptorAlreadyExists)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestBuildClearedBindingIsSkipped(t *testing.T) {
	repo := t.TempDir()
	ask := &scripted{inputs: map[string]string{"Value for PATH": " "}}

	desc, err := (&DescriptorBuilder{Prompt: ask}).Build(context.Background(), DescriptorRequest{
		Name: "widget", Version: "main", Environment: "e", RepoPath: repo, ModulesRoot: t.TempDir(),
		Bindings: []EnvBinding{{Name: "PATH", Value: repo}, {Name: "PYTHONPATH", Value: repo}},
	})
	require.NoError(t, err)
	assert.Equal(t, []EnvBinding{{Name: "PYTHONPATH", Value: repo}}, desc.Bindings)
}

func TestBuildDeclinedOrMisconfigured(t *testing.T) {
	ctx := context.Background()

	_, err := (&DescriptorBuilder{Prompt: &scripted{confirms: map[string]bool{"Create modulefile": false}}}).
		Build(ctx, DescriptorRequest{Name: "widget", Version: "main", ModulesRoot: t.TempDir()})
	require.ErrorIs(t, err, ErrAborted)

	_, err = (&DescriptorBuilder{Prompt: prompt.Yes{}}).Build(ctx, DescriptorRequest{Name: "widget", Version: "main"})
	require.Error(t, err)
}
