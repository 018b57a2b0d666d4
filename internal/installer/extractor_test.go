package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsinstall/internal/prompt"
)

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestExtractTarGzReturnsTopLevel(t *testing.T) {
	src := filepath.Join(t.TempDir(), "widget-1.2.0.tar.gz")
	writeTarGz(t, src, map[string]string{
		"widget-1.2.0/setup.py":          "from setuptools import setup\n",
		"widget-1.2.0/widget/__init__.py": "",
	})
	dest := t.TempDir()

	root, err := ExtractArchive(src, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "widget-1.2.0"), root)
	assert.FileExists(t, filepath.Join(root, "setup.py"))
	assert.FileExists(t, filepath.Join(root, "widget", "__init__.py"))
}

func TestExtractZipFlatArchive(t *testing.T) {
	src := filepath.Join(t.TempDir(), "widget-1.2.0.zip")
	writeZip(t, src, map[string]string{"setup.py": "", "README.md": "widget"})
	dest := t.TempDir()

	root, err := ExtractArchive(src, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, root)
	assert.FileExists(t, filepath.Join(dest, "README.md"))
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	src := filepath.Join(t.TempDir(), "evil-1.0.zip")
	writeZip(t, src, map[string]string{"../outside.txt": "x"})

	_, err := ExtractArchive(src, t.TempDir())
	require.Error(t, err)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	_, err := ExtractArchive("widget-1.0.rar", t.TempDir())
	require.Error(t, err)
}

func TestArchiveAcquire(t *testing.T) {
	src := filepath.Join(t.TempDir(), "widget-1.2.0.tar.gz")
	writeTarGz(t, src, map[string]string{"widget-1.2.0/setup.py": ""})
	productDir := t.TempDir()
	a := &ArchiveAcquirer{Prompt: prompt.Yes{}}

	got, err := a.Acquire(context.Background(), ArchiveRequest{
		Archive: src, Name: "widget", Version: "1.2.0", Environment: "widget-1.2.0", ProductDir: productDir,
	})
	require.NoError(t, err)

	path := filepath.Join(productDir, "widget", "1.2.0")
	assert.Equal(t, path, got.LocalPath)
	assert.True(t, got.IsImmutable)
	assert.FileExists(t, filepath.Join(path, SetupFile))

	pin, err := os.ReadFile(filepath.Join(path, PinFile))
	require.NoError(t, err)
	assert.Equal(t, "widget-1.2.0", string(pin))

	entries, err := os.ReadDir(filepath.Join(productDir, "widget"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging directory must be removed")

	_, err = (&ArchiveAcquirer{Prompt: &scripted{confirms: map[string]bool{"Reuse": false}}}).Acquire(context.Background(), ArchiveRequest{
		Archive: src, Name: "widget", Version: "1.2.0", Environment: "widget-1.2.0", ProductDir: productDir,
	})
	require.ErrorIs(t, err, ErrPathCollision)
}

func TestArchiveAcquireFlatZipIsWorldReadable(t *testing.T) {
	src := filepath.Join(t.TempDir(), "widget-1.2.0.zip")
	writeZip(t, src, map[string]string{"setup.py": "", "README.md": "widget"})
	productDir := t.TempDir()

	got, err := (&ArchiveAcquirer{Prompt: prompt.Yes{}}).Acquire(context.Background(), ArchiveRequest{
		Archive: src, Name: "widget", Version: "1.2.0", Environment: "widget-1.2.0", ProductDir: productDir,
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(got.LocalPath, "README.md"))

	info, err := os.Stat(got.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}
