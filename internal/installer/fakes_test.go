package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"opsinstall/internal/shell"
)

// scripted answers prompts by substring of the question. Unmatched confirmations
// are accepted and unmatched inputs return the default.
type scripted struct {
	confirms map[string]bool
	inputs   map[string]string
	asked    []string
}

func (s *scripted) Confirm(msg string, def bool) (bool, error) {
	s.asked = append(s.asked, msg)
	for k, v := range s.confirms {
		if strings.Contains(msg, k) {
			return v, nil
		}
	}
	return true, nil
}

func (s *scripted) Input(msg, def string) (string, error) {
	s.asked = append(s.asked, msg)
	for k, v := range s.inputs {
		if strings.Contains(msg, k) {
			return v, nil
		}
	}
	return def, nil
}

type execCall struct {
	env, dir, script string
}

type fakeVM struct {
	versions   []string
	global     string
	created    []string
	execs      []execCall
	noPrefix   map[string]bool
	failCreate bool
}

func (f *fakeVM) Versions(context.Context) ([]string, error) {
	return slices.Clone(f.versions), nil
}

func (f *fakeVM) Global(context.Context) (string, error) { return f.global, nil }

func (f *fakeVM) Create(_ context.Context, base, name string) error {
	if f.failCreate {
		return &shell.CommandError{Command: "pyenv virtualenv " + base + " " + name, Err: errors.New("exit status 1")}
	}
	f.created = append(f.created, name)
	f.versions = append(f.versions, name)
	return nil
}

func (f *fakeVM) Prefix(_ context.Context, name string) (string, error) {
	if f.noPrefix[name] || !slices.Contains(f.versions, name) {
		return "", fmt.Errorf("pyenv: version `%s' not installed", name)
	}
	return "/pyenv/versions/" + name, nil
}

func (f *fakeVM) Exec(_ context.Context, env, dir, script string) (string, error) {
	f.execs = append(f.execs, execCall{env: env, dir: dir, script: script})
	return "", nil
}

// fakeGit clones by creating the directory with a .git folder and the given files.
type fakeGit struct {
	files     []string
	status    string
	tags      []string
	cloned    []string
	tracking  []string
	tagged    []string
	failClone bool
}

func (f *fakeGit) Clone(_ context.Context, remote, path string) error {
	if f.failClone {
		return &shell.CommandError{Command: "git clone " + remote, Err: errors.New("exit status 128")}
	}
	f.cloned = append(f.cloned, remote+" "+path)
	if err := os.MkdirAll(filepath.Join(path, ".git"), 0o755); err != nil {
		return err
	}
	for _, name := range f.files {
		if err := os.WriteFile(filepath.Join(path, name), []byte("# "+name+"\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeGit) Status(context.Context, string) (string, error) { return f.status, nil }

func (f *fakeGit) CheckoutTracking(_ context.Context, _ string, branch string) error {
	f.tracking = append(f.tracking, branch)
	return nil
}

func (f *fakeGit) CheckoutTag(_ context.Context, _ string, tag string) error {
	f.tagged = append(f.tagged, tag)
	return nil
}

func (f *fakeGit) Tags(context.Context, string) ([]string, error) { return f.tags, nil }

func (f *fakeGit) StripMetadata(dir string) error {
	return os.RemoveAll(filepath.Join(dir, ".git"))
}

type fakePackager struct {
	installs []string
	editable []string
	failPip  bool
}

func (f *fakePackager) Install(_ context.Context, env, requirement string) error {
	if f.failPip {
		return &shell.CommandError{Command: "pip install " + requirement, Err: errors.New("exit status 1")}
	}
	f.installs = append(f.installs, env+": "+requirement)
	return nil
}

func (f *fakePackager) EditableInstall(_ context.Context, env, dir string) error {
	f.editable = append(f.editable, env+": "+dir)
	return nil
}

func (f *fakePackager) LockfileInstall(_ context.Context, _, dir string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedBuildTool, dir)
}

type fakeModules struct {
	avail string
	show  map[string]string
}

func (f *fakeModules) Avail(context.Context, string) (string, error) {
	if f.avail == "" {
		return "", &shell.CommandError{Command: "module avail", Err: errors.New("exit status 1")}
	}
	return f.avail, nil
}

func (f *fakeModules) Show(_ context.Context, module string) (string, error) {
	out, ok := f.show[module]
	if !ok {
		return "", &shell.CommandError{Command: "module show " + module, Err: errors.New("exit status 1")}
	}
	return out, nil
}
