// Package product turns operator input into a canonical product name and version.
package product

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"opsinstall/internal/prompt"
)

var (
	// ErrMalformedSpec is returned for package specs that do not match
	// <name>[<comparator><version>].
	ErrMalformedSpec = errors.New("malformed product spec")
	// ErrUnsupportedRemoteScheme is returned for repository URLs that are not SSH remotes.
	ErrUnsupportedRemoteScheme = errors.New("unsupported remote scheme")
)

// specPattern splits a package spec. The version group is optional as a whole but
// may be empty after a comparator, which Parse rejects.
var specPattern = regexp.MustCompile(`^([A-Za-z0-9_-]+)(?:([<>=~!]+)(.*))?$`)

var versionPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.+*_-]*$`)

// archiveExts are the distribution archive suffixes ParseArchiveName strips.
var archiveExts = []string{".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".tar", ".zip", ".7z"}

// Spec is a parsed package specification.
type Spec struct {
	Name       string
	Comparator string
	Version    string
}

// Requirement returns the spec in installer form, e.g. "numpy>=1.20".
func (s Spec) Requirement() string {
	return s.Name + s.Comparator + s.Version
}

// Parse parses <name>[<comparator><version>].
func Parse(spec string) (Spec, error) {
	spec = strings.TrimSpace(spec)
	m := specPattern.FindStringSubmatch(spec)
	if m == nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrMalformedSpec, spec)
	}

	s := Spec{Name: m[1], Comparator: m[2], Version: m[3]}
	if s.Comparator != "" && !versionPattern.MatchString(s.Version) {
		return Spec{}, fmt.Errorf("%w: %q has no valid version after %q", ErrMalformedSpec, spec, s.Comparator)
	}
	return s, nil
}

// NormalizeRemote validates a repository remote and expands the org/repo
// shorthand to a GitHub SSH remote.
func NormalizeRemote(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	lower := strings.ToLower(remote)
	switch {
	case remote == "":
		return "", fmt.Errorf("%w: empty repository", ErrUnsupportedRemoteScheme)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return "", fmt.Errorf("%w: %s (repositories must use git@ remotes)", ErrUnsupportedRemoteScheme, remote)
	case strings.HasPrefix(lower, "git@"), strings.HasPrefix(lower, "ssh://"):
		return remote, nil
	case strings.Contains(remote, "://"):
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRemoteScheme, remote)
	}
	return "git@github.com:" + remote, nil
}

// RepoName returns the final path segment of a remote, without ".git".
func RepoName(remote string) string {
	name := strings.TrimSuffix(strings.TrimRight(remote, "/"), ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// ParseArchiveName derives name and version from a distribution archive such as
// widget-1.2.0.tar.gz. The version starts at the last "-" followed by a digit.
func ParseArchiveName(path string) (name, version string, err error) {
	base := filepath.Base(path)
	stem := ""
	for _, ext := range archiveExts {
		if strings.HasSuffix(base, ext) {
			stem = strings.TrimSuffix(base, ext)
			break
		}
	}
	if stem == "" {
		return "", "", fmt.Errorf("%w: %s is not a supported archive", ErrMalformedSpec, base)
	}

	for i := len(stem) - 1; i > 0; i-- {
		if stem[i] == '-' && i+1 < len(stem) && stem[i+1] >= '0' && stem[i+1] <= '9' {
			name, version = stem[:i], stem[i+1:]
			break
		}
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: cannot find a version in %s", ErrMalformedSpec, base)
	}
	if _, err := Parse(name + "==" + version); err != nil {
		return "", "", err
	}
	return name, version, nil
}

// Resolve returns the canonical (name, version) for an install. In repo mode
// the name comes from the remote and the version is ref (branch or tag); in
// package mode both come from the spec. The operator may then rename the product.
func Resolve(input string, repoMode bool, ref string, p prompt.Prompter) (name, version string, err error) {
	if repoMode {
		name, version = RepoName(input), ref
	} else {
		s, err := Parse(input)
		if err != nil {
			return "", "", err
		}
		name, version = s.Name, s.Version
	}

	override, err := p.Input("Product name", name)
	if err != nil {
		return "", "", err
	}
	if override = strings.TrimSpace(override); override != "" {
		name = override
	}
	return name, version, nil
}
