package product

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsinstall/internal/prompt"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec    string
		name    string
		version string
		req     string
	}{
		{spec: "numpy>=1.20", name: "numpy", version: "1.20", req: "numpy>=1.20"},
		{spec: "sdss-clu==2.1.0", name: "sdss-clu", version: "2.1.0", req: "sdss-clu==2.1.0"},
		{spec: "lvm_ieb~=0.3", name: "lvm_ieb", version: "0.3", req: "lvm_ieb~=0.3"},
		{spec: "astropy!=5.0", name: "astropy", version: "5.0", req: "astropy!=5.0"},
		{spec: "jaeger<1.0b1", name: "jaeger", version: "1.0b1", req: "jaeger<1.0b1"},
		{spec: "basecam", name: "basecam", version: "", req: "basecam"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			s, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.name, s.Name)
			assert.Equal(t, tt.version, s.Version)
			assert.Equal(t, tt.req, s.Requirement())
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, spec := range []string{"numpy>=", "numpy==", "numpy~", "", "num py", "numpy>=1.2,<2", "numpy>=.5", "bad/name==1"} {
		t.Run(spec, func(t *testing.T) {
			_, err := Parse(spec)
			require.ErrorIs(t, err, ErrMalformedSpec)
		})
	}
}

func TestNormalizeRemote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "git@github.com:org/widget", want: "git@github.com:org/widget"},
		{in: "org/widget", want: "git@github.com:org/widget"},
		{in: "ssh://git@example.org/org/widget.git", want: "ssh://git@example.org/org/widget.git"},
	}
	for _, tt := range tests {
		got, err := NormalizeRemote(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"https://github.com/org/widget", "HTTP://github.com/org/widget", "ftp://host/widget", ""} {
		_, err := NormalizeRemote(bad)
		require.ErrorIs(t, err, ErrUnsupportedRemoteScheme, bad)
	}
}

func TestRepoName(t *testing.T) {
	assert.Equal(t, "widget", RepoName("git@github.com:org/widget"))
	assert.Equal(t, "widget", RepoName("git@github.com:org/widget.git"))
	assert.Equal(t, "widget", RepoName("git@host:widget"))
	assert.Equal(t, "widget", RepoName("ssh://git@example.org/org/widget/"))
}

func TestParseArchiveName(t *testing.T) {
	name, version, err := ParseArchiveName("/tmp/dist/sdss-clu-2.1.0.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "sdss-clu", name)
	assert.Equal(t, "2.1.0", version)

	name, version, err = ParseArchiveName("widget-1.0.7z")
	require.NoError(t, err)
	assert.Equal(t, "widget", name)
	assert.Equal(t, "1.0", version)

	_, _, err = ParseArchiveName("widget.tar.gz")
	require.ErrorIs(t, err, ErrMalformedSpec)
	_, _, err = ParseArchiveName("widget-1.0.rar")
	require.ErrorIs(t, err, ErrMalformedSpec)
}

func TestResolve(t *testing.T) {
	name, version, err := Resolve("numpy>=1.20", false, "", prompt.Yes{})
	require.NoError(t, err)
	assert.Equal(t, "numpy", name)
	assert.Equal(t, "1.20", version)

	name, version, err = Resolve("git@github.com:org/widget", true, "v2.0", prompt.Yes{})
	require.NoError(t, err)
	assert.Equal(t, "widget", name)
	assert.Equal(t, "v2.0", version)

	_, _, err = Resolve("numpy>=", false, "", prompt.Yes{})
	require.ErrorIs(t, err, ErrMalformedSpec)
}

func TestResolveOperatorOverride(t *testing.T) {
	p := prompt.NewInteractive(strings.NewReader("gadget\n"), &strings.Builder{})

	name, version, err := Resolve("git@github.com:org/widget", true, "main", p)
	require.NoError(t, err)
	assert.Equal(t, "gadget", name)
	assert.Equal(t, "main", version)
}
