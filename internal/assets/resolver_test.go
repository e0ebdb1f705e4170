package assets

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRoot builds an asset tree and returns its resolver.
//
//	root/
//	  index.html
//	  css/style.css
//	  posts/hello/index.html
//	secret.txt        (outside the root)
func newTestRoot(t *testing.T) (*Resolver, string) {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts", "hello"), 0o755))

	files := map[string]string{
		filepath.Join(root, "index.html"):                   "<html>home</html>",
		filepath.Join(root, "css", "style.css"):             "body{}",
		filepath.Join(root, "posts", "hello", "index.html"): "<html>hello</html>",
		filepath.Join(base, "secret.txt"):                   "outside",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	}

	r, err := NewResolver(root, "index.html")
	require.NoError(t, err)
	return r, base
}

func TestNewResolver_RootMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewResolver(file, "index.html")
	assert.Error(t, err)

	_, err = NewResolver(filepath.Join(dir, "missing"), "index.html")
	assert.Error(t, err)
}

func TestResolve_FilesAndIndexes(t *testing.T) {
	r, _ := newTestRoot(t)

	tests := []struct {
		name string
		path string
		want string // relative to root
	}{
		{"plain file", "/css/style.css", "css/style.css"},
		{"root slash serves index", "/", "index.html"},
		{"empty path serves index", "", "index.html"},
		{"nested directory index", "/posts/hello/", "posts/hello/index.html"},
		{"dot segments collapse", "/css/./style.css", "css/style.css"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(r.Root(), filepath.FromSlash(tt.want)), got)
		})
	}
}

func TestResolve_MissingFileStillInsideRoot(t *testing.T) {
	r, _ := newTestRoot(t)

	got, err := r.Resolve("/no/such/page.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Root(), "no", "such", "page.html"), got)
}

func TestResolve_RejectsTraversal(t *testing.T) {
	r, _ := newTestRoot(t)

	for _, p := range []string{
		"/../secret.txt",
		"/../../etc/passwd",
		"/posts/../../secret.txt",
		"..",
		"/..",
	} {
		_, err := r.Resolve(p)
		assert.ErrorIs(t, err, ErrOutsideRoot, "path %q", p)
	}
}

func TestResolve_RejectsEmbeddedNUL(t *testing.T) {
	r, _ := newTestRoot(t)

	_, err := r.Resolve("/index.html\x00.png")
	assert.ErrorIs(t, err, ErrBadPath)
}

func TestResolve_RejectsSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	r, base := newTestRoot(t)
	link := filepath.Join(r.Root(), "leak.txt")
	require.NoError(t, os.Symlink(filepath.Join(base, "secret.txt"), link))

	_, err := r.Resolve("/leak.txt")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"page.html", "text/html"},
		{"style.css", "text/css"},
		{"app.js", "application/javascript"},
		{"logo.png", "image/png"},
		{"icon.svg", "image/svg+xml"},
		{"feed.xml", "application/xml"},
		{"photo.JPG", "image/jpeg"},
		{"archive.tar.gz", DefaultContentType},
		{"no-extension", DefaultContentType},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentType(tt.path))
		})
	}
}
