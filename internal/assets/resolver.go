// Package assets maps HTTP request paths to files under a single root
// directory. The resolver guarantees that every resolved path stays
// strictly inside the root: traversal segments and symlinks pointing
// outside are rejected (CWE-22).
package assets

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrBadPath indicates a malformed request path.
	ErrBadPath = errors.New("malformed path")

	// ErrOutsideRoot indicates the path would resolve outside the asset root.
	ErrOutsideRoot = errors.New("path outside asset root")
)

// Resolver resolves request paths against an asset root.
// Resolution is read-only and safe for concurrent use.
type Resolver struct {
	root  string // absolute, symlink-resolved
	index string // filename served for directory paths
}

// NewResolver creates a resolver rooted at dir. index is the filename
// appended to directory requests (e.g. "index.html").
// Returns an error if dir does not exist or is not a directory.
func NewResolver(dir, index string) (*Resolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving asset root: %w", err)
	}

	// Resolve symlinks once up front so per-request prefix checks compare
	// against the real root location.
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving asset root: %w", err)
	}

	info, err := os.Stat(real)
	if err != nil {
		return nil, fmt.Errorf("stat asset root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset root %s is not a directory", dir)
	}

	return &Resolver{root: real, index: index}, nil
}

// Root returns the absolute asset root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a request path to an absolute file path inside the root.
// Directory paths (trailing slash or empty) resolve to the index file.
//
// Errors:
//   - ErrBadPath for malformed paths (embedded NUL)
//   - ErrOutsideRoot for traversal or symlink escapes
//
// The returned path may not exist; callers map the open error to 404.
func (r *Resolver) Resolve(reqPath string) (string, error) {
	if strings.ContainsRune(reqPath, 0) {
		return "", fmt.Errorf("%w: embedded NUL", ErrBadPath)
	}

	p := reqPath
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if strings.HasSuffix(p, "/") {
		p += r.index
	}

	// Reject traversal outright rather than relying on Clean to fold it
	// away: a request carrying ".." has no legitimate mapping.
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, reqPath)
		}
	}

	full := filepath.Join(r.root, filepath.FromSlash(path.Clean(p)))
	if !r.contains(full) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, reqPath)
	}

	// Re-check after resolving symlinks so a planted link cannot serve
	// files from outside the root. A missing file is fine here; the open
	// in the handler reports it.
	real, err := filepath.EvalSymlinks(full)
	if err != nil {
		if os.IsNotExist(err) {
			return full, nil
		}
		return "", fmt.Errorf("resolving %s: %w", reqPath, err)
	}
	if !r.contains(real) {
		return "", fmt.Errorf("%w: symlink target of %s", ErrOutsideRoot, reqPath)
	}

	return real, nil
}

// contains reports whether p is the root itself or strictly inside it.
func (r *Resolver) contains(p string) bool {
	if p == r.root {
		return true
	}
	return strings.HasPrefix(p, r.root+string(filepath.Separator))
}
