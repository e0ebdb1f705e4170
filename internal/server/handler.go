package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/statichaus/staticd/internal/assets"
	"github.com/statichaus/staticd/internal/log"
)

// assetHandler serves files from the asset root.
// All access is read-only; a failed request never affects the next one.
type assetHandler struct {
	resolver     *assets.Resolver
	logger       log.Logger
	cacheControl string // empty disables the Cache-Control header
}

// cacheControlValue builds the Cache-Control header for a max-age in
// seconds. Zero disables caching headers entirely.
func cacheControlValue(maxAge int) string {
	if maxAge <= 0 {
		return ""
	}
	return fmt.Sprintf("public, max-age=%d", maxAge)
}

func (h *assetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	full, err := h.resolver.Resolve(r.URL.Path)
	switch {
	case errors.Is(err, assets.ErrBadPath):
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	case errors.Is(err, assets.ErrOutsideRoot):
		// Folded into 404: traversal probes must not learn whether the
		// target exists.
		h.logger.Warn("path escapes asset root", "path", r.URL.Path, "ip", r.RemoteAddr)
		http.NotFound(w, r)
		return
	case err != nil:
		h.logger.Error("resolving asset path", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("opening asset", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.logger.Error("stat asset", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// A directory reached without a trailing slash redirects to the slash
	// form so the page's relative links resolve. The slash form itself
	// resolves to the index file inside the resolver.
	if info.IsDir() {
		http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
		return
	}
	if !info.Mode().IsRegular() {
		// Sockets, devices and the like are not assets.
		http.NotFound(w, r)
		return
	}

	modTime := info.ModTime()
	if notModified(r, modTime) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", assets.ContentType(full))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Last-Modified", modTime.UTC().Format(http.TimeFormat))
	if h.cacheControl != "" {
		w.Header().Set("Cache-Control", h.cacheControl)
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		// Write errors are almost always client disconnects; the copy
		// stops and the deferred close releases the file handle.
		h.logger.Debug("aborted response write", "path", r.URL.Path, "error", err)
	}
}

// notModified reports whether an If-Modified-Since header makes the
// response a 304. Header time has second precision, so the file mtime is
// truncated before comparison.
func notModified(r *http.Request, modTime time.Time) bool {
	ims := r.Header.Get("If-Modified-Since")
	if ims == "" {
		return false
	}
	t, err := http.ParseTime(ims)
	if err != nil {
		return false
	}
	return !modTime.Truncate(time.Second).After(t)
}
