package server

import (
	"net/http"
	"os"

	"github.com/statichaus/staticd/internal/log"
)

// liveness is the liveness probe endpoint for container health checks.
// Returns 200 OK whenever the process is accepting connections.
func liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness returns the readiness probe handler. ready is the watcher's
// availability flag; when nil, the probe stats the asset root directly.
func readiness(ready func() bool, root string, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		ok := false
		if ready != nil {
			ok = ready()
		} else if info, err := os.Stat(root); err == nil && info.IsDir() {
			ok = true
		}

		if !ok {
			logger.Error("readiness check failed: asset root unavailable", "root", root)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
