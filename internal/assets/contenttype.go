package assets

import (
	"path"
	"strings"
)

// DefaultContentType is served for unrecognized extensions.
const DefaultContentType = "application/octet-stream"

// contentTypes is a fixed extension table. A fixed map (instead of
// mime.TypeByExtension) keeps responses identical across container base
// images with different /etc/mime.types.
var contentTypes = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".js":    "application/javascript",
	".json":  "application/json",
	".xml":   "application/xml",
	".txt":   "text/plain",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".woff2": "font/woff2",
	".woff":  "font/woff",
	".pdf":   "application/pdf",
}

// ContentType returns the content type for a file path based on its
// extension, or DefaultContentType if the extension is unknown.
func ContentType(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return DefaultContentType
}
