// Package static provides embedded static files for the web server.
package static

import (
	"embed"
	"net/http"
)

//go:embed favicon.svg app.css
var files embed.FS

// Handler returns an http.Handler that serves static files under prefix.
func Handler(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.FS(files)))
}
