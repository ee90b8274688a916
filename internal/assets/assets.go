// Package assets serves the browser front end bundled into the binary.
package assets

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

//go:embed static
var bundle embed.FS

// Static returns the embedded asset tree rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(bundle, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Handler serves GET / as index.html and GET /<path> as the asset at <path>.
// Any other method, a directory, or a missing asset is a 404.
func Handler(files fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" {
			name = "index.html"
		}
		if !fs.ValidPath(name) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		// Directories fail to read as files and are reported as missing too.
		data, err := fs.ReadFile(files, name)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
			w.Header().Set("Content-Type", ctype)
		}
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(data)
		}
	})
}
