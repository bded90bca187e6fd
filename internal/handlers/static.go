package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// shellHandler serves files from assets and falls back to index.html for any
// other GET so the client can render its own not-found state.
func shellHandler(assets fs.FS) http.HandlerFunc {
	files := http.FileServer(http.FS(assets))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}

		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name != "" {
			if info, err := fs.Stat(assets, name); err == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}

		index, err := fs.ReadFile(assets, "index.html")
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(index)
	}
}
