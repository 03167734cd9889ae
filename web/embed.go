// Package web provides the embedded single-page client shell. The Go
// binary serves the compiled frontend from here so deployment is a
// single artifact.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// StaticFS embeds the web/static/ directory tree. In Docker builds this
// holds the compiled frontend bundle; in local development it may only
// contain the index.html shell.
//
//go:embed all:static
var StaticFS embed.FS

// SPAHandler serves the embedded client. Asset paths are served as-is;
// any path without a matching file falls back to index.html so the
// client-side router can take over.
func SPAHandler() http.HandlerFunc {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(sub))

	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name != "" {
			if f, err := sub.Open(name); err == nil {
				f.Close()
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		index, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(index)
	}
}
