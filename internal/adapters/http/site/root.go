// Package site serves the generated dashboard pages over HTTP.
package site

import (
	"context"
	"net/http"
)

// Register attaches the dashboard site routes to mux, serving the rendered
// pages from dir. The directory listing at / links every generated page.
func Register(_ context.Context, mux *http.ServeMux, dir string) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(http.Dir(dir))
	mux.Handle("/", files)
}
