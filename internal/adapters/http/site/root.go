// Package site serves the embedded browser console.
package site

import (
	"context"
	"net/http"
)

// Register attaches the console routes to mux.
//
//	GET /           -> console page
//	GET /console/*  -> console assets
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("GET /console/", http.StripPrefix("/console", files))
	mux.Handle("GET /{$}", files)
}
