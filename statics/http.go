package statics

import (
	"embed"
	"io/fs"
	"net/http"
)

// Serve static files
//
//go:embed www/*
var www embed.FS

// ServeStatics serves the embedded www directory unless staticsDir points to
// a directory on disk.
func ServeStatics(staticsDir string) http.HandlerFunc {
	if staticsDir == "" {
		sub, err := fs.Sub(www, "www")
		if err != nil {
			panic(err) // www is embedded, it is always there
		}
		return http.FileServer(http.FS(sub)).ServeHTTP
	}
	return http.FileServer(http.Dir(staticsDir)).ServeHTTP
}
