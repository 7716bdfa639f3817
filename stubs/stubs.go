// Package stubs embeds the CMS scaffold that is copied into host applications.
package stubs

import (
	"embed"
	"io/fs"
)

//go:embed default
var content embed.FS

// Default returns the default stub tree. Paths inside the returned filesystem
// mirror the host application layout (app/..., resources/..., tests/...).
func Default() fs.FS {
	sub, err := fs.Sub(content, "default")
	if err != nil {
		// The embedded directory is fixed at compile time.
		panic(err)
	}
	return sub
}
