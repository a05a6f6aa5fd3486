package explorer

import (
	"embed"
	"io/fs"
)

//go:embed webapp
var embeddedBundle embed.FS

// embeddedWebapp returns the bundled webapp rooted at its index.html.
func embeddedWebapp() fs.FS {
	sub, err := fs.Sub(embeddedBundle, "webapp")
	if err != nil {
		// The bundle is compiled in; a missing subdirectory is a build defect.
		panic(err)
	}
	return sub
}
