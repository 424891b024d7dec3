// Package web embeds the blog's templates and static assets into the binary
// so deployments are a single artifact.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templateFS embed.FS

//go:embed all:static
var staticFS embed.FS

// TemplateFS holds the page and layout templates rendered by the view layer.
var TemplateFS fs.FS = templateFS

// StaticFS holds the assets served under /static/.
var StaticFS fs.FS = staticFS
