// Package web holds the static search UI served by the API server.
package web

import "embed"

//go:embed index.html static
var FS embed.FS
