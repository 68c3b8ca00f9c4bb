package web

import "embed"

// Static embeds the compiled single-page app and its assets.
//
//go:embed static
var Static embed.FS
