// Package assets embeds the console's stylesheet and scripts.
package assets

import "embed"

//go:embed css/* js/*
var Assets embed.FS
