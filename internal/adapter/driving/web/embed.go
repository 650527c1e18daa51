package web

import "embed"

// StaticFS holds the embedded stylesheet and the table loader script.
//
//go:embed static/*
var StaticFS embed.FS
