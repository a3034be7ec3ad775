package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet and form helpers).
//
//go:embed static/*
var StaticFS embed.FS
