package web

import "embed"

// TemplatesFS embeds the dashboard and search page templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets (stylesheet and chart scripts).
//
//go:embed static/*
var StaticFS embed.FS
