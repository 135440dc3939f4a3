package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet).
//
//go:embed static/*
var StaticFS embed.FS

// endpointsDoc is the endpoint reference shown on the landing page.
//
//go:embed docs/endpoints.md
var endpointsDoc string
