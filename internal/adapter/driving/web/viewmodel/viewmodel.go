// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// LandingViewModel holds the figures shown on the landing page.
type LandingViewModel struct {
	Title         string
	Online        bool
	APIKeys       int
	UptimeHours   int
	UptimeMinutes int
	Port          string
	Version       string
	// EndpointsHTML is sanitized HTML and is rendered unescaped.
	EndpointsHTML string
}
