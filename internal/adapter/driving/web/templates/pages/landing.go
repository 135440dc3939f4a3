// Package pages holds full-page templ components.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	vm "github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driving/web/viewmodel"
)

// Landing renders the server status page.
func Landing(m vm.LandingViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		badge := "SERVER OFFLINE"
		if m.Online {
			badge = "SERVER ONLINE"
		}

		parts := []string{
			`<div class="container"><h1>`, templ.EscapeString(m.Title), `</h1>`,
			`<div class="status-badge">`, badge, `</div>`,
			`<div class="stats">`,
			statCard(fmt.Sprint(m.APIKeys), "API Keys Ativas"),
			statCard(fmt.Sprintf("%dh %dm", m.UptimeHours, m.UptimeMinutes), "Uptime"),
			statCard(m.Port, "Porta"),
			`</div>`,
			`<div class="section"><h2 class="section-title">Endpoints Disponíveis</h2><div class="endpoints">`,
		}
		for _, p := range parts {
			if _, err := io.WriteString(w, p); err != nil {
				return err
			}
		}

		if err := templ.Raw(m.EndpointsHTML).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</div></div><div class="footer"><p>Servidor desenvolvido para Roblox Studio Mobile</p><p>Versão: `+
			templ.EscapeString(m.Version)+`</p></div></div>`)
		return err
	})
}

func statCard(value, label string) string {
	return `<div class="stat-card"><span class="stat-value">` + templ.EscapeString(value) +
		`</span><span class="stat-label">` + templ.EscapeString(label) + `</span></div>`
}
