package web

import (
	"time"

	vm "github.com/pczin9531-tech/robloximportexportserverm/internal/adapter/driving/web/viewmodel"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
)

const pageTitle = "Roblox Import/Export Server"

// toLandingViewModel converts a status snapshot into the landing page view model.
func toLandingViewModel(s model.Status, endpointsHTML string) vm.LandingViewModel {
	uptime := s.Uptime.Truncate(time.Minute)
	hours := int(uptime / time.Hour)
	minutes := int((uptime % time.Hour) / time.Minute)

	return vm.LandingViewModel{
		Title:         pageTitle,
		Online:        s.Status == "online",
		APIKeys:       s.APIKeys,
		UptimeHours:   hours,
		UptimeMinutes: minutes,
		Port:          s.Port,
		Version:       s.Version,
		EndpointsHTML: endpointsHTML,
	}
}
