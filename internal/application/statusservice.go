package application

import (
	"time"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
)

// Version is reported by the status endpoint and landing page.
const Version = "1.0.0"

// StatusService reports server liveness figures.
type StatusService struct {
	keys      *KeyService
	port      string
	startedAt time.Time
	now       func() time.Time
}

// NewStatusService creates a StatusService for a server listening on port.
func NewStatusService(keys *KeyService, port string, startedAt time.Time) *StatusService {
	return &StatusService{keys: keys, port: port, startedAt: startedAt, now: time.Now}
}

// Snapshot returns the current status.
func (s *StatusService) Snapshot() model.Status {
	now := s.now()
	return model.Status{
		Status:  "online",
		Time:    now,
		APIKeys: s.keys.ActiveKeys(),
		Uptime:  now.Sub(s.startedAt),
		Port:    s.port,
		Version: Version,
	}
}
