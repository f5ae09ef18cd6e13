package export

import (
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/probe"
	"time"

	"github.com/google/uuid"
)

// Config is the Monika configuration document produced by the wizard.
type Config struct {
	Notifications []notification.Notification `json:"notifications" yaml:"notifications"`
	Probes        []probe.Probe               `json:"probes" yaml:"probes"`
}

type StoredConfig struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	Config    Config    `json:"config"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfigCreatedEvent is published once a configuration has been stored.
type ConfigCreatedEvent struct {
	ConfigID          string `json:"config_id"`
	SessionID         string `json:"session_id"`
	ProbeCount        int    `json:"probe_count"`
	NotificationCount int    `json:"notification_count"`
}
