package wizard

import (
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/probe"
	"time"
)

type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	Step      Step      `json:"step"`
	Route     string    `json:"route"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionResponse struct {
	SessionID     string                      `json:"session_id"`
	Step          Step                        `json:"step"`
	Route         string                      `json:"route"`
	Probes        []probe.Probe               `json:"probes"`
	Notifications []notification.Notification `json:"notifications"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

type SetURLRequest struct {
	URL string `json:"url" validate:"max=2048"`
}

type UpdateFieldRequest struct {
	Key   string `json:"key" validate:"required,oneof=name value"`
	Value string `json:"value" validate:"max=4096"`
}

type NavigationResponse struct {
	Step  Step   `json:"step"`
	Route string `json:"route"`
}

type SubmitWebFormResponse struct {
	Probe probe.Probe        `json:"probe"`
	Next  NavigationResponse `json:"next"`
}

type AddNotificationRequest struct {
	Type string            `json:"type" validate:"required"`
	Data map[string]string `json:"data" validate:"required"`
}

type NotificationTestResponse struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func toNavigationResponse(n Navigation) NavigationResponse {
	return NavigationResponse{Step: n.Step, Route: n.Route}
}

func toTestResponse(r NotificationTestResult) NotificationTestResponse {
	return NotificationTestResponse{ID: r.ID, Type: r.Type, OK: r.OK, Error: r.Error}
}
