package rabbitmq

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const EventConfigCreated = "config.created"

type EventPayload struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEvent wraps payload in an envelope with a fresh id.
func NewEvent(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(EventPayload{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
}
