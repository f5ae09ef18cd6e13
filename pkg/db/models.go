package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type WizardConfig struct {
	ID                pgtype.UUID        `json:"id"`
	SessionID         string             `json:"session_id"`
	Document          []byte             `json:"document"`
	ProbeCount        int32              `json:"probe_count"`
	NotificationCount int32              `json:"notification_count"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}
