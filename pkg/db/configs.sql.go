package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const upsertConfig = `-- name: UpsertConfig :one
INSERT INTO wizard_configs (id, session_id, document, probe_count, notification_count)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (session_id) DO UPDATE
SET document = EXCLUDED.document,
    probe_count = EXCLUDED.probe_count,
    notification_count = EXCLUDED.notification_count,
    updated_at = now()
RETURNING id, session_id, document, probe_count, notification_count, created_at, updated_at
`

type UpsertConfigParams struct {
	ID                pgtype.UUID `json:"id"`
	SessionID         string      `json:"session_id"`
	Document          []byte      `json:"document"`
	ProbeCount        int32       `json:"probe_count"`
	NotificationCount int32       `json:"notification_count"`
}

func (q *Queries) UpsertConfig(ctx context.Context, arg UpsertConfigParams) (WizardConfig, error) {
	row := q.db.QueryRow(ctx, upsertConfig,
		arg.ID,
		arg.SessionID,
		arg.Document,
		arg.ProbeCount,
		arg.NotificationCount,
	)
	var i WizardConfig
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.Document,
		&i.ProbeCount,
		&i.NotificationCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getConfig = `-- name: GetConfig :one
SELECT id, session_id, document, probe_count, notification_count, created_at, updated_at
FROM wizard_configs
WHERE id = $1
`

func (q *Queries) GetConfig(ctx context.Context, id pgtype.UUID) (WizardConfig, error) {
	row := q.db.QueryRow(ctx, getConfig, id)
	var i WizardConfig
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.Document,
		&i.ProbeCount,
		&i.NotificationCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
