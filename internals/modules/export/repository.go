package export

import (
	"context"
	"encoding/json"
	"fmt"
	"probe-wizard/pkg/db"
	"probe-wizard/pkg/utils"

	"github.com/google/uuid"
)

type Repository struct {
	querier *db.Queries
}

func NewRepository(dbExecutor db.DBTX) *Repository {
	return &Repository{
		querier: db.New(dbExecutor),
	}
}

// Save stores the configuration of a session. A session keeps a single row, so saving again
// replaces the document and keeps the original id.
func (r *Repository) Save(ctx context.Context, id uuid.UUID, sessionID string, cfg Config) (StoredConfig, error) {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return StoredConfig{}, fmt.Errorf("encode config: %w", err)
	}

	row, err := r.querier.UpsertConfig(ctx, db.UpsertConfigParams{
		ID:                utils.ToPgUUID(id),
		SessionID:         sessionID,
		Document:          doc,
		ProbeCount:        int32(len(cfg.Probes)),
		NotificationCount: int32(len(cfg.Notifications)),
	})
	if err != nil {
		return StoredConfig{}, err
	}

	return toStoredConfig(row)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (StoredConfig, error) {
	row, err := r.querier.GetConfig(ctx, utils.ToPgUUID(id))
	if err != nil {
		return StoredConfig{}, err
	}
	return toStoredConfig(row)
}

func toStoredConfig(row db.WizardConfig) (StoredConfig, error) {
	var cfg Config
	if err := json.Unmarshal(row.Document, &cfg); err != nil {
		return StoredConfig{}, fmt.Errorf("decode config: %w", err)
	}

	return StoredConfig{
		ID:        utils.FromPgUUID(row.ID),
		SessionID: row.SessionID,
		Config:    cfg,
		CreatedAt: utils.FromPgTimestamptz(row.CreatedAt),
		UpdatedAt: utils.FromPgTimestamptz(row.UpdatedAt),
	}, nil
}
