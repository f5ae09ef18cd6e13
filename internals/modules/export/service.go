package export

import (
	"context"
	"encoding/json"
	"errors"
	"probe-wizard/internals/modules/wizard"
	"probe-wizard/pkg/apperror"
	"probe-wizard/pkg/rabbitmq"
	"probe-wizard/pkg/utils"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type SessionReader interface {
	GetSession(ctx context.Context, id string) (wizard.Session, error)
}

type ConfigRepository interface {
	Save(ctx context.Context, id uuid.UUID, sessionID string, cfg Config) (StoredConfig, error)
	Get(ctx context.Context, id uuid.UUID) (StoredConfig, error)
}

type ConfigCache interface {
	SetConfig(ctx context.Context, id string, data []byte, ttl time.Duration) error
	GetConfig(ctx context.Context, id string) ([]byte, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, body []byte) error
}

type Metrics interface {
	IncConfigStored()
}

type Service struct {
	sessions  SessionReader
	repo      ConfigRepository
	cache     ConfigCache
	publisher EventPublisher
	metrics   Metrics
	cacheTTL  time.Duration
	logger    *zerolog.Logger
}

// NewService builds the export service. publisher may be nil when no broker is configured.
func NewService(
	sessions SessionReader,
	repo ConfigRepository,
	cache ConfigCache,
	publisher EventPublisher,
	metrics Metrics,
	cacheTTL time.Duration,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		sessions:  sessions,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func configOf(sess wizard.Session) Config {
	return Config{
		Notifications: sess.Notifications,
		Probes:        sess.Probes,
	}
}

// Render encodes the live configuration of a session.
func (s *Service) Render(ctx context.Context, sessionID, format string) ([]byte, string, error) {
	const op string = "service.export.render"

	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	return s.render(op, configOf(sess), format)
}

// Finish persists the session's configuration and announces it.
func (s *Service) Finish(ctx context.Context, sessionID string) (StoredConfig, error) {
	const op string = "service.export.finish"

	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return StoredConfig{}, err
	}

	if len(sess.Probes) == 0 {
		return StoredConfig{}, apperror.Newf(apperror.Conflict, op, "configuration has no probe, submit the web form first")
	}

	stored, err := s.repo.Save(ctx, uuid.New(), sess.ID, configOf(sess))
	if err != nil {
		return StoredConfig{}, utils.WrapRepoError(op, err, false, s.logger)
	}

	s.cacheConfig(ctx, stored)
	s.publishCreated(ctx, stored)
	s.metrics.IncConfigStored()

	s.logger.Info().
		Str("config_id", stored.ID.String()).
		Str("session_id", sess.ID).
		Int("probes", len(stored.Config.Probes)).
		Int("notifications", len(stored.Config.Notifications)).
		Msg("configuration stored")

	return stored, nil
}

// Get returns a stored configuration, reading through the cache.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (StoredConfig, error) {
	const op string = "service.export.get"

	if data, err := s.cache.GetConfig(ctx, id.String()); err == nil {
		var cached StoredConfig
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn().Str("config_id", id.String()).Msg("dropping undecodable cached config")
	}

	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return StoredConfig{}, utils.WrapRepoError(op, err, true, s.logger)
	}

	s.cacheConfig(ctx, stored)
	return stored, nil
}

func (s *Service) RenderStored(ctx context.Context, id uuid.UUID, format string) ([]byte, string, error) {
	const op string = "service.export.render_stored"

	stored, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return s.render(op, stored.Config, format)
}

func (s *Service) render(op string, cfg Config, format string) ([]byte, string, error) {
	body, contentType, err := Render(cfg, format)
	if err != nil {
		if errors.Is(err, ErrUnknownFormat) {
			return nil, "", &apperror.Error{Kind: apperror.InvalidInput, Op: op, Message: err.Error(), Err: err}
		}
		return nil, "", apperror.New(apperror.Internal, op, err).WithMessage("internal server error")
	}
	return body, contentType, nil
}

// cacheConfig is best effort: postgres stays the source of truth.
func (s *Service) cacheConfig(ctx context.Context, stored StoredConfig) {
	data, err := json.Marshal(stored)
	if err != nil {
		s.logger.Warn().Err(err).Msg("encode config for cache")
		return
	}
	if err := s.cache.SetConfig(ctx, stored.ID.String(), data, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("config_id", stored.ID.String()).Msg("cache config")
	}
}

func (s *Service) publishCreated(ctx context.Context, stored StoredConfig) {
	if s.publisher == nil {
		return
	}

	body, err := rabbitmq.NewEvent(rabbitmq.EventConfigCreated, ConfigCreatedEvent{
		ConfigID:          stored.ID.String(),
		SessionID:         stored.SessionID,
		ProbeCount:        len(stored.Config.Probes),
		NotificationCount: len(stored.Config.Notifications),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("encode config.created event")
		return
	}

	if err := s.publisher.Publish(ctx, body); err != nil {
		s.logger.Error().Err(err).Str("config_id", stored.ID.String()).Msg("publish config.created event")
	}
}
