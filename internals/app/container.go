package app

import (
	"context"
	"errors"
	"probe-wizard/config"
	middle "probe-wizard/internals/middleware"
	"probe-wizard/internals/modules/export"
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/notifier"
	"probe-wizard/internals/modules/probe"
	"probe-wizard/internals/modules/wizard"
	"probe-wizard/internals/security"
	"probe-wizard/pkg/db"
	"probe-wizard/pkg/httpclient"
	"probe-wizard/pkg/metrics"
	"probe-wizard/pkg/rabbitmq"
	"probe-wizard/pkg/redisstore"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Container struct {
	Config      *config.Config
	DB          *pgxpool.Pool
	RedisClient *redisstore.Client
	AMQPConn    *amqp091.Connection
	Publisher   *rabbitmq.Publisher
	Logger      *zerolog.Logger
	Metrics     *metrics.Recorder

	sessionMW           *middle.SessionMiddleware
	wizardHandler       *wizard.Handler
	notificationHandler *notification.Handler
	exportHandler       *export.Handler
}

func NewContainer(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, logger *zerolog.Logger) (*Container, error) {

	if err := db.Migrate(ctx, dbPool); err != nil {
		return nil, err
	}

	redisClient, err := redisstore.New(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:      cfg,
		DB:          dbPool,
		RedisClient: redisClient,
		Logger:      logger,
		Metrics:     metrics.New("probe_wizard"),
	}

	// config.created events are optional
	var events export.EventPublisher
	if cfg.RabbitMQ.BrokerLink != "" {
		if err := c.connectBroker(&cfg.RabbitMQ); err != nil {
			_ = c.Shutdown(ctx)
			return nil, err
		}
		events = c.Publisher
	} else {
		logger.Info().Msg("rabbitmq not configured, config events disabled")
	}

	validator := validator.New()
	tokenSvc := security.NewTokenService(&cfg.Session)

	blockPrivate := cfg.Outbound.BlockPrivateNetworks
	previewer := probe.NewPreviewer(httpclient.NewHttpClient(0, blockPrivate), logger)
	notifierSvc := notifier.NewService(&cfg.Notifier, httpclient.NewHttpClient(cfg.Notifier.Timeout, blockPrivate), logger)

	wizardSvc := wizard.NewService(
		redisClient,
		tokenSvc,
		previewer,
		notifierSvc,
		c.Metrics,
		wizard.Defaults{
			IntervalSec:       cfg.Wizard.ProbeIntervalSec,
			TimeoutMs:         cfg.Wizard.ProbeTimeoutMs,
			Method:            cfg.Wizard.ProbeMethod,
			IncidentThreshold: cfg.Wizard.IncidentThreshold,
			RecoveryThreshold: cfg.Wizard.RecoveryThreshold,
			MaxFields:         cfg.Wizard.MaxFormFields,
		},
		cfg.Session.TTL,
		logger,
	)

	exportSvc := export.NewService(
		wizardSvc,
		export.NewRepository(dbPool),
		redisClient,
		events,
		c.Metrics,
		cfg.Wizard.ConfigCacheTTL,
		logger,
	)

	c.sessionMW = middle.NewSessionMiddleware(tokenSvc)
	c.wizardHandler = wizard.NewHandler(wizardSvc, validator, cfg.Wizard.MaxBodyBytes)
	c.notificationHandler = notification.NewHandler()
	c.exportHandler = export.NewHandler(exportSvc)

	return c, nil
}

func (c *Container) connectBroker(rmqCfg *config.RabbitMQConfig) error {
	conn, err := rabbitmq.NewConnection(rmqCfg, c.Logger)
	if err != nil {
		return err
	}
	c.AMQPConn = conn

	if err := rabbitmq.SetupTopology(conn, rmqCfg); err != nil {
		return err
	}

	pub, err := rabbitmq.NewPublisher(conn, rmqCfg.ExchangeName, rmqCfg.RoutingKey)
	if err != nil {
		return err
	}
	c.Publisher = pub

	c.Logger.Info().Str("exchange", rmqCfg.ExchangeName).Msg("rabbitmq publisher ready")
	return nil
}

// Health checks the stores the wizard cannot work without.
func (c *Container) Health(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.DB.Ping(ctx)
	})
	g.Go(func() error {
		return c.RedisClient.Ping(ctx)
	})

	return g.Wait()
}

func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	// 1. Stop publishing
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.AMQPConn != nil && !c.AMQPConn.IsClosed() {
		errs = append(errs, c.AMQPConn.Close())
	}

	// 2. Close redis
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}

	// 3. Close DB pool
	if c.DB != nil {
		c.DB.Close()
	}

	return errors.Join(errs...)
}
