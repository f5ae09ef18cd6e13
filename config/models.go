package config

import "time"

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

type DBConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns" validate:"gte=1"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout" validate:"required"`
}

type RedisConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RabbitMQConfig is optional. With an empty BrokerLink no events are published.
type RabbitMQConfig struct {
	BrokerLink   string `mapstructure:"broker_link"`
	ExchangeName string `mapstructure:"exchange_name" validate:"required_with=BrokerLink"`
	ExchangeType string `mapstructure:"exchange_type"`
	QueueName    string `mapstructure:"queue_name" validate:"required_with=BrokerLink"`
	RoutingKey   string `mapstructure:"routing_key" validate:"required_with=BrokerLink"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret" validate:"required,min=16"`
	TTL    time.Duration `mapstructure:"ttl" validate:"required"`
}

// WizardConfig holds the values stamped onto a probe built from the web form.
type WizardConfig struct {
	ProbeIntervalSec  int           `mapstructure:"probe_interval_sec" validate:"gt=0"`
	ProbeTimeoutMs    int           `mapstructure:"probe_timeout_ms" validate:"gt=0"`
	ProbeMethod       string        `mapstructure:"probe_method" validate:"required,oneof=GET POST PUT PATCH DELETE HEAD"`
	IncidentThreshold int           `mapstructure:"incident_threshold" validate:"gt=0"`
	RecoveryThreshold int           `mapstructure:"recovery_threshold" validate:"gt=0"`
	ConfigCacheTTL    time.Duration `mapstructure:"config_cache_ttl"`
	MaxFormFields     int           `mapstructure:"max_form_fields" validate:"gt=0"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
}

type NotifierConfig struct {
	Timeout     time.Duration `mapstructure:"timeout" validate:"required"`
	MaxRetries  int           `mapstructure:"max_retries" validate:"gte=1"`
	BaseBackoff time.Duration `mapstructure:"base_backoff"`
	Sender      string        `mapstructure:"sender" validate:"omitempty,email"`
}

// OutboundConfig governs requests sent to user supplied addresses.
type OutboundConfig struct {
	BlockPrivateNetworks bool `mapstructure:"block_private_networks"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type Config struct {
	Env         string         `mapstructure:"env" validate:"required"`
	ServiceName string         `mapstructure:"service_name" validate:"required"`
	Server      ServerConfig   `mapstructure:"server"`
	DB          DBConfig       `mapstructure:"db"`
	Redis       RedisConfig    `mapstructure:"redis"`
	RabbitMQ    RabbitMQConfig `mapstructure:"rabbitmq"`
	Session     SessionConfig  `mapstructure:"session"`
	Wizard      WizardConfig   `mapstructure:"wizard"`
	Notifier    NotifierConfig `mapstructure:"notifier"`
	Outbound    OutboundConfig `mapstructure:"outbound"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}
