package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Realtime   RealtimeConfig   `mapstructure:"realtime"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// RealtimeConfig contains settings for the realtime channel.
type RealtimeConfig struct {
	// SendBuffer is the per-subscription event buffer. A subscription
	// whose buffer is full drops new events rather than blocking the
	// publisher.
	SendBuffer int `mapstructure:"send_buffer" validate:"gte=1"`

	// WriteTimeoutSeconds bounds a single websocket write so a stalled
	// client cannot block its writer goroutine indefinitely.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=1"`
}

// DispatcherConfig contains settings for the notification dispatcher.
type DispatcherConfig struct {
	// WorkerCount is the number of goroutines consuming dispatch jobs.
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`

	// QueueSize is the buffer of the dispatch job queue. When the queue is
	// full new jobs are dropped (and logged); notification delivery is
	// best-effort by contract.
	QueueSize int `mapstructure:"queue_size" validate:"gte=1"`
}
