// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig               `mapstructure:"app"`
	Server      ServerConfig            `mapstructure:"server"`
	Camunda     CamundaConfig           `mapstructure:"camunda"`
	Database    DatabaseConfig          `mapstructure:"database"`
	AWS         AWSConfig               `mapstructure:"aws"`
	Dialog      DialogConfig            `mapstructure:"dialog"`
	Suggestions SuggestionsConfig       `mapstructure:"suggestions"`
	Workers     map[string]WorkerConfig `mapstructure:"workers"`
	Logging     LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string  `mapstructure:"address"`
	MetricsAddress string  `mapstructure:"metrics_address"`
	RateLimit      float64 `mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst      int     `mapstructure:"rate_burst"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
	Index     string   `mapstructure:"index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// AWSConfig holds the queue, mail and table settings. Credentials come from the
// default AWS credential chain.
type AWSConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"` // optional override, e.g. localstack

	SQS struct {
		QueueURL          string `mapstructure:"queue_url"`
		WaitSeconds       int32  `mapstructure:"wait_seconds"`
		VisibilityTimeout int32  `mapstructure:"visibility_timeout"`
	} `mapstructure:"sqs"`

	SES struct {
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`

	SNS struct {
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`

	DynamoDB struct {
		RestaurantsTable string `mapstructure:"restaurants_table"`
	} `mapstructure:"dynamodb"`
}

// DialogConfig holds settings for the dining dialog code hook.
type DialogConfig struct {
	MaxLocationAttempts int `mapstructure:"max_location_attempts"` // 0 = unbounded
	Timeout             int `mapstructure:"timeout"`               // milliseconds
}

// SuggestionsConfig holds settings for the fulfillment worker.
type SuggestionsConfig struct {
	MaxCandidates  int    `mapstructure:"max_candidates"`
	SampleSize     int    `mapstructure:"sample_size"`
	IdleInterval   int    `mapstructure:"idle_interval"` // milliseconds
	DrainBatch     int    `mapstructure:"drain_batch"`
	Notifier       string `mapstructure:"notifier"`        // "ses" or "sns"
	CatalogBackend string `mapstructure:"catalog_backend"` // "postgres" or "dynamodb"
	Seed           int64  `mapstructure:"seed"`            // 0 = time based
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
