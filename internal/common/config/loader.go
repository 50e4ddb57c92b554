// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	NotifierSES = "ses"
	NotifierSNS = "sns"

	CatalogPostgres = "postgres"
	CatalogDynamoDB = "dynamodb"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// base config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// environment overlay, optional
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	// AWS_SQS_QUEUE_URL overrides aws.sqs.queue_url and so on
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)
	return v
}

// AutomaticEnv only applies to keys viper already knows about, so the keys that
// are commonly supplied purely from the environment are bound explicitly.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"aws.region",
		"aws.endpoint",
		"aws.sqs.queue_url",
		"aws.ses.from_email",
		"aws.sns.topic_arn",
		"aws.dynamodb.restaurants_table",
		"database.redis.address",
		"database.redis.password",
		"database.postgres.host",
		"database.postgres.user",
		"database.postgres.password",
		"database.elasticsearch.url",
		"database.elasticsearch.username",
		"database.elasticsearch.password",
		"camunda.broker_address",
	} {
		_ = v.BindEnv(key)
	}
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} references left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			// an unset variable expands to "" so optional sections stay disabled
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "dining-concierge"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.MetricsAddress == "" {
		cfg.Server.MetricsAddress = ":9090"
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = 20
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 1
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}
	if len(cfg.Database.Elasticsearch.Addresses) == 0 && cfg.Database.Elasticsearch.URL != "" {
		cfg.Database.Elasticsearch.Addresses = []string{cfg.Database.Elasticsearch.URL}
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "restaurants"
	}

	if cfg.Database.Redis.KeyPrefix == "" {
		cfg.Database.Redis.KeyPrefix = "history:"
	}

	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}
	if cfg.AWS.SQS.WaitSeconds == 0 {
		cfg.AWS.SQS.WaitSeconds = 5
	}
	if cfg.AWS.DynamoDB.RestaurantsTable == "" {
		cfg.AWS.DynamoDB.RestaurantsTable = "yelp-restaurants"
	}

	if cfg.Dialog.Timeout == 0 {
		cfg.Dialog.Timeout = 5000
	}

	if cfg.Suggestions.MaxCandidates == 0 {
		cfg.Suggestions.MaxCandidates = 50
	}
	if cfg.Suggestions.SampleSize == 0 {
		cfg.Suggestions.SampleSize = 3
	}
	if cfg.Suggestions.IdleInterval == 0 {
		cfg.Suggestions.IdleInterval = 1000
	}
	if cfg.Suggestions.DrainBatch == 0 {
		cfg.Suggestions.DrainBatch = 10
	}
	if cfg.Suggestions.Notifier == "" {
		cfg.Suggestions.Notifier = NotifierSES
	}
	if cfg.Suggestions.CatalogBackend == "" {
		cfg.Suggestions.CatalogBackend = CatalogPostgres
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 1
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates fields shared by both binaries
func validateConfig(cfg *Config) error {
	if cfg.AWS.SQS.QueueURL == "" {
		return fmt.Errorf("aws.sqs.queue_url is required")
	}
	if cfg.AWS.SQS.WaitSeconds < 0 || cfg.AWS.SQS.WaitSeconds > 20 {
		return fmt.Errorf("aws.sqs.wait_seconds must be between 0 and 20")
	}
	if cfg.Dialog.MaxLocationAttempts < 0 {
		return fmt.Errorf("dialog.max_location_attempts must not be negative")
	}
	if cfg.Suggestions.SampleSize < 0 || cfg.Suggestions.MaxCandidates < 0 {
		return fmt.Errorf("suggestions.sample_size and suggestions.max_candidates must not be negative")
	}
	switch cfg.Suggestions.Notifier {
	case NotifierSES, NotifierSNS:
	default:
		return fmt.Errorf("suggestions.notifier must be %q or %q", NotifierSES, NotifierSNS)
	}
	switch cfg.Suggestions.CatalogBackend {
	case CatalogPostgres, CatalogDynamoDB:
	default:
		return fmt.Errorf("suggestions.catalog_backend must be %q or %q", CatalogPostgres, CatalogDynamoDB)
	}
	return nil
}

// ValidateDialog checks the settings the dialog code hook needs.
func (c *Config) ValidateDialog() error {
	if c.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}
	return nil
}

// ValidateWorker checks the settings the suggestion worker needs.
func (c *Config) ValidateWorker() error {
	if len(c.Database.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("database.elasticsearch.addresses or url is required")
	}

	switch c.Suggestions.CatalogBackend {
	case CatalogPostgres:
		if c.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if c.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if c.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case CatalogDynamoDB:
		if c.AWS.DynamoDB.RestaurantsTable == "" {
			return fmt.Errorf("aws.dynamodb.restaurants_table is required")
		}
	}

	switch c.Suggestions.Notifier {
	case NotifierSES:
		if c.AWS.SES.FromEmail == "" {
			return fmt.Errorf("aws.ses.from_email is required")
		}
	case NotifierSNS:
		if c.AWS.SNS.TopicARN == "" {
			return fmt.Errorf("aws.sns.topic_arn is required")
		}
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 1,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
