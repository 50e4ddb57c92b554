package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
aws:
  sqs:
    queue_url: https://sqs.us-east-1.amazonaws.com/123456789012/dining-requests
database:
  redis:
    address: localhost:6379
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	t.Setenv("AWS_REGION", "")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, int32(5), cfg.AWS.SQS.WaitSeconds)
	assert.Equal(t, "yelp-restaurants", cfg.AWS.DynamoDB.RestaurantsTable)
	assert.Equal(t, 50, cfg.Suggestions.MaxCandidates)
	assert.Equal(t, 3, cfg.Suggestions.SampleSize)
	assert.Equal(t, NotifierSES, cfg.Suggestions.Notifier)
	assert.Equal(t, CatalogPostgres, cfg.Suggestions.CatalogBackend)
	assert.Equal(t, 0, cfg.Dialog.MaxLocationAttempts)
	assert.Equal(t, "restaurants", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "history:", cfg.Database.Redis.KeyPrefix)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.NoError(t, cfg.ValidateDialog())
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_DINING_QUEUE", "https://sqs.us-east-1.amazonaws.com/1/expanded")

	cfg, err := LoadFromFile(writeConfig(t, `
aws:
  sqs:
    queue_url: ${TEST_DINING_QUEUE}
`))
	require.NoError(t, err)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/1/expanded", cfg.AWS.SQS.QueueURL)
}

func TestLoadFromFile_UnsetVariableExpandsEmpty(t *testing.T) {
	t.Setenv("TEST_DINING_ZEEBE", "")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig+`
camunda:
  broker_address: ${TEST_DINING_ZEEBE}
`))
	require.NoError(t, err)
	assert.Empty(t, cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_EnvironmentOverride(t *testing.T) {
	t.Setenv("AWS_SES_FROM_EMAIL", "concierge@example.com")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "concierge@example.com", cfg.AWS.SES.FromEmail)
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{
			name:   "missing queue url",
			body:   "database:\n  redis:\n    address: localhost:6379\n",
			errMsg: "aws.sqs.queue_url is required",
		},
		{
			name: "wait seconds out of range",
			body: `
aws:
  sqs:
    queue_url: q
    wait_seconds: 25
`,
			errMsg: "aws.sqs.wait_seconds must be between 0 and 20",
		},
		{
			name: "unknown notifier",
			body: `
aws:
  sqs:
    queue_url: q
suggestions:
  notifier: pigeon
`,
			errMsg: "suggestions.notifier",
		},
		{
			name: "unknown catalog backend",
			body: `
aws:
  sqs:
    queue_url: q
suggestions:
  catalog_backend: mongo
`,
			errMsg: "suggestions.catalog_backend",
		},
		{
			name: "negative location attempts",
			body: `
aws:
  sqs:
    queue_url: q
dialog:
  max_location_attempts: -1
`,
			errMsg: "dialog.max_location_attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_ValidateWorker(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.AWS.SQS.QueueURL = "q"
		cfg.AWS.SES.FromEmail = "concierge@example.com"
		cfg.Database.Elasticsearch.URL = "http://localhost:9200"
		cfg.Database.Postgres = PostgresConfig{Host: "localhost", Database: "dining", User: "dining"}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("valid postgres and ses", func(t *testing.T) {
		assert.NoError(t, base().ValidateWorker())
	})

	t.Run("missing elasticsearch", func(t *testing.T) {
		cfg := base()
		cfg.Database.Elasticsearch.Addresses = nil
		assert.EqualError(t, cfg.ValidateWorker(), "database.elasticsearch.addresses or url is required")
	})

	t.Run("postgres host required", func(t *testing.T) {
		cfg := base()
		cfg.Database.Postgres.Host = ""
		assert.EqualError(t, cfg.ValidateWorker(), "database.postgres.host is required")
	})

	t.Run("dynamodb backend skips postgres", func(t *testing.T) {
		cfg := base()
		cfg.Suggestions.CatalogBackend = CatalogDynamoDB
		cfg.Database.Postgres = PostgresConfig{}
		assert.NoError(t, cfg.ValidateWorker())
	})

	t.Run("sns needs topic", func(t *testing.T) {
		cfg := base()
		cfg.Suggestions.Notifier = NotifierSNS
		assert.EqualError(t, cfg.ValidateWorker(), "aws.sns.topic_arn is required")
	})
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"dining-suggestions-drain": {Enabled: false, MaxJobsActive: 2, Timeout: 1000, MaxRetries: 1},
	}}

	assert.Equal(t, 2, GetWorkerConfig(cfg, "dining-suggestions-drain").MaxJobsActive)
	assert.False(t, IsWorkerEnabled(cfg, "dining-suggestions-drain"))

	fallback := GetWorkerConfig(cfg, "other")
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 30000, fallback.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "other"))
}
