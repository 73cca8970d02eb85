package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `api:
  environment: test
  port: "8080"
  base_url: http://localhost:8080
  timezone: Asia/Almaty
  allowed_cors_domains:
    - http://localhost:3000

gin:
  mode: test

postgres:
  host: localhost
  port: "5432"
  user: postgres
  password: secret
  db_name: stockchat
  ssl_mode: disable

matcher:
  stock_threshold: 82
  catalog_threshold: 90
  min_fragment_length: 2

notify:
  max_attempts: 5
  initial_backoff_ms: 500
  max_backoff_ms: 5000
  rate_per_second: 25
  rate_burst: 5
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "Asia/Almaty", conf.API.Timezone)
	assert.Equal(t, "stockchat", conf.Postgres.DBName)
	assert.Equal(t, 5, conf.Notify.MaxAttempts)
	assert.Equal(t, 25, conf.Notify.RatePerSecond)

	m := conf.Matcher()
	assert.Equal(t, 82, m.StockThreshold)
	assert.Equal(t, 90, m.CatalogThreshold)
	assert.Equal(t, 2, m.MinFragmentLen)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
