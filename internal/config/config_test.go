package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "chat")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "marketplace")
	t.Setenv("JWT_KEY", "key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.EqualValues(t, 20, cfg.WSRateLimit)
	assert.Equal(t, time.Second, cfg.WSRateWindow)
	assert.Equal(t, "chat.notifications", cfg.KafkaTopic)
	assert.Equal(t, time.Hour, cfg.S3PresignTTL)
	assert.False(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.KafkaBrokerList())
	assert.Equal(t, "host=db port=5432 user=chat password=secret dbname=marketplace sslmode=disable", cfg.DSN())
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("WS_RATE_WINDOW", "5s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.WSRateWindow)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Origins())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokerList())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadDotEnvFile(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "DB_HOST=localhost\nDB_USER=u\nDB_PASSWORD=p\nDB_NAME=n\nJWT_KEY=k\nSERVER_PORT=9000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "9000", cfg.ServerPort)
}

func TestLoadRequiresDatabaseAndKey(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_KEY", "")

	_, err := load(viper.New(), "")
	assert.EqualError(t, err, "JWT_KEY is required")
}
