package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Host     string `mapstructure:"DB_HOST"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	DBPort   string `mapstructure:"DB_PORT"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	AutoMigrate bool `mapstructure:"AUTO_MIGRATE"`

	ServerPort     string `mapstructure:"SERVER_PORT"`
	Environment    string `mapstructure:"ENVIRONMENT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	JWTKey string `mapstructure:"JWT_KEY"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	WSRateLimit  int64         `mapstructure:"WS_RATE_LIMIT"`
	WSRateWindow time.Duration `mapstructure:"WS_RATE_WINDOW"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	S3Endpoint        string        `mapstructure:"S3_ENDPOINT"`
	S3Region          string        `mapstructure:"S3_REGION"`
	S3AccessKeyID     string        `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string        `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3BucketName      string        `mapstructure:"S3_BUCKET_NAME"`
	S3PresignTTL      time.Duration `mapstructure:"S3_PRESIGN_TTL"`

	OTELEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTELServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

var defaults = map[string]any{
	"DB_HOST":                     "",
	"DB_USER":                     "",
	"DB_PASSWORD":                 "",
	"DB_NAME":                     "",
	"DB_PORT":                     "5432",
	"DB_SSLMODE":                  "disable",
	"AUTO_MIGRATE":                false,
	"SERVER_PORT":                 "8080",
	"ENVIRONMENT":                 "production",
	"ALLOWED_ORIGINS":             "",
	"JWT_KEY":                     "",
	"REDIS_ADDR":                  "",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"WS_RATE_LIMIT":               20,
	"WS_RATE_WINDOW":              time.Second,
	"KAFKA_BROKERS":               "",
	"KAFKA_TOPIC":                 "chat.notifications",
	"S3_ENDPOINT":                 "",
	"S3_REGION":                   "us-east-1",
	"S3_ACCESS_KEY_ID":            "",
	"S3_SECRET_ACCESS_KEY":        "",
	"S3_BUCKET_NAME":              "",
	"S3_PRESIGN_TTL":              time.Hour,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_SERVICE_NAME":           "marketplace-chat",
}

// Load reads .env from the working directory when present and lets the
// environment override it.
func Load() (*Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, envFile string) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.User == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}

	if cfg.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if cfg.Name == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}

	if cfg.JWTKey == "" {
		return nil, fmt.Errorf("JWT_KEY is required")
	}

	if cfg.S3Endpoint != "" && cfg.S3BucketName == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME is required when S3_ENDPOINT is set")
	}

	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.DBPort, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
