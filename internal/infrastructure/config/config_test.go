package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "agritrace360", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "agritrace", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, []string{"log"}, cfg.Notification.Sinks)
		assert.Equal(t, 24*time.Hour, cfg.Notification.IdempotencyTTL)
		assert.Equal(t, "USD", cfg.Fees.Currency)
		assert.True(t, cfg.Fees.ExportFee.IsZero())
		assert.False(t, cfg.Scheduler.ExpirySweepEnabled)
		assert.Equal(t, "@every 15m", cfg.Scheduler.ExpirySweepSchedule)
		assert.False(t, cfg.Storage.Enabled)
	})

	t.Run("loads values from environment variables with AGT prefix", func(t *testing.T) {
		t.Setenv("AGT_APP_PORT", "9000")
		t.Setenv("AGT_DATABASE_DRIVER", "sqlite")
		t.Setenv("AGT_DATABASE_SQLITE_PATH", "/tmp/agt.db")
		t.Setenv("AGT_REDIS_ENABLED", "true")
		t.Setenv("AGT_NOTIFICATION_SINKS", "log redis")
		t.Setenv("AGT_NOTIFICATION_IDEMPOTENCY_TTL", "1h")
		t.Setenv("AGT_FEES_EXPORT_FEE", "120.50")
		t.Setenv("AGT_FEES_CURRENCY", "LRD")
		t.Setenv("AGT_SCHEDULER_EXPIRY_SWEEP_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "/tmp/agt.db", cfg.Database.DSN())
		assert.Equal(t, []string{"log", "redis"}, cfg.Notification.Sinks)
		assert.True(t, cfg.Notification.HasSink("redis"))
		assert.False(t, cfg.Notification.HasSink("mqtt"))
		assert.Equal(t, time.Hour, cfg.Notification.IdempotencyTTL)
		assert.True(t, cfg.Fees.ExportFee.Equal(decimal.RequireFromString("120.50")))
		assert.Equal(t, "LRD", cfg.Fees.Currency)
		assert.True(t, cfg.Scheduler.ExpirySweepEnabled)
	})

	t.Run("rejects an unknown sink", func(t *testing.T) {
		t.Setenv("AGT_NOTIFICATION_SINKS", "log pager")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pager")
	})
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"idle exceeds open", func(c *Config) { c.Database.MaxIdleConns = 50 }, "max_idle_conns"},
		{"webhook without url", func(c *Config) { c.Notification.Sinks = []string{"webhook"} }, "webhook_url"},
		{"mqtt without broker", func(c *Config) { c.Notification.Sinks = []string{"mqtt"} }, "mqtt_broker"},
		{"redis sink without redis", func(c *Config) { c.Notification.Sinks = []string{"redis"} }, "redis.enabled"},
		{"bad qos", func(c *Config) { c.Notification.MQTTQoS = 3 }, "mqtt_qos"},
		{"negative fee", func(c *Config) { c.Fees.InspectionFee = decimal.NewFromInt(-1) }, "fees.inspection_fee"},
		{"sampling ratio", func(c *Config) { c.Telemetry.SamplingRatio = 1.5 }, "sampling_ratio"},
		{"production needs password", func(c *Config) { c.App.Env = "production" }, "database.password"},
		{"production rejects sqlite", func(c *Config) {
			c.App.Env = "production"
			c.Database.Driver = "sqlite"
		}, "must be postgres"},
		{"production rejects wildcard cors", func(c *Config) {
			c.App.Env = "production"
			c.Database.Password = "secret"
			c.Database.SSLMode = "require"
			c.HTTP.CORSAllowOrigins = []string{"*"}
		}, "cors_allow_origins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db",
		Port:     5432,
		User:     "agt",
		Password: "p@ss/word",
		DBName:   "agritrace",
		SSLMode:  "require",
	}
	assert.Equal(t, "postgres://agt:p%40ss%2Fword@db:5432/agritrace?sslmode=require", d.DSN())

	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
