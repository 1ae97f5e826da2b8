package config_test

import (
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "order_events", cfg.RabbitMQ.Queue)
}

func TestFromViper_RejectsUnknownDriver(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("DB_DRIVER", "oracle")

	_, err := config.FromViper(v)
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestFromViper_RejectsBcryptCost(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("BCRYPT_COST", 99)

	_, err := config.FromViper(v)
	assert.ErrorContains(t, err, "BCRYPT_COST")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9999")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=db user=toko password=hunter2 dbname=toko")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.AppPort)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
}

func TestRedacted(t *testing.T) {
	cfg := config.Config{
		Database: config.DatabaseConfig{DSN: "host=db user=toko password=hunter2 dbname=toko"},
		RabbitMQ: config.RabbitMQConfig{URL: "amqp://guest:secret@mq:5672/"},
	}
	red := cfg.Redacted()
	assert.Equal(t, "host=db user=toko password=xxxxx dbname=toko", red.Database.DSN)
	assert.Equal(t, "amqp://guest:xxxxx@mq:5672/", red.RabbitMQ.URL)
	assert.Contains(t, cfg.Database.DSN, "hunter2")
}
