package cli

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configFile = ""
	})
	err := rootCmd.Execute()
	return out.String() + errOut.String(), err
}

func useTempDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")
	t.Setenv("DB_DRIVER", config.DriverSQLite)
	t.Setenv("DATABASE_DSN", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("BCRYPT_COST", "4")
	return path
}

func TestConfigShow_RedactsSecrets(t *testing.T) {
	t.Setenv("DB_DRIVER", config.DriverPostgres)
	t.Setenv("DATABASE_DSN", "postgres://shop:hunter2@db:5432/shop?sslmode=disable")
	t.Setenv("RABBITMQ_URL", "amqp://svc:topsecret@mq:5672/")

	out, err := run(t, "config", "show")
	require.NoError(t, err)

	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "topsecret")

	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, config.DriverPostgres, shown.Database.Driver)
	assert.Contains(t, shown.Database.DSN, "shop:xxxxx@db:5432")
	assert.Equal(t, ":8080", shown.AppPort)
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := run(t, "config", "show")
	assert.Error(t, err)
}

func TestMigrateAndCreateAdmin(t *testing.T) {
	useTempDatabase(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated sqlite database")

	out, err = run(t, "create-admin", "--name", "Ops", "--email", "Ops@Example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created admin ops@example.com")

	cfg, err := config.Load("")
	require.NoError(t, err)
	db, err := database.Open(cfg.Database)
	require.NoError(t, err)
	defer database.Close(db)

	var admin models.User
	require.NoError(t, db.First(&admin, "email = ?", "ops@example.com").Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "Ops", admin.Name)

	out, err = run(t, "create-admin", "--email", "ops@example.com", "--password", "123")
	require.Error(t, err)
	assert.Contains(t, out, "email: The email has already been taken.")
	assert.Contains(t, out, "password: The password field must be at least 6 characters.")
}
