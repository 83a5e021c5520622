package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")
	t.Setenv("LOCAL_DB_DRIVER", "sqlite")
	t.Setenv("LOCAL_DB_NAME", "rentapp_test")

	cfg := LoadConfig()

	assert.Equal(t, "LOCAL", cfg.EnvType)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "rentapp_test.db", cfg.GetDSN())
	assert.Equal(t, time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTRefreshTTL)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoadConfigServerPrefix(t *testing.T) {
	t.Setenv("ENV_TYPE", "server")
	t.Setenv("SERVER_DB_DRIVER", "postgres")
	t.Setenv("SERVER_DB_HOST", "db.internal")
	t.Setenv("SERVER_DB_USER", "rent")
	t.Setenv("SERVER_DB_PASSWORD", "secret")
	t.Setenv("SERVER_DB_NAME", "rentapp")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("JWT_ACCESS_TTL", "15m")

	cfg := LoadConfig()

	assert.Equal(t, "SERVER", cfg.EnvType)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Contains(t, cfg.GetDSN(), "host=db.internal")
	assert.Contains(t, cfg.GetDSN(), "dbname=rentapp")
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
}

func TestLoadConfigRequiresDBUser(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")
	t.Setenv("LOCAL_DB_DRIVER", "mysql")
	t.Setenv("LOCAL_DB_USER", "")
	t.Setenv("DB_USER", "")

	assert.Panics(t, func() { LoadConfig() })
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "n"}
	assert.Equal(t, "u:p@tcp(h:3306)/n?charset=utf8mb4&parseTime=True&loc=Local", cfg.GetDSN())
}
