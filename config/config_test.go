package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "bijoux-photos", cfg.Storage.Bucket)
	assert.Equal(t, "http://localhost:4001", cfg.WhatsApp.BridgeURL)
	assert.Equal(t, "212", cfg.WhatsApp.CountryCode)
	assert.Equal(t, "pgdriver", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.StatsTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WHATSAPP_BRIDGE_URL", "http://bridge:4001")
	t.Setenv("WHATSAPP_TIMEOUT", "3s")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.ma, https://b.ma,")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg := Load()

	assert.Equal(t, "http://bridge:4001", cfg.WhatsApp.BridgeURL)
	assert.Equal(t, 3*time.Second, cfg.WhatsApp.Timeout)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, []string{"https://a.ma", "https://b.ma"}, cfg.Cors.AllowedOrigins)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("WHATSAPP_TIMEOUT", "ten seconds")
	t.Setenv("STORAGE_USE_SSL", "maybe")

	cfg := Load()

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10*time.Second, cfg.WhatsApp.Timeout)
	assert.False(t, cfg.Storage.UseSSL)
}
