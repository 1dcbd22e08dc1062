package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("LOCK_TIMEOUT", "")
	t.Setenv("NOTIFY_BACKEND", "")
	t.Setenv("MAX_CHECK_ALLOCATION", "")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, 500, cfg.MaxCheckAllocation)
	assert.Equal(t, NotifyBackendLog, cfg.NotifyBackend)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("LOCK_TIMEOUT", "250ms")
	v.Set("MAX_CHECK_ALLOCATION", 25)
	v.Set("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("NOTIFY_BACKEND", "REDIS")
	v.Set("REDIS_DB", 3)

	cfg := fromViper(v)

	assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, 25, cfg.MaxCheckAllocation)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, NotifyBackendRedis, cfg.NotifyBackend)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestFromViper_InvalidValuesFallBack(t *testing.T) {
	v := viper.New()
	v.Set("LOCK_TIMEOUT", "soon")
	v.Set("MAX_CHECK_ALLOCATION", -1)
	v.Set("NOTIFY_BACKEND", "carrier-pigeon")

	cfg := fromViper(v)

	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, 500, cfg.MaxCheckAllocation)
	assert.Equal(t, NotifyBackendLog, cfg.NotifyBackend)
	assert.Equal(t, "8080", cfg.Port)
}
