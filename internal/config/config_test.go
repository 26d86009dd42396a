package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearAmbientEnv blanks every variable the assertions below depend on so
// the defaults are actually exercised.
func clearAmbientEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_HOST", "APP_PORT", "PORT", "LOG_LEVEL", "LOG_FORMAT",
		"AWS_REGION", "STORAGE_LIST_MAX_KEYS", "HTTP_REQUEST_TIMEOUT_SECONDS",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_PER_MINUTE", "POSTGRES_DSN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "unit-test-secret")
	t.Setenv("STORAGE_BUCKET", "unit-test-bucket")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storage-gateway", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "unit-test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "us-east-1", cfg.Cloud.Region)
	assert.Equal(t, "unit-test-bucket", cfg.Cloud.Bucket)
	assert.Equal(t, 100, cfg.Cloud.ListMaxKeys)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.PerMinute)
}

func TestLoadFailsClosedWithoutSecret(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("STORAGE_BUCKET", "unit-test-bucket")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestLoadTreatsBlankSecretAsAbsent(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "   ")
	t.Setenv("STORAGE_BUCKET", "unit-test-bucket")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestLoadHonorsPlatformPort(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "unit-test-secret")
	t.Setenv("STORAGE_BUCKET", "unit-test-bucket")

	// Cloud platforms inject PORT; an explicit APP_PORT wins over it.
	t.Setenv("PORT", "9090")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)

	t.Setenv("APP_PORT", "7070")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.Port)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Auth:      AuthConfig{JWTSecret: "secret"},
		Cloud:     CloudConfig{Bucket: "bucket", ListMaxKeys: 10},
		RateLimit: RateLimitConfig{Enabled: false, PerMinute: 120},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "AUTH_JWT_SECRET"},
		{"missing bucket", func(c *Config) { c.Cloud.Bucket = "" }, "STORAGE_BUCKET"},
		{"bad page size", func(c *Config) { c.Cloud.ListMaxKeys = 0 }, "STORAGE_LIST_MAX_KEYS"},
		{"bad rate limit", func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true} }, "RATE_LIMIT_PER_MINUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequestTimeoutFallbacks(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 45*time.Second, AppConfig{RequestTimeoutSeconds: 45}.RequestTimeout())

	assert.Equal(t, 10*time.Second, CloudConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, CloudConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}
