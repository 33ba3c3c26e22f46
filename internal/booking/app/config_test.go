package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BOOKING_CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, []string{"booking"}, cfg.Audience)
	require.Equal(t, 5, cfg.RateLimits.Strict.RequestsPerWindow)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
issuer: https://booking.example.com
audience: [web, mobile]
db_driver: postgres
database_url: postgres://booking@db/booking
access_ttl: 5m
refresh_ttl: 72h
port: 9000
`), 0o600))

	t.Setenv("BOOKING_CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("BOOKING_REFRESH_TTL", "120")
	t.Setenv("BOOKING_PHONE_REGION", "au")
	t.Setenv("BOOKING_ACCESS_TTL", "not a duration")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://booking.example.com", cfg.Issuer)
	require.Equal(t, []string{"web", "mobile"}, cfg.Audience)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Equal(t, 9100, cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.AccessTTL)
	require.Equal(t, 2*time.Hour, cfg.RefreshTTL)
	require.Equal(t, "AU", cfg.PhoneRegion)
}

func TestLoadConfigBadFile(t *testing.T) {
	t.Setenv("BOOKING_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	fields := func(cfg Config) validation.Errors {
		t.Helper()
		err := cfg.Validate()
		require.Error(t, err)
		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		return verrs
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.DBDriver = "mysql"
	require.Contains(t, fields(cfg), "DBDriver")

	cfg = DefaultConfig()
	cfg.DBDriver = DriverPostgres
	require.Contains(t, fields(cfg), "DatabaseURL")

	cfg = DefaultConfig()
	cfg.RefreshTTL = time.Minute
	require.Contains(t, fields(cfg), "RefreshTTL")

	cfg = DefaultConfig()
	cfg.AccessTTL = 0
	require.Contains(t, fields(cfg), "AccessTTL")
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	require.Equal(t, 90*time.Second, getEnvDurationOrDefault("TEST_DURATION", time.Hour))

	t.Setenv("TEST_DURATION", "30")
	require.Equal(t, 30*time.Minute, getEnvDurationOrDefault("TEST_DURATION", time.Hour))

	t.Setenv("TEST_DURATION", "soon")
	require.Equal(t, time.Hour, getEnvDurationOrDefault("TEST_DURATION", time.Hour))
}
