package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/booking/pkg/httpx"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
	validation "github.com/go-ozzo/ozzo-validation"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is read from an optional YAML file named by BOOKING_CONFIG_FILE
// and then from the environment, which wins.
type Config struct {
	Issuer   string   `yaml:"issuer"`   // iss claim (default: booking)
	Audience []string `yaml:"audience"` // aud claim, comma separated in env
	NumKeys  int      `yaml:"num_keys"` // signing keys generated at startup (default: 3)

	DBDriver       string `yaml:"db_driver"`         // sqlite or postgres (default: sqlite)
	DatabaseFile   string `yaml:"database_file"`     // sqlite path (default: booking.db)
	DatabaseURL    string `yaml:"database_url"`      // postgres DSN
	DBMaxOpenConns int    `yaml:"db_max_open_conns"` // postgres pool size (default: 10)

	PepperFile  string        `yaml:"pepper_file"`  // created on first start (default: pepper)
	AccessTTL   time.Duration `yaml:"access_ttl"`   // default: 15m
	RefreshTTL  time.Duration `yaml:"refresh_ttl"`  // default: 168h
	PhoneRegion string        `yaml:"phone_region"` // region for numbers without a country code (default: VN)

	Env                  string        `yaml:"env"`        // dev, staging, prod (default: dev)
	LogLevel             string        `yaml:"log_level"`  // default: info
	LogFormat            string        `yaml:"log_format"` // json or text (default: json)
	Port                 int           `yaml:"port"`       // default: 8080
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
	HousekeepingInterval time.Duration `yaml:"housekeeping_interval"`

	// TrustProxy keys rate limits on X-Forwarded-For. Only enable behind a
	// proxy that overwrites it.
	TrustProxy bool `yaml:"trust_proxy"`

	RateLimits httpx.RateLimits `yaml:"-"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Issuer:               "booking",
		Audience:             []string{"booking"},
		NumKeys:              3,
		DBDriver:             DriverSQLite,
		DatabaseFile:         "booking.db",
		DBMaxOpenConns:       10,
		PepperFile:           "pepper",
		AccessTTL:            jwtx.DefaultAccessTokenTTL,
		RefreshTTL:           jwtx.DefaultRefreshTokenTTL,
		PhoneRegion:          "VN",
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  10 * time.Second,
		HousekeepingInterval: time.Hour,
	}
}

// LoadConfig layers the YAML file and the environment over DefaultConfig.
// Malformed numbers and durations in the environment keep the previous
// value.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("BOOKING_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Issuer = getEnvOrDefault("BOOKING_ISSUER", cfg.Issuer)
	if aud := os.Getenv("BOOKING_AUDIENCE"); aud != "" {
		cfg.Audience = splitList(aud)
	}
	cfg.NumKeys = getEnvIntOrDefault("BOOKING_NUM_KEYS", cfg.NumKeys)

	cfg.DBDriver = strings.ToLower(getEnvOrDefault("BOOKING_DB_DRIVER", cfg.DBDriver))
	cfg.DatabaseFile = getEnvOrDefault("BOOKING_DATABASE_FILE", cfg.DatabaseFile)
	cfg.DatabaseURL = getEnvOrDefault("BOOKING_DATABASE_URL", cfg.DatabaseURL)
	cfg.DBMaxOpenConns = getEnvIntOrDefault("BOOKING_DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)

	cfg.PepperFile = getEnvOrDefault("BOOKING_PEPPER_FILE", cfg.PepperFile)
	cfg.AccessTTL = getEnvDurationOrDefault("BOOKING_ACCESS_TTL", cfg.AccessTTL)
	cfg.RefreshTTL = getEnvDurationOrDefault("BOOKING_REFRESH_TTL", cfg.RefreshTTL)
	cfg.PhoneRegion = strings.ToUpper(getEnvOrDefault("BOOKING_PHONE_REGION", cfg.PhoneRegion))

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
	cfg.HousekeepingInterval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", cfg.HousekeepingInterval)
	if v, err := strconv.ParseBool(os.Getenv("BOOKING_TRUST_PROXY")); err == nil {
		cfg.TrustProxy = v
	}

	cfg.RateLimits = httpx.RateLimitsFromEnv()

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	dsnRules := []validation.Rule{}
	fileRules := []validation.Rule{}
	switch c.DBDriver {
	case DriverPostgres:
		dsnRules = append(dsnRules, validation.Required)
	case DriverSQLite:
		fileRules = append(fileRules, validation.Required)
	}

	return validation.ValidateStruct(&c,
		validation.Field(&c.Issuer, validation.Required),
		validation.Field(&c.NumKeys, validation.Min(1), validation.Max(10)),
		validation.Field(&c.DBDriver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DatabaseFile, fileRules...),
		validation.Field(&c.DatabaseURL, dsnRules...),
		validation.Field(&c.PepperFile, validation.Required),
		validation.Field(&c.AccessTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RefreshTTL, validation.Required, validation.Min(c.AccessTTL)),
		validation.Field(&c.PhoneRegion, validation.Required, validation.Length(2, 2)),
		validation.Field(&c.LogFormat, validation.In("json", "text")),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.HousekeepingInterval, validation.Required, validation.Min(time.Second)),
	)
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("90s", "1h") or a bare
// integer number of minutes.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}
	return defaultValue
}
