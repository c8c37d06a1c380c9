package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	SubmitSimulated = "simulated"
	SubmitEventLog  = "eventlog"
)

type Config struct {
	Mode      Mode   `validate:"oneof=offline online"`
	HTTPAddr  string `validate:"required"`
	PublicURL string `validate:"omitempty,url"`

	// only used when SubmitDriver is "eventlog"
	DBDriver string `validate:"oneof=sqlite postgres"`
	DBDSN    string

	BlobBasePath string `validate:"required"` // certificate artifacts

	SessionSecret string        `validate:"required,min=16"`
	SessionTTL    time.Duration `validate:"gt=0"`
	SecureCookies bool
	Locale        string `validate:"required"` // BCP 47, e.g. "ar-SA"

	LookupDelay   time.Duration `validate:"gte=0"`
	SubmitDelay   time.Duration `validate:"gte=0"`
	EmailCooldown time.Duration `validate:"gt=0"`
	SubmitDriver  string        `validate:"oneof=simulated eventlog"`
	UploadLimitMB int           `validate:"gt=0"`
	SiteID        string        `validate:"required"`

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

// Load reads an optional .env file (existing environment wins) and
// then builds the config from the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if !os.IsNotExist(errors.Cause(err)) {
				return Config{}, errors.Wrapf(err, "load %s", f)
			}
			glog.V(1).Infof("no %s file, using process environment", f)
		}
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		PublicURL:          os.Getenv("PUBLIC_URL"),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		SessionSecret:      envOr("SESSION_SECRET", "portal-dev-session-secret"),
		SessionTTL:         envDuration("SESSION_TTL", 2*time.Hour),
		SecureCookies:      envBool("SECURE_COOKIES", mode == ModeOnline),
		Locale:             envOr("LOCALE", "ar-SA"),
		LookupDelay:        envDuration("LOOKUP_DELAY", time.Second),
		SubmitDelay:        envDuration("SUBMIT_DELAY", 2*time.Second),
		EmailCooldown:      envDuration("EMAIL_COOLDOWN", 3*time.Second),
		SubmitDriver:       envOr("SUBMIT_DRIVER", SubmitSimulated),
		UploadLimitMB:      envInt("UPLOAD_LIMIT_MB", 32),
		SiteID:             envOr("SITE_ID", "local"),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://lms.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:8080"),
	}
}

var validate = validator.New()

func (c Config) Validate() error {
	return errors.Wrap(validate.Struct(c), "invalid config")
}

// CORSOrigins picks the origin list for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		glog.Warningf("config: %s=%q is not a duration, using %s", k, v, def)
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
