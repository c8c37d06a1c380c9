package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-portal/internal/config"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "LOCALE", "SUBMIT_DRIVER", "LOOKUP_DELAY", "EMAIL_COOLDOWN", "CORS_ORIGINS_OFFLINE"} {
		t.Setenv(k, "")
	}
	cfg := config.FromEnv()
	if cfg.Mode != config.ModeOffline || cfg.HTTPAddr != ":8080" || cfg.Locale != "ar-SA" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.LookupDelay != time.Second || cfg.SubmitDelay != 2*time.Second || cfg.EmailCooldown != 3*time.Second {
		t.Fatalf("delays = %v %v %v", cfg.LookupDelay, cfg.SubmitDelay, cfg.EmailCooldown)
	}
	if cfg.SubmitDriver != config.SubmitSimulated {
		t.Fatalf("submit driver = %q", cfg.SubmitDriver)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	want := []string{"http://localhost:3000", "http://localhost:8080"}
	if got := cfg.CORSOrigins(); !reflect.DeepEqual(got, want) {
		t.Fatalf("offline origins = %v", got)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("LOOKUP_DELAY", "250ms")
	t.Setenv("EMAIL_COOLDOWN", "not-a-duration")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")
	t.Setenv("SECURE_COOKIES", "")
	t.Setenv("PUBLIC_URL", "https://portal.example")
	cfg := config.FromEnv()
	if cfg.PublicURL != "https://portal.example" {
		t.Errorf("public url = %q", cfg.PublicURL)
	}
	if cfg.LookupDelay != 250*time.Millisecond {
		t.Errorf("lookup delay = %v", cfg.LookupDelay)
	}
	if cfg.EmailCooldown != 3*time.Second {
		t.Errorf("bad duration should fall back, got %v", cfg.EmailCooldown)
	}
	if !cfg.SecureCookies {
		t.Errorf("online mode should default to secure cookies")
	}
	if got := cfg.CORSOrigins(); !reflect.DeepEqual(got, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("online origins = %v", got)
	}
}

func TestValidateRejects(t *testing.T) {
	t.Setenv("SUBMIT_DRIVER", "kafka")
	if err := config.FromEnv().Validate(); err == nil {
		t.Fatalf("unknown submit driver accepted")
	}
	t.Setenv("SUBMIT_DRIVER", "")
	t.Setenv("SESSION_SECRET", "short")
	if err := config.FromEnv().Validate(); err == nil {
		t.Fatalf("short session secret accepted")
	}
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("PUBLIC_URL", "not a url")
	if err := config.FromEnv().Validate(); err == nil {
		t.Fatalf("malformed public url accepted")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "test.env")
	if err := os.WriteFile(p, []byte("PORTAL_TEST_DOTENV_MARKER=1\nLOCALE=en\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOCALE", "") // restores the original on cleanup; godotenv skips keys that are set at all
	os.Unsetenv("LOCALE")
	t.Cleanup(func() { os.Unsetenv("PORTAL_TEST_DOTENV_MARKER") })

	cfg, err := config.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Locale != "en" {
		t.Fatalf("locale = %q", cfg.Locale)
	}

	if _, err := config.Load(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing file should be tolerated: %v", err)
	}
}
