package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"SPEAKVIZ_PORT", "SPEAKVIZ_DB", "SPEAKVIZ_HISTORY_CAP",
		"SPEAKVIZ_SAMPLE_INTERVAL", "SPEAKVIZ_BACKEND", "SPEAKVIZ_FEEDBACK_URL",
	} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	if cfg.Port != DefaultPort {
		t.Errorf("Port: got %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.HistoryCap != DefaultHistoryCap {
		t.Errorf("HistoryCap: got %d, want %d", cfg.HistoryCap, DefaultHistoryCap)
	}
	if cfg.SampleInterval != DefaultSampleInterval {
		t.Errorf("SampleInterval: got %v, want %v", cfg.SampleInterval, DefaultSampleInterval)
	}
	if cfg.Backend != DefaultBackend {
		t.Errorf("Backend: got %q, want %q", cfg.Backend, DefaultBackend)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SPEAKVIZ_PORT", "9090")
	t.Setenv("SPEAKVIZ_HISTORY_CAP", "100")
	t.Setenv("SPEAKVIZ_SAMPLE_INTERVAL", "33ms")
	t.Setenv("SPEAKVIZ_BACKEND", "gesture")
	t.Setenv("SPEAKVIZ_ENV", "production")

	cfg := FromEnv()
	if cfg.Port != "9090" {
		t.Errorf("Port: got %q", cfg.Port)
	}
	if cfg.HistoryCap != 100 {
		t.Errorf("HistoryCap: got %d", cfg.HistoryCap)
	}
	if cfg.SampleInterval != 33*time.Millisecond {
		t.Errorf("SampleInterval: got %v", cfg.SampleInterval)
	}
	if cfg.Backend != "gesture" {
		t.Errorf("Backend: got %q", cfg.Backend)
	}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
}

func TestInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SPEAKVIZ_TEST_INT", "-5")
	if got := Int("SPEAKVIZ_TEST_INT", 7); got != 7 {
		t.Errorf("negative value: got %d, want 7", got)
	}
	t.Setenv("SPEAKVIZ_TEST_INT", "abc")
	if got := Int("SPEAKVIZ_TEST_INT", 7); got != 7 {
		t.Errorf("garbage value: got %d, want 7", got)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SPEAKVIZ_DB=from-dotenv.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set.
	os.Unsetenv("SPEAKVIZ_DB")
	t.Cleanup(func() { os.Unsetenv("SPEAKVIZ_DB") })

	cfg := Load(path)
	if cfg.DBPath != "from-dotenv.db" {
		t.Errorf("DBPath: got %q, want from-dotenv.db", cfg.DBPath)
	}
}
