package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.VCI.RatePerSec != 4 {
		t.Errorf("Expected VCI RatePerSec to be 4, got %v", cfg.VCI.RatePerSec)
	}

	if cfg.Pipeline.TargetCount != 50 {
		t.Errorf("Expected Pipeline TargetCount to be 50, got %d", cfg.Pipeline.TargetCount)
	}

	if cfg.Pipeline.MinFScore != 5 {
		t.Errorf("Expected Pipeline MinFScore to be 5, got %d", cfg.Pipeline.MinFScore)
	}

	if cfg.HSX.LookbackDays != 90 {
		t.Errorf("Expected HSX LookbackDays to be 90, got %d", cfg.HSX.LookbackDays)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("PIPELINE_WORKERS", "2")
	os.Setenv("PIPELINE_MAX_SECTOR_PE", "30")
	os.Setenv("FINBERT_TIMEOUT", "45s")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("PIPELINE_WORKERS")
		os.Unsetenv("PIPELINE_MAX_SECTOR_PE")
		os.Unsetenv("FINBERT_TIMEOUT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Pipeline.Workers != 2 {
		t.Errorf("Expected Pipeline Workers to be 2, got %d", cfg.Pipeline.Workers)
	}

	if cfg.Pipeline.MaxSectorPE != 30 {
		t.Errorf("Expected Pipeline MaxSectorPE to be 30, got %v", cfg.Pipeline.MaxSectorPE)
	}

	if cfg.FinBERT.Timeout != 45*time.Second {
		t.Errorf("Expected FinBERT Timeout to be 45s, got %v", cfg.FinBERT.Timeout)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "invalid")
	defer os.Unsetenv("ENV")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateWorkerBounds(t *testing.T) {
	for _, workers := range []string{"0", "9"} {
		os.Setenv("PIPELINE_WORKERS", workers)

		_, err := Load()
		if err == nil {
			t.Errorf("Expected error when PIPELINE_WORKERS=%s, got nil", workers)
		}
	}
	os.Unsetenv("PIPELINE_WORKERS")
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "2h")
	defer os.Unsetenv("TEST_DURATION")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	if duration != 2*time.Hour {
		t.Errorf("Expected duration to be 2h, got %v", duration)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")

	if value := getEnvAsInt("TEST_INT", 50); value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}

	if value := getEnvAsInt("TEST_INT_MISSING", 50); value != 50 {
		t.Errorf("Expected fallback to be 50, got %d", value)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	os.Setenv("TEST_FLOAT", "2.5")
	defer os.Unsetenv("TEST_FLOAT")

	if value := getEnvAsFloat("TEST_FLOAT", 1); value != 2.5 {
		t.Errorf("Expected value to be 2.5, got %v", value)
	}

	if value := getEnvAsFloat("TEST_FLOAT_MISSING", 1); value != 1 {
		t.Errorf("Expected fallback to be 1, got %v", value)
	}
}
