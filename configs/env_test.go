package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}
	return path
}

func TestLoadEnv(t *testing.T) {
	t.Run("LoadEnv/Defaults", func(t *testing.T) {
		env, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
		if err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if env.Mode != Connected || env.StoreDriver != "sqlite" || env.APITimeout != 15*time.Second {
			t.Errorf("unexpected defaults: %+v", env)
		}

		if env.GoldPricePerGram != 8500000 {
			t.Errorf("expected default gold price, got %v", env.GoldPricePerGram)
		}
	})

	t.Run("LoadEnv/From file", func(t *testing.T) {
		t.Setenv("MODE", "")
		t.Setenv("API_TIMEOUT", "")
		os.Unsetenv("MODE")
		os.Unsetenv("API_TIMEOUT")

		path := writeEnvFile(t, "MODE=disconnected\nAPI_TIMEOUT=3s\n")
		env, err := LoadEnv(path)
		if err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if env.Mode != Disconnected || env.APITimeout != 3*time.Second {
			t.Errorf("unexpected env: %+v", env)
		}
	})

	t.Run("LoadEnv/Invalid mode", func(t *testing.T) {
		t.Setenv("MODE", "offline")

		if _, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("LoadEnv/Invalid gold price", func(t *testing.T) {
		t.Setenv("GOLD_PRICE_PER_GRAM", "gold")

		if _, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestNewValidate(t *testing.T) {
	validate := NewValidate()

	for _, name := range []string{"fajr", "dhuhr", "asr", "maghrib", "isha"} {
		if err := validate.Var(name, "prayername"); err != nil {
			t.Errorf("expected %q to be valid, got: %v", name, err)
		}
	}

	if err := validate.Var("tahajjud", "prayername"); err == nil {
		t.Errorf("expected tahajjud to be rejected")
	}
}
