package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	Connected    Mode = "connected"
	Disconnected Mode = "disconnected"
)

type Env struct {
	Mode             Mode
	APIBaseURL       string
	APITimeout       time.Duration
	StoreDriver      string
	StorePath        string
	DatabaseURL      string
	AllowedOrigins   string
	ListenAddr       string
	GoldPricePerGram float64
	Timezone         string
	LogFile          string
}

// LoadEnv reads the given dotenv files (".env" when none are given) and
// falls back to the process environment for anything they leave unset.
// Missing files are not an error.
func LoadEnv(filenames ...string) (Env, error) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil && !os.IsNotExist(err) {
			return Env{}, fmt.Errorf("failed to load %s: %w", filename, err)
		}
	}

	env := Env{
		Mode:           Mode(getenv("MODE", string(Connected))),
		APIBaseURL:     getenv("API_BASE_URL", "http://localhost:4000/api"),
		StoreDriver:    getenv("STORE_DRIVER", "sqlite"),
		StorePath:      getenv("STORE_PATH", "nur.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "*"),
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		Timezone:       getenv("TIMEZONE", "Local"),
		LogFile:        os.Getenv("LOG_FILE"),
	}

	if env.Mode != Connected && env.Mode != Disconnected {
		return Env{}, fmt.Errorf("invalid MODE %q", env.Mode)
	}

	timeout, err := time.ParseDuration(getenv("API_TIMEOUT", "15s"))
	if err != nil {
		return Env{}, fmt.Errorf("failed to parse API_TIMEOUT: %w", err)
	}
	env.APITimeout = timeout

	goldPrice, err := strconv.ParseFloat(getenv("GOLD_PRICE_PER_GRAM", "8500000"), 64)
	if err != nil {
		return Env{}, fmt.Errorf("failed to parse GOLD_PRICE_PER_GRAM: %w", err)
	}
	env.GoldPricePerGram = goldPrice

	return env, nil
}

func (e Env) Location() (*time.Location, error) {
	return time.LoadLocation(e.Timezone)
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
