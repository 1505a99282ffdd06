package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Port             string
	DBURL            string
	UseInMemoryStore bool
	Environment      string

	// FinnhubAPIKey authenticates outbound quote requests.
	FinnhubAPIKey  string
	FinnhubBaseURL string

	// FxRate converts provider-currency prices into the home currency.
	// Every valuation reads this single rate; no call site carries its own.
	FxRate float64

	RefreshInterval     time.Duration
	QuoteCallsPerMinute int
}

// Load reads configuration from environment variables. A .env file is loaded
// if present to simplify local development. We look in bin/.env so the file
// can live alongside a built binary, and fall back to .env in the project
// root for compatibility.
func Load() Config {
	loadDotEnv()

	cfg := Config{
		Port:                getString("PORT", "8080"),
		DBURL:               getString("DATABASE_URL", ""),
		Environment:         getString("ENVIRONMENT", "local"),
		FinnhubAPIKey:       getString("FINNHUB_API_KEY", ""),
		FinnhubBaseURL:      getString("FINNHUB_BASE_URL", "https://finnhub.io"),
		FxRate:              getFloat("FX_RATE", 86.0),
		RefreshInterval:     getDurationMinutes("REFRESH_INTERVAL_MINUTES", 5),
		QuoteCallsPerMinute: getInt("QUOTE_CALLS_PER_MINUTE", 5),
	}

	cfg.UseInMemoryStore = cfg.DBURL == ""
	return cfg
}

func loadDotEnv() {
	candidates := []string{
		filepath.Join("bin", ".env"),
		".env",
	}

	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		candidates = append([]string{
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "bin", ".env"),
		}, candidates...)
	}

	for _, path := range candidates {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			log.Printf("invalid value for %s, using fallback: %v", key, err)
			return fallback
		}
		return n
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Printf("invalid value for %s, using fallback: %v", key, err)
			return fallback
		}
		return f
	}
	return fallback
}

func getDurationMinutes(key string, fallback int) time.Duration {
	if val := os.Getenv(key); val != "" {
		mins, err := strconv.Atoi(val)
		if err != nil {
			log.Printf("invalid value for %s, using fallback: %v", key, err)
			return time.Duration(fallback) * time.Minute
		}
		return time.Duration(mins) * time.Minute
	}
	return time.Duration(fallback) * time.Minute
}
