// Package config loads all environment variables at startup.
// Every other package receives typed values — nothing reads os.Getenv directly.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port string // default "8080"
	Env  string // "development" | "staging" | "production"

	// ── Profile store ─────────────────────────────────────────────────────────
	// ProfileStoreKey is the base64-encoded 32-byte key the encrypted profile
	// store seals the collection under. When empty the store refuses to load
	// or save; the server still starts so auth endpoints keep working.
	ProfileStoreKey string
	ProfilesFile    string // default "profiles.enc"

	// ── Users ─────────────────────────────────────────────────────────────────
	UsersFile  string        // default "users.json"
	SessionTTL time.Duration // default 24h

	// ── Breed reference ───────────────────────────────────────────────────────
	BreedDBFile string // default "breed_db.json"

	// ── Gemini ────────────────────────────────────────────────────────────────
	// Optional. When GEMINI_API_KEY is empty, assessments still run but the
	// refinement block carries a fixed "not configured" message.
	GeminiAPIKey string
	GeminiModel  string // default "gemini-2.5-flash"

	// ── Frontend ──────────────────────────────────────────────────────────────
	// StaticDir, when set, is served at / for the bundled frontend.
	StaticDir string
}

// Load reads all environment variables and returns a Config.
// It automatically loads a .env file from the working directory when present,
// so plain `go run ./cmd/api` works in development without any wrapper.
// Real environment variables always take precedence over .env values.
//
// Nothing is hard-required here: a missing store key or Gemini key is
// surfaced by the component that needs it, per operation, not at startup.
func Load() (*Config, error) {
	loadDotEnv(".env")

	c := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		ProfileStoreKey: os.Getenv("PROFILE_STORE_KEY"),
		ProfilesFile:    getEnv("PROFILES_FILE", "profiles.enc"),
		UsersFile:       getEnv("USERS_FILE", "users.json"),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		BreedDBFile:     getEnv("BREED_DB_FILE", "breed_db.json"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		StaticDir:       os.Getenv("STATIC_DIR"),
	}

	return c, nil
}

// ─── DOT-ENV LOADER ──────────────────────────────────────────────────────────

// loadDotEnv reads key=value pairs from path and sets them in the environment,
// but only for keys that are not already set. This means real env vars (e.g.
// from Docker or your shell) always win over the file.
// Missing file, blank lines, and #-comments are all silently ignored.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // file absent — that's fine
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Strip optional surrounding quotes: KEY="value" or KEY='value'
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		// Only set if the key isn't already present in the environment.
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// A plain integer is treated as hours for TTL-style variables, seconds
	// otherwise.
	if value, err := strconv.Atoi(valueStr); err == nil {
		if strings.Contains(key, "TTL") {
			return time.Duration(value) * time.Hour
		}
		return time.Duration(value) * time.Second
	}
	// Fall back to Go duration syntax: "30s", "5m", "24h", etc.
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
