package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Seed fixes the session's randomness. Zero picks a fresh seed.
	Seed uint64 `env:"DARKPATH_SEED"`
	// CharDelay is the typewriter speed.
	CharDelay time.Duration `env:"DARKPATH_CHAR_DELAY" envDefault:"50ms"`
	// CheckPause is how long a skill check stays on screen.
	CheckPause    time.Duration `env:"DARKPATH_CHECK_PAUSE" envDefault:"1500ms"`
	TranscriptDir string        `env:"DARKPATH_TRANSCRIPT_DIR"`
	DebugLog      string        `env:"DARKPATH_DEBUG_LOG"`

	// Only the simulation harness talks to Gemini.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// LoadConfig loads the configuration from environment variables, reading a
// .env file in the working directory first if there is one.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return parse()
}

func parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CharDelay < 0 || cfg.CheckPause < 0 {
		return nil, fmt.Errorf("DARKPATH_CHAR_DELAY and DARKPATH_CHECK_PAUSE must not be negative")
	}
	return &cfg, nil
}
