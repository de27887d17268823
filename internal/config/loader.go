package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable through STUDYPLANNER_STORE.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config captures environment driven configuration values for the planner service.
type Config struct {
	HTTPPort  int
	Store     string
	Timezone  string
	Location  *time.Location
	RateLimit int
	LogLevel  slog.Level
}

// Load parses configuration values from the current process environment after
// merging an optional dotenv file named by STUDYPLANNER_ENV_FILE (".env" by
// default). Variables already present in the environment win over the file.
//
// Every invalid value is collected and reported in a single error.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("STUDYPLANNER_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("ไม่สามารถอ่านไฟล์ %s: %w", envFile, err)
	}

	cfg := Config{
		HTTPPort:  8080,
		Store:     StoreMemory,
		Timezone:  "Asia/Bangkok",
		RateLimit: 20,
		LogLevel:  slog.LevelInfo,
	}

	invalid := make([]string, 0, 5)

	if portValue := strings.TrimSpace(os.Getenv("STUDYPLANNER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "STUDYPLANNER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if store := strings.ToLower(strings.TrimSpace(os.Getenv("STUDYPLANNER_STORE"))); store != "" {
		switch store {
		case StoreMemory, StoreSQLite:
			cfg.Store = store
		default:
			invalid = append(invalid, "STUDYPLANNER_STORE")
		}
	}

	if tz := strings.TrimSpace(os.Getenv("STUDYPLANNER_TIMEZONE")); tz != "" {
		cfg.Timezone = tz
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		invalid = append(invalid, "STUDYPLANNER_TIMEZONE")
	} else {
		cfg.Location = loc
	}

	if limitValue := strings.TrimSpace(os.Getenv("STUDYPLANNER_RATE_LIMIT")); limitValue != "" {
		limit, err := strconv.Atoi(limitValue)
		if err != nil || limit < 0 {
			invalid = append(invalid, "STUDYPLANNER_RATE_LIMIT")
		} else {
			cfg.RateLimit = limit
		}
	}

	if levelValue := strings.TrimSpace(os.Getenv("STUDYPLANNER_LOG_LEVEL")); levelValue != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "STUDYPLANNER_LOG_LEVEL")
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("ค่าตัวแปรสภาพแวดล้อมไม่ถูกต้อง: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
