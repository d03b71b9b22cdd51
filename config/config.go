// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds server settings.
type Config struct {
	Port           string
	AllowedOrigins []string
	MaxUploadMB    int64
	FFmpegPath     string
	MinPSNR        float64
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Port:           "8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxUploadMB:    32,
		FFmpegPath:     "ffmpeg",
		MinPSNR:        40,
	}
}

// Load reads envFile if it exists, then the environment. Variables already
// set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil || mb <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB %q", v)
		}
		cfg.MaxUploadMB = mb
	}

	if path := os.Getenv("FFMPEG_PATH"); path != "" {
		cfg.FFmpegPath = path
	}

	if v := os.Getenv("MIN_PSNR_DB"); v != "" {
		psnr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MIN_PSNR_DB %q: %w", v, err)
		}
		cfg.MinPSNR = psnr
	}

	return cfg, nil
}

// MaxUploadBytes is the multipart memory limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
