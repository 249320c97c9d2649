package config

import (
	"os"
	"strconv"
	"targetrange/internal/projectiles"
	"time"
)

// Upper bounds for numeric settings; larger values fall back to the default.
const (
	MaxFrameRate  = 1000
	MaxSpeed      = 1e6
	MaxRange      = 1e9
	MaxSessionTTL = 7 * 24 * 60 // minutes
)

type Config struct {
	Port        string
	DatabaseURL string
	FrameRate   int // frames per second
	Speed       float64
	MaxRange    float64
	RangeFrom   projectiles.RangeReference
	SessionTTL  time.Duration
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		FrameRate:   getEnvInt("FRAME_RATE", 60, MaxFrameRate),
		Speed:       getEnvFloat("PROJECTILE_SPEED", projectiles.DefaultSpeed, MaxSpeed),
		MaxRange:    getEnvFloat("MAX_RANGE", projectiles.DefaultMaxRange, MaxRange),
		RangeFrom:   projectiles.FromSpawn,
		SessionTTL:  time.Duration(getEnvInt("SESSION_TTL", 60, MaxSessionTTL)) * time.Minute,
	}
	if ref, err := projectiles.ParseRangeReference(os.Getenv("RANGE_FROM")); err == nil {
		cfg.RangeFrom = ref
	}
	return cfg
}

// Projectiles returns the simulation settings for new sessions.
func (c Config) Projectiles() projectiles.Config {
	return projectiles.Config{
		Speed:     c.Speed,
		MaxRange:  c.MaxRange,
		Reference: c.RangeFrom,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback, limit int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 && i <= limit {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback, limit float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= limit {
			return f
		}
	}
	return fallback
}
