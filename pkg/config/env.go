package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/matzehuels/pylon/pkg/errors"
)

// Environment variable names.
const (
	EnvCacheDir  = "PYLON_CACHE_DIR"
	EnvRedisURL  = "PYLON_REDIS_URL"
	EnvMongoURI  = "PYLON_MONGO_URI"
	EnvMongoDB   = "PYLON_MONGO_DB"
	EnvListen    = "PYLON_LISTEN"
	EnvRateLimit = "PYLON_RATE_LIMIT"
	EnvRateBurst = "PYLON_RATE_BURST"
)

// Service defaults.
const (
	DefaultListen    = ":8080"
	DefaultMongoDB   = "pylon"
	DefaultRateLimit = 2.0
	DefaultRateBurst = 5
)

// Env holds service settings read from the environment.
type Env struct {
	CacheDir string
	RedisURL string
	MongoURI string
	MongoDB  string
	Listen   string
	// RateLimit is the sustained request rate per client in requests per
	// second; RateBurst the bucket size.
	RateLimit float64
	RateBurst int
}

// LoadEnv seeds the process environment from the given .env files (or
// ".env" when none are given) and reads the settings. A missing default
// .env file is not an error; an explicitly named one is. Variables already
// set in the environment win over file values.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Env{}, errors.Wrap(errors.ErrCodeConfiguration, err, "load env files")
		}
	}

	e := Env{
		CacheDir:  os.Getenv(EnvCacheDir),
		RedisURL:  os.Getenv(EnvRedisURL),
		MongoURI:  os.Getenv(EnvMongoURI),
		MongoDB:   getenv(EnvMongoDB, DefaultMongoDB),
		Listen:    getenv(EnvListen, DefaultListen),
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return Env{}, errors.New(errors.ErrCodeConfiguration, "%s must be a non-negative number, got %q", EnvRateLimit, v)
		}
		e.RateLimit = f
	}
	if v := os.Getenv(EnvRateBurst); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Env{}, errors.New(errors.ErrCodeConfiguration, "%s must be a positive integer, got %q", EnvRateBurst, v)
		}
		e.RateBurst = n
	}
	return e, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
