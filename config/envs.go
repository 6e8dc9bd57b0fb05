package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MaxMazeDimensionLimit bounds MAX_MAZE_DIMENSION. Builds relabel by scanning
// the grid, so their cost grows with the fourth power of the side.
const MaxMazeDimensionLimit = 250

// Config holds the application's configuration values.
type Config struct {
	HostIP           string        // Host IP for the server
	RESTPort         int           // Port for the REST API
	GinMode          string        // Mode for the Gin framework (e.g., release, debug, test)
	DBHost           string        // Hostname or IP address for the database
	DBPort           int           // Port number for the database
	DBUser           string        // Username for the database
	DBPassword       string        // Password for the database
	DBName           string        // Name of the database
	RedisAddr        string        // Redis host:port; empty keeps sessions in memory
	RedisPassword    string        // Password for Redis
	RedisDB          int           // Redis logical database
	KeyPrefix        string        // Prefix of every Redis key
	SessionTTL       time.Duration // Idle time after which a stored session expires
	MaxMazeDimension int           // Largest accepted maze width or height
	PlayInterval     time.Duration // Default delay between animated steps
	JWTSecret        string        // Secret key for JWT signing
	JWTIssuer        string        // Issuer claim for JWTs
}

// Envs holds the configuration once Load has run.
var Envs Config

// Load reads the configuration from the environment, after loading a .env
// file if one is present, and stores it in Envs.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("%s[WARN]%s .env file not found or could not be loaded: %v", LogWarnColor, LogColorReset, err)
	}

	r := &reader{}
	c := Config{
		HostIP:           r.getWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:         r.intWithDefault("REST_PORT", 8080),
		GinMode:          r.getWithDefault("GIN_MODE", "release"),
		DBHost:           r.must("DB_HOST"),
		DBPort:           r.mustInt("DB_PORT"),
		DBUser:           r.must("DB_USER"),
		DBPassword:       r.must("DB_PASS"),
		DBName:           r.must("DB_NAME"),
		RedisAddr:        r.getWithDefault("REDIS_ADDR", ""),
		RedisPassword:    r.getWithDefault("REDIS_PASSWORD", ""),
		RedisDB:          r.intWithDefault("REDIS_DB", 0),
		KeyPrefix:        r.getWithDefault("KEY_PREFIX", "mazebuilder"),
		SessionTTL:       r.durationWithDefault("SESSION_TTL", time.Hour),
		MaxMazeDimension: r.intWithDefault("MAX_MAZE_DIMENSION", 100),
		PlayInterval:     r.durationWithDefault("PLAY_INTERVAL", 100*time.Millisecond),
		JWTSecret:        r.must("JWT_SECRET"),
		JWTIssuer:        r.must("JWT_ISSUER"),
	}
	if c.MaxMazeDimension < 1 || c.MaxMazeDimension > MaxMazeDimensionLimit {
		r.fail("environment variable MAX_MAZE_DIMENSION must be between 1 and %d, got %d", MaxMazeDimensionLimit, c.MaxMazeDimension)
	}
	if r.err != nil {
		return Config{}, r.err
	}

	Envs = c
	return c, nil
}

// reader keeps the first lookup error so Load can report it once.
type reader struct {
	err error
}

func (r *reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...)
	}
}

// must retrieves the value of a required environment variable.
func (r *reader) must(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		r.fail("environment variable %s is not set", key)
	}
	return value
}

// mustInt retrieves a required environment variable as an integer.
func (r *reader) mustInt(key string) int {
	valueStr := r.must(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil && valueStr != "" {
		r.fail("environment variable %s must be an integer: %w", key, err)
	}
	return value
}

// getWithDefault retrieves the value of an environment variable or returns a default value if not set.
func (r *reader) getWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (r *reader) intWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		r.fail("environment variable %s must be an integer: %w", key, err)
	}
	return value
}

func (r *reader) durationWithDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		r.fail("environment variable %s must be a duration: %w", key, err)
	}
	return value
}
