package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application configuration from environment.
// Both services read the same variables; each uses the subset it needs.
type Config struct {
	UserServicePort string
	TodoServicePort string
	DatabaseURL     string
	DBPoolSize      int
	RedisURL        string
	RedisPoolSize   int
	CacheTTL        int // seconds
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaPartitions int
	RabbitMQURL     string
	RegisterQueue   string
	JWTSecret       string
	JWTExpiresIn    time.Duration
	BcryptRounds    int
	LogLevel        string

	invalid []error // values present but unparseable; reported by Validate
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env).
func Get() *Config {
	cfgOnce.Do(func() {
		cfg = Load()
	})
	return cfg
}

// LoadEnvFile reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// Load builds a Config from the current environment.
func Load() *Config {
	c := &Config{
		UserServicePort: getEnv("USER_SERVICE_PORT", "3001"),
		TodoServicePort: getEnv("TODO_SERVICE_PORT", "3002"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBPoolSize:      getIntEnv("DB_POOL_SIZE", 20),
		RedisURL:        os.Getenv("REDIS_URL"),
		RedisPoolSize:   getIntEnv("REDIS_POOL_SIZE", 50),
		CacheTTL:        getIntEnv("CACHE_TTL_SEC", 30),
		KafkaBrokers:    getSliceEnv("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("KAFKA_TODO_TOPIC", "todo-events"),
		KafkaPartitions: getIntEnv("KAFKA_PARTITIONS", 8),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		RegisterQueue:   getEnv("RABBITMQ_REGISTRATION_QUEUE", "user.registered"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		BcryptRounds:    getIntEnv("BCRYPT_ROUNDS", 12),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
	var err error
	if c.JWTExpiresIn, err = getDurationEnv("JWT_EXPIRES_IN", 24*time.Hour); err != nil {
		c.invalid = append(c.invalid, err)
	}
	return c
}

// Validate reports settings that would make a service unsafe or unable to start.
func (c *Config) Validate() error {
	if err := errors.Join(c.invalid...); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.JWTExpiresIn)
	}
	if c.BcryptRounds < bcrypt.MinCost || c.BcryptRounds > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_ROUNDS must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptRounds)
	}
	return nil
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// getDurationEnv accepts Go durations ("90m"), bare seconds ("3600") and the
// unit words the Node services used ("7d", "2 weeks", "12 hours"). An
// unparseable value yields the default and an error.
func getDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal, nil
	}
	d, err := parseDuration(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

var (
	unitPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-z]+)$`)
	unitLengths = map[string]time.Duration{
		"ms": time.Millisecond, "msec": time.Millisecond, "msecs": time.Millisecond,
		"millisecond": time.Millisecond, "milliseconds": time.Millisecond,
		"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
		"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
		"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
		"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
		"y": 8766 * time.Hour, "yr": 8766 * time.Hour, "yrs": 8766 * time.Hour, "year": 8766 * time.Hour, "years": 8766 * time.Hour,
	}
)

func parseDuration(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	if m := unitPattern.FindStringSubmatch(strings.ToLower(v)); m != nil {
		if unit, ok := unitLengths[m[2]]; ok {
			n, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return time.Duration(n * float64(unit)), nil
			}
		}
	}
	return 0, fmt.Errorf("invalid duration %q", v)
}

func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
