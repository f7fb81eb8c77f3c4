package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	BackendURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret         string
	AdminSessionTTL   time.Duration
	VisitorSessionTTL time.Duration
	RequestTimeout    time.Duration
	CatalogCacheTTL   time.Duration

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel     string
	LogPretty    bool
	SecureCookie bool
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	p := parser{getenv: getenv}

	port := p.str("PORT", ":8080")
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		port = ":" + port
	}

	cfg := Config{
		Port:              port,
		BackendURL:        strings.TrimRight(p.str("BACKEND_URL", ""), "/"),
		RedisAddr:         p.str("REDIS_ADDR", ""),
		RedisPassword:     p.str("REDIS_PASSWORD", ""),
		RedisDB:           p.integer("REDIS_DB", 0),
		JWTSecret:         p.str("JWT_SECRET", ""),
		AdminSessionTTL:   p.dur("ADMIN_SESSION_TTL", 12*time.Hour),
		VisitorSessionTTL: p.dur("VISITOR_SESSION_TTL", 30*24*time.Hour),
		RequestTimeout:    p.dur("REQUEST_TIMEOUT", 10*time.Second),
		CatalogCacheTTL:   p.dur("CATALOG_CACHE_TTL", 5*time.Minute),
		AllowedOrigins:    p.list("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:      p.number("RATE_LIMIT_RPS", 1),
		RateLimitBurst:    p.integer("RATE_LIMIT_BURST", 5),
		LogLevel:          p.str("LOG_LEVEL", "info"),
		LogPretty:         p.flag("LOG_PRETTY", false),
		SecureCookie:      p.flag("SECURE_COOKIE", false),
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings serve can't run without.
func (c Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) number(key string, def float64) float64 {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (p *parser) flag(key string, def bool) bool {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (p *parser) dur(key string, def time.Duration) time.Duration {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (p *parser) list(key string, def []string) []string {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
