package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort              string   `env:"SERVER_PORT" env-default:"8080"`
	ServerReadHeaderTimeout Duration `env:"SERVER_READ_HEADER_TIMEOUT" env-default:"5s"`
	ServerWriteTimeout      Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	ServerIdleTimeout       Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
	RequestTimeout          Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`

	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" env-default:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" env-default:"2"`

	JWTAccessSecret  string   `env:"JWT_ACCESS_SECRET" env-required:"true"`
	JWTRefreshSecret string   `env:"JWT_REFRESH_SECRET" env-required:"true"`
	JWTAccessTTL     Duration `env:"JWT_ACCESS_EXPIRATION" env-default:"15m"`
	JWTRefreshTTL    Duration `env:"JWT_REFRESH_EXPIRATION" env-default:"7d"`
	RefreshDigestKey string   `env:"REFRESH_DIGEST_KEY"`
	BcryptCost       int      `env:"BCRYPT_COST" env-default:"10"`

	CORSOrigins      []string `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
	RateLimitRPM     int      `env:"RATE_LIMIT_RPM" env-default:"100"`
	AuthRateLimitRPM int      `env:"AUTH_RATE_LIMIT_RPM" env-default:"10"`
	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are believed.
	TrustedProxies   []string `env:"TRUSTED_PROXIES" env-separator:","`

	LogLevel       string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat      string `env:"LOG_FORMAT" env-default:"pretty"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" env-default:"true"`
}

// Load reads an optional .env file into the process environment and then
// decodes the environment into Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	c.JWTAccessSecret = strings.TrimSpace(c.JWTAccessSecret)
	c.JWTRefreshSecret = strings.TrimSpace(c.JWTRefreshSecret)
	c.RefreshDigestKey = strings.TrimSpace(c.RefreshDigestKey)
	if c.RefreshDigestKey == "" {
		c.RefreshDigestKey = c.JWTRefreshSecret
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, origin := range c.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORSOrigins = origins

	proxies := make([]string, 0, len(c.TrustedProxies))
	for _, proxy := range c.TrustedProxies {
		if trimmed := strings.TrimSpace(proxy); trimmed != "" {
			proxies = append(proxies, trimmed)
		}
	}
	c.TrustedProxies = proxies
}

// TrustedProxyPrefixes parses TRUSTED_PROXIES. Bare addresses become
// single-host prefixes.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func (c *Config) Validate() error {
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	if c.JWTRefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	if c.JWTAccessTTL.Std() <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION must be positive")
	}

	if c.JWTRefreshTTL.Std() <= 0 {
		return fmt.Errorf("JWT_REFRESH_EXPIRATION must be positive")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout.Std() <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS out of range")
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}

	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

// Duration is a time.Duration that also understands a trailing "d" for days,
// e.g. "7d" or "1d12h".
type Duration time.Duration

func (d *Duration) SetValue(raw string) error {
	parsed, err := ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty duration")
	}

	var days time.Duration
	if idx := strings.Index(raw, "d"); idx >= 0 {
		var n int
		if _, err := fmt.Sscanf(raw[:idx], "%d", &n); err != nil || fmt.Sprint(n) != raw[:idx] {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		days = time.Duration(n) * 24 * time.Hour
		raw = raw[idx+1:]
		if raw == "" {
			return days, nil
		}
	}

	rest, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	return days + rest, nil
}
