// Package config loads the service configuration from a TOML file, applies
// NOTESRV_* environment overrides and exposes the result process wide.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ServerConfig struct {
	ListenAddr      string   `toml:"listen_addr"`
	HandleCORS      bool     `toml:"handle_cors"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

type DBConfig struct {
	Driver          string   `toml:"driver"`
	DSN             string   `toml:"dsn"`
	MaxOpenConns    int      `toml:"max_open_conns"`
	MaxIdleConns    int      `toml:"max_idle_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
	MigrateOnStart  bool     `toml:"migrate_on_start"`
}

type AuthConfig struct {
	AdminUsername     string   `toml:"admin_username"`
	AdminPasswordHash string   `toml:"admin_password_hash"`
	TokenSecret       string   `toml:"token_secret"`
	TokenTTL          Duration `toml:"token_ttl"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

type ServiceConfig struct {
	Server ServerConfig `toml:"server"`
	DB     DBConfig     `toml:"db"`
	Auth   AuthConfig   `toml:"auth"`
	Log    LogConfig    `toml:"log"`
}

// Duration is a time.Duration written as a Go duration string, e.g. "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *ServiceConfig {
	return &ServiceConfig{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			AllowedOrigins:  []string{"http://localhost:3000"},
			ShutdownTimeout: Duration{15 * time.Second},
		},
		DB: DBConfig{
			Driver:          "sqlite",
			DSN:             "file:notes.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: Duration{30 * time.Minute},
			MigrateOnStart:  true,
		},
		Auth: AuthConfig{
			AdminUsername: "admin",
			TokenTTL:      Duration{12 * time.Hour},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var (
	cfgMu sync.RWMutex
	cfg   = Default()
)

// Config returns the active configuration.
func Config() *ServiceConfig {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg
}

func Set(c *ServiceConfig) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfg = c
}

// Load reads path on top of the defaults, applies environment overrides and
// installs the result. An empty path loads defaults and environment only.
func Load(path string) (*ServiceConfig, error) {
	c := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, c)
		if err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			log.Warn().Str("file", path).Interface("keys", undecoded).Msg("unknown config keys ignored")
		}
	}
	if err := applyEnv(c, os.LookupEnv); err != nil {
		return nil, err
	}
	Set(c)
	return c, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(c *ServiceConfig, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
		return nil
	}
	integer := func(key string, dst *int) error {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
		return nil
	}
	duration := func(key string, dst *Duration) error {
		if v, ok := lookup(key); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		return nil
	}

	str("NOTESRV_LISTEN_ADDR", &c.Server.ListenAddr)
	if v, ok := lookup("NOTESRV_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	str("NOTESRV_DB_DRIVER", &c.DB.Driver)
	str("NOTESRV_DB_DSN", &c.DB.DSN)
	str("NOTESRV_ADMIN_USERNAME", &c.Auth.AdminUsername)
	str("NOTESRV_ADMIN_PASSWORD_HASH", &c.Auth.AdminPasswordHash)
	str("NOTESRV_TOKEN_SECRET", &c.Auth.TokenSecret)
	str("NOTESRV_LOG_LEVEL", &c.Log.Level)

	for _, err := range []error{
		boolean("NOTESRV_HANDLE_CORS", &c.Server.HandleCORS),
		boolean("NOTESRV_DB_MIGRATE_ON_START", &c.DB.MigrateOnStart),
		boolean("NOTESRV_LOG_PRETTY", &c.Log.Pretty),
		integer("NOTESRV_DB_MAX_OPEN_CONNS", &c.DB.MaxOpenConns),
		integer("NOTESRV_DB_MAX_IDLE_CONNS", &c.DB.MaxIdleConns),
		duration("NOTESRV_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout),
		duration("NOTESRV_TOKEN_TTL", &c.Auth.TokenTTL),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SetupLogger configures the global zerolog logger.
func SetupLogger(c LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if c.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return nil
}
