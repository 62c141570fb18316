package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andrewpaige1/studyflash-api/validate"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env      string        `mapstructure:"app_env" validate:"oneof=development production test"`
	Port     int           `mapstructure:"port" validate:"min=1,max=65535"`
	DB       DB            `mapstructure:",squash"`
	Auth     Auth          `mapstructure:",squash"`
	CORS     []string      `mapstructure:"cors_origins"`
	Sweep    time.Duration `mapstructure:"sweep_interval" validate:"min=0"`
	Shutdown time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

type DB struct {
	Driver string `mapstructure:"db_driver" validate:"oneof=postgres sqlite"`
	URL    string `mapstructure:"db_url" validate:"required"`
}

type Auth struct {
	Secret   string        `mapstructure:"jwt_secret_key" validate:"required,min=16"`
	Issuer   string        `mapstructure:"jwt_issuer" validate:"required"`
	Audience string        `mapstructure:"jwt_audience" validate:"required"`
	TokenTTL time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

// New returns a viper instance with every key bound to its environment
// variable and defaulted, so cobra flags can be layered on top before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("port", 8080)
	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_url", "studyflash.db")
	v.SetDefault("jwt_issuer", "studyflash-api")
	v.SetDefault("jwt_audience", "studyflash")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("sweep_interval", time.Duration(0))
	v.SetDefault("shutdown_timeout", 10*time.Second)

	// AutomaticEnv only answers Get calls; Unmarshal needs explicit bindings.
	for _, key := range []string{
		"app_env", "port", "db_driver", "db_url", "jwt_secret_key", "jwt_issuer",
		"jwt_audience", "token_ttl", "cors_origins", "sweep_interval", "shutdown_timeout",
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	return v
}

// LoadDotEnv loads path into the process environment. A missing file is not
// an error: production reads the real environment.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load builds and validates a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// CORS_ORIGINS is comma separated and may carry spaces after the commas.
	cfg.CORS = splitList(strings.Join(cfg.CORS, ","))

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
