// Package config carga la configuración del servicio: YAML opcional y
// luego variables de entorno, que siempre ganan.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"pig-farm/internal/domain/breeding"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	App  string `yaml:"app" validate:"required"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`

	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`

	Log      LogConfig      `yaml:"log"`
	DB       DBConfig       `yaml:"db"`
	IAM      UpstreamConfig `yaml:"iam"`
	Plans    PlansConfig    `yaml:"plans"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Breeding breeding.Rules `yaml:"breeding"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// DBConfig: driver vacío => repos en memoria.
type DBConfig struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=postgres sqlite"`
	DSN    string `yaml:"dsn" validate:"required_with=Driver"`
}

type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// PlansConfig: con BaseURL se consulta el servicio remoto; si no, se usa
// la matriz fija con Tier para todos los usuarios.
type PlansConfig struct {
	UpstreamConfig `yaml:",inline"`
	Tier           string `yaml:"tier" validate:"oneof=free standard advanced"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true,omitempty,startswith=/"`
}

func Default() Config {
	return Config{
		App:             "pig-farm",
		Port:            8080,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Log:             LogConfig{Level: "info", Format: "text"},
		Plans:           PlansConfig{Tier: "advanced"},
		Metrics:         MetricsConfig{Enabled: true, Path: "/metrics"},
		Breeding:        breeding.DefaultRules(),
	}
}

// Load arma la config: defaults, archivo (si path != ""), env, validación.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q", ErrInvalidConfig, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Breeding.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("APP_NAME", &cfg.App)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("DB_DRIVER", &cfg.DB.Driver)
	str("DB_DSN", &cfg.DB.DSN)
	str("IAM_BASE_URL", &cfg.IAM.BaseURL)
	str("IAM_API_KEY", &cfg.IAM.APIKey)
	str("PLANS_BASE_URL", &cfg.Plans.BaseURL)
	str("PLANS_API_KEY", &cfg.Plans.APIKey)
	str("PLAN_TIER", &cfg.Plans.Tier)

	// compat: DB_DSN sin driver era postgres
	if cfg.DB.DSN != "" && cfg.DB.Driver == "" {
		cfg.DB.Driver = "postgres"
	}

	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalidConfig, v)
		}
		cfg.Port = p
	}
	if v, ok := lookup("METRICS_ENABLED"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: METRICS_ENABLED=%q", ErrInvalidConfig, v)
		}
		cfg.Metrics.Enabled = b
	}
	return nil
}
