// Package config carga la configuración del servicio: defaults embebidos,
// archivo YAML opcional y overrides por variables de entorno.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Log         LogConfig         `yaml:"log"`
	Storage     StorageConfig     `yaml:"storage"`
	Actors      ActorsConfig      `yaml:"actors"`
	Degradation DegradationConfig `yaml:"degradation"`
	Partition   PartitionConfig   `yaml:"partition"`
	Auth        AuthConfig        `yaml:"auth"`
}

type HTTPConfig struct {
	Port              string        `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlite_path"`
}

type ActorsConfig struct {
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	MailboxSize   int           `yaml:"mailbox_size"`
	InitTimeout   time.Duration `yaml:"init_timeout"`
}

type DegradationConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"` // colos degradados en paralelo
}

type PartitionConfig struct {
	Header  string `yaml:"header"`
	Default string `yaml:"default"`
}

type AuthConfig struct {
	Enabled       bool          `yaml:"enabled"`
	GitHubBaseURL string        `yaml:"github_base_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Default devuelve solo los defaults embebidos.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load aplica defaults, luego el archivo (si path != "") y por último el env.
// Con path vacío se usa CONFIG_FILE si está seteado.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// solo pisa los campos presentes en el archivo
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &c.HTTP.Port)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("APP_NAME", &c.Log.App)
	str("STORAGE_DRIVER", &c.Storage.Driver)
	str("SQLITE_PATH", &c.Storage.SQLitePath)
	str("DEFAULT_COLO", &c.Partition.Default)
	str("COLO_HEADER", &c.Partition.Header)
	str("GITHUB_API_URL", &c.Auth.GitHubBaseURL)

	// con DB_DSN y sin driver explícito se usa Postgres
	if v, ok := lookup("DB_DSN"); ok && strings.TrimSpace(v) != "" {
		c.Storage.DSN = strings.TrimSpace(v)
		if d, ok := lookup("STORAGE_DRIVER"); !ok || strings.TrimSpace(d) == "" {
			c.Storage.Driver = DriverPostgres
		}
	}

	for key, dst := range map[string]*time.Duration{
		"DEGRADE_INTERVAL":   &c.Degradation.Interval,
		"ACTOR_IDLE_TIMEOUT": &c.Actors.IdleTimeout,
	} {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := lookup("AUTH_ENABLED"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("AUTH_ENABLED: %w", err)
		}
		c.Auth.Enabled = b
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []error

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for sqlite"))
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	if c.HTTP.Port == "" {
		errs = append(errs, errors.New("http.port is required"))
	}
	if c.Actors.IdleTimeout <= 0 || c.Actors.SweepInterval <= 0 {
		errs = append(errs, errors.New("actors.idle_timeout and actors.sweep_interval must be positive"))
	}
	if c.Actors.MailboxSize < 1 {
		errs = append(errs, errors.New("actors.mailbox_size must be >= 1"))
	}
	if c.Degradation.Enabled && c.Degradation.Interval <= 0 {
		errs = append(errs, errors.New("degradation.interval must be positive"))
	}
	if c.Degradation.Concurrency < 1 {
		c.Degradation.Concurrency = 1
	}

	c.Partition.Default = strings.ToUpper(strings.TrimSpace(c.Partition.Default))
	if c.Partition.Default == "" {
		errs = append(errs, errors.New("partition.default is required"))
	}

	return errors.Join(errs...)
}

// Addr devuelve ":<port>" para http.Server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.HTTP.Port, ":")
}
