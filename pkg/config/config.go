package config

import (
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	Hostname                  string        `koanf:"hostname"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
}

const configFileENV = "CONFIG_FILE"

// New loads the configuration in three layers: built-in defaults, an optional
// YAML config file (path from CONFIG_FILE, defaulting to ./config.yaml), and
// environment variable overrides named after the snake-cased field names
// (e.g. DATABASE_FILE_PATH).
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		Hostname:                  hostname,
		ServerHost:                "0.0.0.0",
		ServerPort:                3000,
	}

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = "./config.yaml"
	}

	// A missing config file is fine; a malformed one is not.
	k := koanf.New(".")
	err = k.Load(file.Provider(configFile), yaml.Parser())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithStack(err)
		}
	} else if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.DatabaseFilePath == "" {
		return nil, errors.Errorf("missing required config: DATABASE_FILE_PATH (database_file_path)")
	}

	return cfg, nil
}

// NewForTest returns a config backed by an in-memory database, suitable for
// tests that need a full Config without touching the environment.
func NewForTest() *Config {
	return &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 10 * time.Millisecond,
		DatabaseFilePath:          ":memory:",
		Hostname:                  "test",
		ServerHost:                "127.0.0.1",
	}
}

// applyEnvOverrides sets any field whose SCREAMING_SNAKE env var is present.
func applyEnvOverrides(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		envName := strings.ToUpper(toSnakeCase(t.Field(i).Name))
		raw, ok := os.LookupEnv(envName)
		if !ok || raw == "" {
			continue
		}

		field := v.Field(i)
		switch field.Interface().(type) {
		case time.Duration:
			d, err := time.ParseDuration(raw)
			if err != nil {
				return errors.Wrapf(err, "invalid value for %s", envName)
			}
			field.Set(reflect.ValueOf(d))
		case int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return errors.Wrapf(err, "invalid value for %s", envName)
			}
			field.SetInt(int64(n))
		case bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return errors.Wrapf(err, "invalid value for %s", envName)
			}
			field.SetBool(b)
		case string:
			field.SetString(raw)
		default:
			return errors.Errorf("unsupported config field type for %s", envName)
		}
	}

	return nil
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
