package config

import (
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"

	// Environment variable overrides, highest precedence.
	EnvPort          = "PORT"
	EnvSessionSecret = "SESSION_SECRET"
	EnvMongoURI      = "MONGO_URI"
	EnvDatabaseDSN   = "DATABASE_DSN"
)

// Duration wraps time.Duration so YAML values like "10s" parse cleanly.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string into the wrapped value.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName  string        `yaml:"service_name" validate:"required"`
	LogLevel     string        `yaml:"loglevel" validate:"required"`
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port" validate:"required"`
	TemplatesDir string        `yaml:"templates_dir" validate:"required"`
	PublicDir    string        `yaml:"public_dir" validate:"required"`
	Session      SessionConfig `yaml:"session" validate:"required"`
	Uploads      UploadsConfig `yaml:"uploads" validate:"required"`
	Database     Database      `yaml:"database" validate:"required"`
}

// SessionConfig holds the server-side session store configuration.
type SessionConfig struct {
	Secret string        `yaml:"secret" validate:"required"`
	TTL    Duration `yaml:"ttl"`
}

// UploadsConfig holds the upload intake configuration.
type UploadsConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	MaxBytes int64  `yaml:"max_bytes"`
}

type Database struct {
	Type string `yaml:"type" validate:"required"`
	// For MongoDB
	MongoDB MongoDBConfig `yaml:"mongodb_config" validate:"omitempty"`
	// For PostgreSQL
	Postgres PostgresConfig `yaml:"postgres_config" validate:"omitempty"`
}

// MongoDBConfig holds the MongoDB connection configuration.
type MongoDBConfig struct {
	DSN              string             `yaml:"dsn"`
	DatabaseName     string             `yaml:"database_name"`
	Timeout          Duration           `yaml:"timeout"`
	Options          MongoServerOptions `yaml:"mongo_server_options"`
	ValidCollections []string           `yaml:"valid_collections"`
	ValidFields      []string           `yaml:"valid_fields"`
}

type PostgresConfig struct {
	DSN     string                `yaml:"dsn"`
	Options PostgresServerOptions `yaml:"postgres_server_options"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// It unmarshals the YAML content into a ServiceConfig struct, applies environment
// variable overrides and returns it.
// If there is an error reading the file or unmarshaling the content, it returns an error.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	config.applyEnvOverrides()

	return config, nil
}

// applyEnvOverrides lets the environment win over the YAML file for the
// settings that differ per deployment.
func (c *ServiceConfig) applyEnvOverrides() {
	if port := os.Getenv(EnvPort); port != "" {
		c.Port = port
	}
	if secret := os.Getenv(EnvSessionSecret); secret != "" {
		c.Session.Secret = secret
	}
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		c.Database.MongoDB.DSN = uri
	}
	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" {
		c.Database.Postgres.DSN = dsn
	}
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
