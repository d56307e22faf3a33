package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TRANSIT"

// Storage backends.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// MongoConfig holds the MongoDB connection settings.
type MongoConfig struct {
	URI            string        `mapstructure:"MONGO_URI" validate:"required"`
	Database       string        `mapstructure:"MONGO_DATABASE" validate:"required"`
	ConnectTimeout time.Duration `mapstructure:"MONGO_CONNECT_TIMEOUT" validate:"gt=0"`
}

// PostgresConfig holds the PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `mapstructure:"DB_HOST" validate:"required"`
	Port     string `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// DSN returns the key/value connection string understood by the postgres driver.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// KafkaConfig holds the change-event settings. No brokers disables publishing.
// AuditGroup, when set, starts a consumer group that logs every change event.
type KafkaConfig struct {
	Brokers     []string `mapstructure:"KAFKA_BROKERS"`
	TopicPrefix string   `mapstructure:"KAFKA_TOPIC_PREFIX"`
	AuditGroup  string   `mapstructure:"KAFKA_AUDIT_GROUP"`
}

// Enabled reports whether any broker is configured.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// ServiceConfig holds all configuration for the transit service.
type ServiceConfig struct {
	Port              string        `mapstructure:"PORT" validate:"required"`
	AppEnv            string        `mapstructure:"APP_ENV" validate:"required"`
	StorageBackend    string        `mapstructure:"STORAGE_BACKEND" validate:"oneof=mongo postgres memory"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	RouteCollection   string        `mapstructure:"ROUTE_COLLECTION"`
	VehicleCollection string        `mapstructure:"VEHICLE_COLLECTION"`

	Mongo    MongoConfig    `mapstructure:",squash"`
	Postgres PostgresConfig `mapstructure:",squash"`
	Kafka    KafkaConfig    `mapstructure:",squash"`
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

var keys = []string{
	"PORT", "APP_ENV", "STORAGE_BACKEND", "REQUEST_TIMEOUT",
	"ROUTE_COLLECTION", "VEHICLE_COLLECTION",
	"MONGO_URI", "MONGO_DATABASE", "MONGO_CONNECT_TIMEOUT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"KAFKA_BROKERS", "KAFKA_TOPIC_PREFIX", "KAFKA_AUDIT_GROUP",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORAGE_BACKEND", BackendMongo)
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "transit")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "transit")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_TOPIC_PREFIX", "transit")
}

// Load reads configuration from TRANSIT_* environment variables and an
// optional .env file in the working directory. Keys in the .env file are
// written without the prefix; environment variables take precedence.
func Load() (*ServiceConfig, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit directory for the .env file.
func LoadFrom(path string) (*ServiceConfig, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Unmarshal only sees keys viper knows about.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg ServiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags and returns the first violation as a ConfigError.
func (c *ServiceConfig) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ConfigError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q validation (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return err
}

// splitList accepts both repeated values and a single comma-separated value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
