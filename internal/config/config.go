// Package config provides functionality for managing configuration options
// for the application using command-line flags, a config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMongo    = "mongo"
)

var storageBackends = []string{StorageMemory, StorageFile, StoragePostgres, StorageRedis, StorageMongo}

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address" yaml:"address" env:"SERVER_ADDRESS"`
	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert" yaml:"tls_cert" env:"TLS_CERT"`
	TLSKey  string `json:"tls_key" yaml:"tls_key" env:"TLS_KEY"`

	// Storage selects the persistence backend.
	Storage string `json:"storage" yaml:"storage" env:"STORAGE"`
	// StateFile is the document used by the file backend.
	StateFile string `json:"state_file" yaml:"state_file" env:"STATE_FILE"`
	// DatabaseDSN holds the database connection string for the postgres backend.
	DatabaseDSN   string `json:"database_dsn" yaml:"database_dsn" env:"DATABASE_DSN"`
	RedisAddr     string `json:"redis_addr" yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `json:"redis_password" yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisPrefix   string `json:"redis_prefix" yaml:"redis_prefix" env:"REDIS_PREFIX"`
	MongoURI      string `json:"mongo_uri" yaml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase string `json:"mongo_database" yaml:"mongo_database" env:"MONGO_DATABASE"`
	MongoColl     string `json:"mongo_collection" yaml:"mongo_collection" env:"MONGO_COLLECTION"`

	// JWTSecret signs session tokens.
	JWTSecret     string `json:"jwt_secret" yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTLHours int    `json:"token_ttl_hours" yaml:"token_ttl_hours" env:"TOKEN_TTL_HOURS"`
	// HashPasswords stores passwords as bcrypt hashes.
	HashPasswords bool   `json:"hash_passwords" yaml:"hash_passwords" env:"HASH_PASSWORDS"`
	LogLevel      string `json:"log_level" yaml:"log_level" env:"LOG_LEVEL"`

	// Snapshot settings of the postgres backend.
	SnapshotIntervalMinutes int `json:"snapshot_interval_minutes" yaml:"snapshot_interval_minutes" env:"SNAPSHOT_INTERVAL_MINUTES"`
	SnapshotRetentionHours  int `json:"snapshot_retention_hours" yaml:"snapshot_retention_hours" env:"SNAPSHOT_RETENTION_HOURS"`

	// Config is the path to the config file.
	Config string `json:"-" yaml:"-" env:"CONFIG"`
}

// Load builds the configuration from args, the config file and the
// environment, in that order of increasing precedence. A .env file in the
// working directory, if present, is loaded into the environment first.
func Load(args []string) (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error while loading .env: %w", err)
	}

	options := &Options{}
	fset := flag.NewFlagSet("cardmaster", flag.ContinueOnError)
	fset.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	fset.StringVar(&options.TLSCert, "tls-cert", "", "TLS certificate file")
	fset.StringVar(&options.TLSKey, "tls-key", "", "TLS key file")
	fset.StringVar(&options.Storage, "s", StorageFile, "storage backend: "+strings.Join(storageBackends, "|"))
	fset.StringVar(&options.StateFile, "f", "cardmaster.json", "state file of the file backend")
	fset.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fset.StringVar(&options.RedisAddr, "redis", "localhost:6379", "redis address")
	fset.StringVar(&options.RedisPassword, "redis-password", "", "redis password")
	fset.StringVar(&options.RedisPrefix, "redis-prefix", "cardmaster:", "redis key prefix")
	fset.StringVar(&options.MongoURI, "mongo", "mongodb://localhost:27017", "mongodb uri")
	fset.StringVar(&options.MongoDatabase, "mongo-db", "cardmaster", "mongodb database")
	fset.StringVar(&options.MongoColl, "mongo-collection", "kv", "mongodb collection")
	fset.StringVar(&options.JWTSecret, "jwt-secret", "change-me", "token signing secret")
	fset.IntVar(&options.TokenTTLHours, "token-ttl", 24, "token lifetime in hours")
	fset.BoolVar(&options.HashPasswords, "hash-passwords", false, "store bcrypt password hashes")
	fset.StringVar(&options.LogLevel, "l", "info", "log level")
	fset.IntVar(&options.SnapshotIntervalMinutes, "snapshot-interval", 60, "state snapshot interval in minutes")
	fset.IntVar(&options.SnapshotRetentionHours, "snapshot-retention", 7*24, "state snapshot retention in hours")
	fset.StringVar(&options.Config, "config", "config.json", "path to config file")
	fset.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if err := readFile(options.Config, options); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(options); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := options.validate(); err != nil {
		return nil, err
	}
	return options, nil
}

func (o *Options) validate() error {
	if !slices.Contains(storageBackends, o.Storage) {
		return fmt.Errorf("unknown storage backend %q", o.Storage)
	}
	positive := []struct {
		name  string
		value int
	}{
		{"token ttl", o.TokenTTLHours},
		{"snapshot interval", o.SnapshotIntervalMinutes},
		{"snapshot retention", o.SnapshotRetentionHours},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	return nil
}

// readFile merges the config file at path into options. A missing file is
// not an error.
func readFile(path string, options *Options) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, options)
	default:
		err = json.Unmarshal(data, options)
	}
	if err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

// Parse loads the configuration from the process arguments and environment.
// It exits the program on error.
func Parse() *Options {
	options, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return options
}
