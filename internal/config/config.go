package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the compliance service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Clients  ClientsConfig  `yaml:"clients"`
	Policies PoliciesConfig `yaml:"policies"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// ClientsConfig groups integrations with the rentals platform core.
type ClientsConfig struct {
	Rentals RentalsClientConfig `yaml:"rentals"`
}

// RentalsClientConfig configures access to the platform core booking and
// vehicle APIs.
type RentalsClientConfig struct {
	BaseURL      string        `yaml:"baseURL"`
	VehiclePath  string        `yaml:"vehiclePath"`
	BookingsPath string        `yaml:"bookingsPath"`
	Timeout      time.Duration `yaml:"timeout"`
}

// PoliciesConfig points at the versionable usage-policy table. Threshold
// changes alter historical compliance interpretations, so they go through
// this file rather than code.
type PoliciesConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig controls the SQLite snapshot audit store.
type StorageConfig struct {
	Path         string `yaml:"path"`
	HistoryLimit int    `yaml:"historyLimit"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// CacheConfig controls Redis-backed caching of intelligence snapshots.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Addr            string        `yaml:"addr"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	DB              int           `yaml:"db"`
	DialTimeout     time.Duration `yaml:"dialTimeout"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	MaxRetries      int           `yaml:"maxRetries"`
	TLS             bool          `yaml:"tls"`
	IntelligenceTTL time.Duration `yaml:"intelligenceTTL"`
}

// Load initialises Config from a YAML file and optional environment
// overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("DRIVORA_COMPLIANCE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8086",
			MetricsAddress:  ":2112",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    15 * time.Second,
			GracefulTimeout: 10 * time.Second,
		},
		Clients: ClientsConfig{
			Rentals: RentalsClientConfig{
				VehiclePath:  "/api/v1/vehicles",
				BookingsPath: "/api/v1/vehicles/%s/bookings",
				Timeout:      5 * time.Second,
			},
		},
		Policies: PoliciesConfig{Path: "configs/policies/default.yaml"},
		Storage: StorageConfig{
			Path:         "data/compliance.db",
			HistoryLimit: 50,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Cache: CacheConfig{
			Enabled:         false,
			IntelligenceTTL: 5 * time.Minute,
			DialTimeout:     2 * time.Second,
			ReadTimeout:     500 * time.Millisecond,
			WriteTimeout:    500 * time.Millisecond,
			MaxRetries:      2,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DRIVORA_COMPLIANCE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("DRIVORA_RENTALS_BASE_URL"); v != "" {
		cfg.Clients.Rentals.BaseURL = v
	}
	if v := os.Getenv("DRIVORA_RENTALS_VEHICLE_PATH"); v != "" {
		cfg.Clients.Rentals.VehiclePath = v
	}
	if v := os.Getenv("DRIVORA_RENTALS_BOOKINGS_PATH"); v != "" {
		cfg.Clients.Rentals.BookingsPath = v
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_POLICIES_PATH"); v != "" {
		cfg.Policies.Path = v
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_HISTORY_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.Storage.HistoryLimit = limit
		}
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_CACHE_USERNAME"); v != "" {
		cfg.Cache.Username = v
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_CACHE_TLS"); strings.EqualFold(v, "true") || strings.EqualFold(v, "1") {
		cfg.Cache.TLS = true
	}
	if v := os.Getenv("DRIVORA_COMPLIANCE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.IntelligenceTTL = d
		}
	}
}
