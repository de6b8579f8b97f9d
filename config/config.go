package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"restaurant-pos/models"

	"github.com/glebarez/sqlite"
	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds all configuration for the point-of-sale application
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Billing  BillingConfig  `yaml:"billing"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite or postgres
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type BillingConfig struct {
	TaxRate string `yaml:"tax_rate"`

	Rate decimal.Decimal `yaml:"-"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	SessionTTL    string `yaml:"session_ttl"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`

	TTL time.Duration `yaml:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"` // stderr, stdout or a file path
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "restaurant_pos.db",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Name:     "restaurant_pos",
			LogLevel: "warn",
		},
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
		Billing: BillingConfig{TaxRate: "0.08"},
		Auth: AuthConfig{
			JWTSecret:     "restaurant_pos_dev_secret",
			SessionTTL:    "12h",
			AdminUsername: "admin",
			AdminPassword: "admin123",
		},
		Log: LogConfig{Level: "info", Output: "stderr"},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the optional YAML file at path, applies env overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.LogLevel = getEnv("DB_LOG_LEVEL", c.Database.LogLevel)
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT value: %w", err)
		}
		c.Database.Port = port
	}

	c.Server.Addr = getEnv("POS_ADDR", c.Server.Addr)
	c.Billing.TaxRate = getEnv("TAX_RATE", c.Billing.TaxRate)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.SessionTTL = getEnv("SESSION_TTL", c.Auth.SessionTTL)
	c.Auth.AdminUsername = getEnv("ADMIN_USERNAME", c.Auth.AdminUsername)
	c.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", c.Auth.AdminPassword)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Output = getEnv("LOG_OUTPUT", c.Log.Output)
	return nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}

	rate, err := decimal.NewFromString(c.Billing.TaxRate)
	if err != nil {
		return fmt.Errorf("invalid tax rate %q: %w", c.Billing.TaxRate, err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be in [0, 1): %s", rate)
	}
	c.Billing.Rate = rate

	ttl, err := time.ParseDuration(c.Auth.SessionTTL)
	if err != nil {
		return fmt.Errorf("invalid session ttl %q: %w", c.Auth.SessionTTL, err)
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	c.Auth.TTL = ttl

	if c.Auth.JWTSecret == "" {
		return errors.New("jwt secret must not be empty")
	}
	return nil
}

// PostgresDSN returns a key/value connection string for the postgres driver
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// SQLiteDSN returns the database path with foreign keys and a busy timeout enabled
func (d DatabaseConfig) SQLiteDSN() string {
	sep := "?"
	if strings.Contains(d.Path, "?") {
		sep = "&"
	}
	return d.Path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func gormLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// OpenDB connects to the configured database and migrates all models
func OpenDB(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		dialector = sqlite.Open(cfg.SQLiteDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
