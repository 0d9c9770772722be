package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Audit    AuditConfig    `yaml:"audit"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
	// Timezone is the fixed deployment timezone. Every calendar-date
	// computation (dashboard windows, "today") uses this location; it is
	// deliberately neither UTC nor client-local.
	Timezone string `yaml:"timezone"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres, mssql
	DSN    string `yaml:"dsn"`

	// Pool sizing, shared by both backends.
	MaxOpenConns      int `yaml:"max_open_conns"`
	MaxIdleConns      int `yaml:"max_idle_conns"`
	IdleTimeoutSec    int `yaml:"idle_timeout_sec"`
	ConnectTimeoutSec int `yaml:"connect_timeout_sec"`

	// MSSQL holds the on-premises engine settings; used to build the DSN
	// when driver is mssql and dsn is empty.
	MSSQL MSSQLConfig `yaml:"mssql"`
}

type MSSQLConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Encrypt  bool   `yaml:"encrypt"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

type AuditConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		cfg = DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     "8080",
			Mode:     "debug",
			Timezone: "America/Los_Angeles",
		},
		Database: DatabaseConfig{
			Driver:            "sqlite",
			DSN:               "timetracker.db",
			MaxOpenConns:      20,
			MaxIdleConns:      5,
			IdleTimeoutSec:    30,
			ConnectTimeoutSec: 5,
			MSSQL: MSSQLConfig{
				Port:    1433,
				Encrypt: true,
			},
		},
		JWT: JWTConfig{
			Secret:     "timetracker-secret-key-change-in-production",
			ExpireHour: 24,
		},
		Audit: AuditConfig{
			RetentionDays: 90,
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if tz := os.Getenv("TZ"); tz != "" {
		c.Server.Timezone = tz
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if server := os.Getenv("MSSQL_SERVER"); server != "" {
		c.Database.MSSQL.Server = server
	}
	if port := os.Getenv("MSSQL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Database.MSSQL.Port = p
		}
	}
	if name := os.Getenv("MSSQL_DATABASE"); name != "" {
		c.Database.MSSQL.Database = name
	}
	if user := os.Getenv("MSSQL_USER"); user != "" {
		c.Database.MSSQL.User = user
	}
	if password := os.Getenv("MSSQL_PASSWORD"); password != "" {
		c.Database.MSSQL.Password = password
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if days := os.Getenv("AUDIT_RETENTION_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			c.Audit.RetentionDays = d
		}
	}
}

// MSSQLDSN returns the sqlserver:// connection string for the on-premises
// backend. An explicit database.dsn wins over the structured section.
func (c *DatabaseConfig) MSSQLDSN() string {
	if c.DSN != "" && c.Driver == "mssql" {
		return c.DSN
	}
	q := url.Values{}
	q.Set("database", c.MSSQL.Database)
	q.Set("encrypt", strconv.FormatBool(c.MSSQL.Encrypt))
	q.Set("TrustServerCertificate", "true")
	if c.ConnectTimeoutSec > 0 {
		q.Set("dial timeout", strconv.Itoa(c.ConnectTimeoutSec))
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(c.MSSQL.User, c.MSSQL.Password),
		Host:     fmt.Sprintf("%s:%d", c.MSSQL.Server, c.MSSQL.Port),
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
