// Package config loads the dashboard configuration from a YAML file, a local
// .env file and MISSION_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/mission-control/internal/api"
	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/metrics"
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/Veraticus/mission-control/internal/scheduler"
	"github.com/Veraticus/mission-control/internal/sheets"
	"github.com/Veraticus/mission-control/internal/storage"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MISSION"

// Config is the complete application configuration.
type Config struct {
	ServiceAccount     sheets.ServiceAccount `mapstructure:"service_account"`
	ServiceAccountFile string                `mapstructure:"service_account_file"`
	Logging            Logging               `mapstructure:"logging"`
	Dashboard          Dashboard             `mapstructure:"dashboard"`
	Charts             render.ChartColumns   `mapstructure:"charts"`
	Metrics            Metrics               `mapstructure:"metrics"`
	Server             api.Config            `mapstructure:"server"`
	Scheduler          scheduler.Config      `mapstructure:"scheduler"`
	History            storage.Config        `mapstructure:"history"`
	Sheets             sheets.Config         `mapstructure:"sheets"`
	Cache              Cache                 `mapstructure:"cache"`
}

// Logging selects the slog level and handler.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Dashboard holds presentation settings.
type Dashboard struct {
	Title         string `mapstructure:"title"`
	CountdownPath string `mapstructure:"countdown_path"`
}

// Metrics maps each metric to its Numbers column header.
type Metrics struct {
	Columns Columns `mapstructure:"columns"`
}

// Columns names the Numbers headers. Viper lowercases keys, so the metric
// names cannot be used as keys directly.
type Columns struct {
	ISVScore     string `mapstructure:"isv_score"`
	ISVGoal      string `mapstructure:"isv_goal"`
	MayapurScore string `mapstructure:"mayapur_score"`
}

// ColumnMap converts the headers to a metrics.ColumnMap.
func (c Columns) ColumnMap() metrics.ColumnMap {
	return metrics.ColumnMap{
		model.MetricISVScore:     c.ISVScore,
		model.MetricISVGoal:      c.ISVGoal,
		model.MetricMayapurScore: c.MayapurScore,
	}
}

// Cache controls the range cache.
type Cache struct {
	TTL     time.Duration `mapstructure:"ttl"`
	Enabled bool          `mapstructure:"enabled"`
}

// SetDefaults registers a default for every key. Keys without a default are
// invisible to environment overrides during Unmarshal.
func SetDefaults(v *viper.Viper) {
	sc := sheets.DefaultConfig()
	srv := api.DefaultConfig()
	cols := metrics.DefaultColumns()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.numbers_range", sc.NumbersRange)
	v.SetDefault("sheets.charts_range", sc.ChartsRange)
	v.SetDefault("sheets.endpoint", "")
	v.SetDefault("sheets.request_timeout", sc.RequestTimeout)
	v.SetDefault("sheets.retry_attempts", sc.RetryAttempts)
	v.SetDefault("sheets.retry_delay", sc.RetryDelay)

	v.SetDefault("service_account_file", "")
	v.SetDefault("service_account.type", "")
	v.SetDefault("service_account.project_id", "")
	v.SetDefault("service_account.private_key_id", "")
	v.SetDefault("service_account.private_key", "")
	v.SetDefault("service_account.client_email", "")
	v.SetDefault("service_account.client_id", "")
	v.SetDefault("service_account.auth_uri", "")
	v.SetDefault("service_account.token_uri", "")
	v.SetDefault("service_account.auth_provider_x509_cert_url", "")
	v.SetDefault("service_account.client_x509_cert_url", "")
	v.SetDefault("service_account.universe_domain", sc.ServiceAccount.UniverseDomain)

	v.SetDefault("dashboard.title", render.DefaultTitle)
	v.SetDefault("dashboard.countdown_path", "assets/countdown.html")

	v.SetDefault("metrics.columns.isv_score", cols[model.MetricISVScore])
	v.SetDefault("metrics.columns.isv_goal", cols[model.MetricISVGoal])
	v.SetDefault("metrics.columns.mayapur_score", cols[model.MetricMayapurScore])

	v.SetDefault("charts.category", render.DefaultCategoryColumn)
	v.SetDefault("charts.value", render.DefaultValueColumn)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "60s")

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.driver", storage.DriverSQLite)
	v.SetDefault("history.dsn", "~/.local/share/mission/history.db")

	v.SetDefault("server.host", srv.Host)
	v.SetDefault("server.port", srv.Port)
	v.SetDefault("server.shutdown_timeout", srv.ShutdownTimeout)
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.cert_dir", "~/.local/share/mission/certs")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.cron", scheduler.DefaultCron)
	v.SetDefault("scheduler.run_timeout", scheduler.DefaultRunTimeout)
}

// Read prepares v: .env loading, file search, environment binding and
// defaults. A missing config file is not an error.
func Read(v *viper.Viper, cfgFile string) error {
	if err := LoadDotEnv(".env"); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".config", "mission"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	return nil
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load decodes v into a Config, applies GOOGLE_SHEETS_* fallbacks and the
// optional service-account key file, and expands paths.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)))
	if err != nil {
		return nil, &common.ConfigurationError{Err: fmt.Errorf("failed to decode config: %w", err)}
	}

	if cfg.ServiceAccountFile != "" {
		sa, err := sheets.ReadServiceAccountFile(ExpandPath(cfg.ServiceAccountFile), cfg.ServiceAccount)
		if err != nil {
			return nil, err
		}
		cfg.ServiceAccount = sa
	}
	cfg.Sheets.ServiceAccount = cfg.ServiceAccount
	cfg.Sheets.LoadFromEnv()

	cfg.Dashboard.CountdownPath = ExpandPath(cfg.Dashboard.CountdownPath)
	cfg.Server.TLS.CertDir = ExpandPath(cfg.Server.TLS.CertDir)
	if cfg.History.Driver == "" || cfg.History.Driver == storage.DriverSQLite {
		cfg.History.DSN = ExpandPath(cfg.History.DSN)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command depends on. Sheets credentials
// are validated when the reader is created.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return &common.ConfigurationError{Section: "logging", Err: err}
	}
	if err := c.Metrics.Columns.ColumnMap().Validate(); err != nil {
		return &common.ConfigurationError{Section: "metrics", Err: err}
	}

	var missing []string
	if strings.TrimSpace(c.Charts.Category) == "" {
		missing = append(missing, "charts.category")
	}
	if strings.TrimSpace(c.Charts.Value) == "" {
		missing = append(missing, "charts.value")
	}
	if c.History.Enabled && strings.TrimSpace(c.History.DSN) == "" {
		missing = append(missing, "history.dsn")
	}
	if len(missing) > 0 {
		return &common.ConfigurationError{Section: "config", Missing: missing}
	}

	if c.Cache.TTL < 0 {
		return &common.ConfigurationError{Section: "cache", Err: errors.New("ttl cannot be negative")}
	}
	return nil
}

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
