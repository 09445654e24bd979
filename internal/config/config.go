package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Data    DataConfig
	DB      DBConfig
	Models  ModelsConfig
	Cache   CacheConfig
	Log     LogConfig
	Metrics MetricsConfig
	UI      UIConfig
}

type ServerConfig struct {
	Port            int
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr is the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DataConfig struct {
	Source          string // "csv" or "postgres"
	Dir             string
	SupplierFile    string
	POFile          string
	GRFile          string
	RefreshSchedule string
	Currency        string
	LoadWorkers     int
}

// SupplierPath, POPath and GRPath resolve the flat files against Dir.
func (d DataConfig) SupplierPath() string { return filepath.Join(d.Dir, d.SupplierFile) }
func (d DataConfig) POPath() string       { return filepath.Join(d.Dir, d.POFile) }
func (d DataConfig) GRPath() string       { return filepath.Join(d.Dir, d.GRFile) }

type DBConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns a lib/pq connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type ModelsConfig struct {
	Dir              string
	FeaturesDir      string
	Format           string // lightgbm, xgboost, sklearn or linear
	LeadTimeFile     string
	EncoderFile      string
	LeadTimeFeatures string
	IsLateFile       string
	IsLateFeatures   string
	CategoricalFile  string
}

type CacheConfig struct {
	TTL    time.Duration
	Shards int
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Enabled bool
	Prefix  string
}

type UIConfig struct {
	Title      string
	FooterText string
}

// Load reads .env (if present), then an optional YAML file named by CONFIG_FILE,
// then environment variables. Keys map to env names by replacing '.' with '_':
// data.dir is DATA_DIR, db.host is DB_HOST.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("data.source", "csv")
	v.SetDefault("data.dir", "Data")
	v.SetDefault("data.supplier_file", "supplier_master.csv")
	v.SetDefault("data.po_file", "PO.csv")
	v.SetDefault("data.gr_file", "GR.csv")
	v.SetDefault("data.refresh_schedule", "@every 30s")
	v.SetDefault("data.currency", "USD")
	v.SetDefault("data.load_workers", 3)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "supplyperf")
	v.SetDefault("db.password", "supplyperf")
	v.SetDefault("db.name", "supplyperf")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 2)
	v.SetDefault("db.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("models.dir", "Models")
	v.SetDefault("models.features_dir", "features")
	v.SetDefault("models.format", "lightgbm")
	v.SetDefault("models.leadtime_file", "leadtime_model.txt")
	v.SetDefault("models.encoder_file", "lt_supplier_te_encoder.json")
	v.SetDefault("models.leadtime_features", "selected_features_LT.json")
	v.SetDefault("models.islate_file", "IsLate_model.txt")
	v.SetDefault("models.islate_features", "selected_features_IsLate.json")
	v.SetDefault("models.categorical_file", "categorical_encoders.json")

	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.shards", 16)

	v.SetDefault("log.level", "info")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.prefix", "supplyperf")

	v.SetDefault("ui.title", "Supplier Performance Dashboard")
	v.SetDefault("ui.footer_text", "Supplier Performance Analytics")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			Env:             v.GetString("server.env"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Data: DataConfig{
			Source:          strings.ToLower(v.GetString("data.source")),
			Dir:             v.GetString("data.dir"),
			SupplierFile:    v.GetString("data.supplier_file"),
			POFile:          v.GetString("data.po_file"),
			GRFile:          v.GetString("data.gr_file"),
			RefreshSchedule: v.GetString("data.refresh_schedule"),
			Currency:        v.GetString("data.currency"),
			LoadWorkers:     v.GetInt("data.load_workers"),
		},
		DB: DBConfig{
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Name:            v.GetString("db.name"),
			SSLMode:         v.GetString("db.sslmode"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		},
		Models: ModelsConfig{
			Dir:              v.GetString("models.dir"),
			FeaturesDir:      v.GetString("models.features_dir"),
			Format:           strings.ToLower(v.GetString("models.format")),
			LeadTimeFile:     v.GetString("models.leadtime_file"),
			EncoderFile:      v.GetString("models.encoder_file"),
			LeadTimeFeatures: v.GetString("models.leadtime_features"),
			IsLateFile:       v.GetString("models.islate_file"),
			IsLateFeatures:   v.GetString("models.islate_features"),
			CategoricalFile:  v.GetString("models.categorical_file"),
		},
		Cache: CacheConfig{
			TTL:    v.GetDuration("cache.ttl"),
			Shards: v.GetInt("cache.shards"),
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("log.level")),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Prefix:  v.GetString("metrics.prefix"),
		},
		UI: UIConfig{
			Title:      v.GetString("ui.title"),
			FooterText: v.GetString("ui.footer_text"),
		},
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	switch c.Data.Source {
	case "csv", "postgres":
	default:
		errs = append(errs, fmt.Errorf("data.source must be csv or postgres, got %q", c.Data.Source))
	}
	switch c.Models.Format {
	case "lightgbm", "xgboost", "sklearn", "linear":
	default:
		errs = append(errs, fmt.Errorf("models.format must be lightgbm, xgboost, sklearn or linear, got %q", c.Models.Format))
	}
	if c.Cache.Shards <= 0 || c.Cache.Shards&(c.Cache.Shards-1) != 0 {
		errs = append(errs, fmt.Errorf("cache.shards must be a power of two, got %d", c.Cache.Shards))
	}
	if c.Data.Currency == "" {
		errs = append(errs, errors.New("data.currency cannot be empty"))
	}
	return errors.Join(errs...)
}
