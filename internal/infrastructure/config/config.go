package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Redis      RedisConfig
	Accounting AccountingConfig
	Matcher    MatcherConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RedisConfig holds Redis connection settings for the durable
// accounting-connection flag. When Enabled is false the flag is held in
// process memory instead.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AccountingConfig holds the simulated accounting system settings
type AccountingConfig struct {
	// FailureRate is the per-invoice failure injection probability in [0,1]
	FailureRate float64
	MinLatency  time.Duration
	MaxLatency  time.Duration
	// ConnectLatency and DisconnectLatency simulate the OAuth handshake
	ConnectLatency    time.Duration
	DisconnectLatency time.Duration
	// ItemTimeout bounds each invoice submission during a batch run
	ItemTimeout time.Duration
}

// MatcherConfig holds the document matcher settings
type MatcherConfig struct {
	// Score bands: [HighMin, HighMax] when a booking code is extracted,
	// [LowMin, LowMax] otherwise
	HighMin int
	HighMax int
	LowMin  int
	LowMax  int
	// OCRDelay is the artificial delay applied per matched upload
	OCRDelay time.Duration
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with FREIGHT_ prefix (e.g. FREIGHT_APP_PORT)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FREIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Accounting: AccountingConfig{
			FailureRate:       v.GetFloat64("accounting.failure_rate"),
			MinLatency:        v.GetDuration("accounting.min_latency"),
			MaxLatency:        v.GetDuration("accounting.max_latency"),
			ConnectLatency:    v.GetDuration("accounting.connect_latency"),
			DisconnectLatency: v.GetDuration("accounting.disconnect_latency"),
			ItemTimeout:       v.GetDuration("accounting.item_timeout"),
		},
		Matcher: MatcherConfig{
			HighMin:  v.GetInt("matcher.high_min"),
			HighMax:  v.GetInt("matcher.high_max"),
			LowMin:   v.GetInt("matcher.low_min"),
			LowMax:   v.GetInt("matcher.low_max"),
			OCRDelay: v.GetDuration("matcher.ocr_delay"),
		},
	}

	applyDefaults(cfg, v)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config, v *viper.Viper) {
	if cfg.App.Name == "" {
		cfg.App.Name = "freightops-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	// 0 is a legitimate failure rate, so only default when the key is absent
	if !v.IsSet("accounting.failure_rate") {
		cfg.Accounting.FailureRate = 0.08
	}
	if cfg.Accounting.MinLatency == 0 {
		cfg.Accounting.MinLatency = 150 * time.Millisecond
	}
	if cfg.Accounting.MaxLatency == 0 {
		cfg.Accounting.MaxLatency = 600 * time.Millisecond
	}
	if cfg.Accounting.ConnectLatency == 0 {
		cfg.Accounting.ConnectLatency = 800 * time.Millisecond
	}
	if cfg.Accounting.DisconnectLatency == 0 {
		cfg.Accounting.DisconnectLatency = 200 * time.Millisecond
	}
	if cfg.Accounting.ItemTimeout == 0 {
		cfg.Accounting.ItemTimeout = 5 * time.Second
	}
	if cfg.Matcher.HighMin == 0 {
		cfg.Matcher.HighMin = 92
	}
	if cfg.Matcher.HighMax == 0 {
		cfg.Matcher.HighMax = 99
	}
	if cfg.Matcher.LowMin == 0 {
		cfg.Matcher.LowMin = 45
	}
	if cfg.Matcher.LowMax == 0 {
		cfg.Matcher.LowMax = 79
	}
	if cfg.Matcher.OCRDelay == 0 && !v.IsSet("matcher.ocr_delay") {
		cfg.Matcher.OCRDelay = 400 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Accounting.FailureRate < 0 || c.Accounting.FailureRate > 1 {
		return fmt.Errorf("accounting.failure_rate must be between 0 and 1, got %f", c.Accounting.FailureRate)
	}
	if c.Accounting.MaxLatency < c.Accounting.MinLatency {
		return fmt.Errorf("accounting.max_latency (%s) cannot be less than accounting.min_latency (%s)",
			c.Accounting.MaxLatency, c.Accounting.MinLatency)
	}
	if c.Matcher.HighMax < c.Matcher.HighMin {
		return fmt.Errorf("matcher.high_max (%d) cannot be less than matcher.high_min (%d)",
			c.Matcher.HighMax, c.Matcher.HighMin)
	}
	if c.Matcher.LowMax < c.Matcher.LowMin {
		return fmt.Errorf("matcher.low_max (%d) cannot be less than matcher.low_min (%d)",
			c.Matcher.LowMax, c.Matcher.LowMin)
	}
	for name, band := range map[string][2]int{
		"high": {c.Matcher.HighMin, c.Matcher.HighMax},
		"low":  {c.Matcher.LowMin, c.Matcher.LowMax},
	} {
		if band[0] < 0 || band[1] > 100 {
			return fmt.Errorf("matcher %s band [%d, %d] must lie within [0, 100]", name, band[0], band[1])
		}
	}
	return nil
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
