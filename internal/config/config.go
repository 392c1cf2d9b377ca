// Package config loads pokelaunch settings from defaults, an optional YAML
// file, a .env file and the environment, in that order of precedence
// (later wins, except .env never overrides variables already set).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pokelaunch/internal/marketdata"
	"pokelaunch/internal/publish"
)

// Config is the complete runtime configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Solana    SolanaConfig    `yaml:"solana"`
	Market    MarketConfig    `yaml:"market"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Websocket WebsocketConfig `yaml:"websocket"`
	Seed      SeedConfig      `yaml:"seed"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AccessLog       bool          `yaml:"access_log"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects and connects the stores.
type StorageConfig struct {
	UseMemory     bool   `yaml:"use_memory"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickHouseDSN string `yaml:"clickhouse_dsn"` // optional, enables market history
}

// SolanaConfig configures the JSON-RPC endpoint used for mint checks.
type SolanaConfig struct {
	RPCEndpoint string        `yaml:"rpc_endpoint"` // optional
	Timeout     time.Duration `yaml:"timeout"`
}

// MarketConfig configures the market data refresher.
type MarketConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Live           bool          `yaml:"live"`
	Simulate       bool          `yaml:"simulate"`
	Interval       time.Duration `yaml:"interval"`
	Seed           int64         `yaml:"seed"`
	DexScreenerURL string        `yaml:"dexscreener_url"`
	SolscanURL     string        `yaml:"solscan_url"`
	SolscanMetaURL string        `yaml:"solscan_meta_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
}

// KafkaConfig configures leaderboard event publishing.
type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	Acks         int           `yaml:"acks"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// WebsocketConfig configures the leaderboard push hub.
type WebsocketConfig struct {
	PingInterval time.Duration `yaml:"ping_interval"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	SendBuffer   int           `yaml:"send_buffer"`
}

// SeedConfig controls demo data loading.
type SeedConfig struct {
	OnStart bool  `yaml:"on_start"`
	Tokens  int   `yaml:"tokens"`
	Seed    int64 `yaml:"seed"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 30 * time.Second,
		},
		Solana: SolanaConfig{
			Timeout: 30 * time.Second,
		},
		Market: MarketConfig{
			Enabled:        true,
			Live:           true,
			Simulate:       true,
			Interval:       time.Minute,
			DexScreenerURL: marketdata.DefaultDexScreenerURL,
			SolscanURL:     marketdata.DefaultSolscanURL,
			SolscanMetaURL: marketdata.DefaultSolscanMetaURL,
			Timeout:        marketdata.DefaultTimeout,
			MaxRetries:     marketdata.DefaultMaxRetries,
		},
		Kafka: KafkaConfig{
			Topic:        publish.DefaultTopic,
			Acks:         1,
			WriteTimeout: 10 * time.Second,
		},
		Websocket: WebsocketConfig{
			PingInterval: 30 * time.Second,
			WriteTimeout: 10 * time.Second,
			SendBuffer:   16,
		},
		Seed: SeedConfig{
			Tokens: 24,
			Seed:   1,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies POKELAUNCH_* and the conventional DSN variables.
func (c *Config) applyEnvOverrides() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	integer := func(key string, dst *int64) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("POKELAUNCH_ADDR", &c.Server.Addr)
	boolean("POKELAUNCH_ACCESS_LOG", &c.Server.AccessLog)
	boolean("POKELAUNCH_USE_MEMORY", &c.Storage.UseMemory)
	str("POSTGRES_DSN", &c.Storage.PostgresDSN)
	str("CLICKHOUSE_DSN", &c.Storage.ClickHouseDSN)
	str("SOLANA_RPC_ENDPOINT", &c.Solana.RPCEndpoint)
	boolean("POKELAUNCH_MARKET_ENABLED", &c.Market.Enabled)
	boolean("POKELAUNCH_MARKET_LIVE", &c.Market.Live)
	boolean("POKELAUNCH_SIMULATE", &c.Market.Simulate)
	duration("POKELAUNCH_REFRESH_INTERVAL", &c.Market.Interval)
	integer("POKELAUNCH_MARKET_SEED", &c.Market.Seed)
	integer("POKELAUNCH_SEED", &c.Seed.Seed)
	boolean("POKELAUNCH_SEED_ON_START", &c.Seed.OnStart)
	str("KAFKA_TOPIC", &c.Kafka.Topic)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
		c.Kafka.Enabled = len(c.Kafka.Brokers) > 0
	}
	boolean("POKELAUNCH_KAFKA_ENABLED", &c.Kafka.Enabled)

	return errors.Join(errs...)
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server addr is required"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server shutdown timeout must be positive"))
	}
	if !c.Storage.UseMemory && c.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("postgres dsn is required (set POSTGRES_DSN or use in-memory storage)"))
	}
	if c.Market.Enabled && c.Market.Interval <= 0 {
		errs = append(errs, fmt.Errorf("market interval must be positive, got %v", c.Market.Interval))
	}
	if c.Market.MaxRetries < 0 {
		errs = append(errs, errors.New("market max retries must be >= 0"))
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("kafka is enabled but no brokers are configured"))
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, errors.New("kafka topic is required"))
		}
		if c.Kafka.Acks < -1 || c.Kafka.Acks > 1 {
			errs = append(errs, fmt.Errorf("kafka acks must be -1, 0 or 1, got %d", c.Kafka.Acks))
		}
	}
	if c.Seed.Tokens < 0 {
		errs = append(errs, errors.New("seed tokens must be >= 0"))
	}
	return errors.Join(errs...)
}

// PublishConfig converts the Kafka section for the publisher.
func (c *Config) PublishConfig() publish.Config {
	return publish.Config{
		Enabled:      c.Kafka.Enabled,
		Brokers:      c.Kafka.Brokers,
		Topic:        c.Kafka.Topic,
		Acks:         c.Kafka.Acks,
		WriteTimeout: c.Kafka.WriteTimeout,
	}
}

// MarketClientOptions converts the market section for marketdata.NewClient.
func (c *Config) MarketClientOptions() []marketdata.ClientOption {
	return []marketdata.ClientOption{
		marketdata.WithBaseURLs(c.Market.DexScreenerURL, c.Market.SolscanURL, c.Market.SolscanMetaURL),
		marketdata.WithTimeout(c.Market.Timeout),
		marketdata.WithMaxRetries(c.Market.MaxRetries),
	}
}

// LoadEnvFile loads KEY=VALUE lines from path into the environment.
// Variables that are already set are left alone. A missing file is ignored.
func LoadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read env file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(strings.TrimPrefix(parts[0], "export "))
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		if _, set := os.LookupEnv(key); !set {
			os.Setenv(key, value)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
