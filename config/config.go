package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver       string `validate:"oneof=libsql sqlite3"`
		Url          string `validate:"required_if=Driver libsql"`
		Token        string
		Path         string `validate:"required_if=Driver sqlite3"`
		MaxOpenConns int    `validate:"gte=0"`
	}
	Server struct {
		Addr            string `validate:"required"`
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}
	Catalog struct {
		PageSize    int `validate:"gte=1,lte=100"`
		DefaultSort struct {
			Problems string `validate:"oneof=newest oldest score_desc score_asc"`
			Ideas    string `validate:"oneof=newest oldest score_desc score_asc"`
			Products string `validate:"oneof=newest oldest score_desc score_asc"`
		}
	}
	Redis struct {
		URL         string // empty disables the listing cache and vote events
		ListingTTL  time.Duration
		VoteChannel string
	}
	Log struct {
		Level string `validate:"oneof=debug info warn error"`
	}
}

func Load() (*Config, error) {
	// .env is optional; real environment variables still win.
	_ = godotenv.Load()

	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("IDEADB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", "IDEADB_DATABASE_URL", "TURSO_DATABASE_URL")
	_ = v.BindEnv("database.token", "IDEADB_DATABASE_TOKEN", "TURSO_AUTH_TOKEN")

	setDefaults(v)

	// Read config file (optional - will use env vars if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := fromViper(v)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	// Database config
	cfg.Database.Driver = v.GetString("database.driver")
	cfg.Database.Url = v.GetString("database.url")
	cfg.Database.Token = v.GetString("database.token")
	cfg.Database.Path = v.GetString("database.path")
	cfg.Database.MaxOpenConns = v.GetInt("database.max_open_conns")

	// Server config
	cfg.Server.Addr = v.GetString("server.addr")
	cfg.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	cfg.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	cfg.Server.ShutdownTimeout = v.GetDuration("server.shutdown_timeout")

	// Catalog config
	cfg.Catalog.PageSize = v.GetInt("catalog.page_size")
	cfg.Catalog.DefaultSort.Problems = v.GetString("catalog.default_sort.problems")
	cfg.Catalog.DefaultSort.Ideas = v.GetString("catalog.default_sort.ideas")
	cfg.Catalog.DefaultSort.Products = v.GetString("catalog.default_sort.products")

	// Redis config
	cfg.Redis.URL = v.GetString("redis.url")
	cfg.Redis.ListingTTL = v.GetDuration("redis.listing_ttl")
	cfg.Redis.VoteChannel = v.GetString("redis.vote_channel")

	cfg.Log.Level = v.GetString("log.level")

	return cfg
}

func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.driver", "libsql")
	v.SetDefault("database.path", "ideadb.db")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	// Listing defaults: products carry no score, so they sort by recency.
	v.SetDefault("catalog.page_size", 10)
	v.SetDefault("catalog.default_sort.problems", "score_desc")
	v.SetDefault("catalog.default_sort.ideas", "score_desc")
	v.SetDefault("catalog.default_sort.products", "newest")

	v.SetDefault("redis.listing_ttl", 5*time.Minute)
	v.SetDefault("redis.vote_channel", "ideadb:votes")

	v.SetDefault("log.level", "info")
}

func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
