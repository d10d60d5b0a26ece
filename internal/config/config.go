package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	GitHub struct {
		BaseURL       string
		Owner         string
		Repo          string
		Token         string
		AcceptedLabel string
		PendingLabel  string
		PerPage       int
	}
	AuthSalt         string
	AllowedOrigin    string
	SnapshotInterval time.Duration
	SeedVarsPath     string
	DerivedVarsPath  string
}

// Load reads config from environment (GUAVA_ prefix) and optional bananaguava.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GUAVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("bananaguava")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "bananaguava.db")
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("github.accepted_label", "accepted")
	v.SetDefault("github.pending_label", "pending")
	v.SetDefault("github.per_page", 100)
	v.SetDefault("snapshot.interval", "15m")
	v.SetDefault("seed_vars_path", "default_variables.json")
	v.SetDefault("derived_vars_path", "variables.json")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.GitHub.BaseURL = v.GetString("github.base_url")
	cfg.GitHub.Owner = v.GetString("github.owner")
	cfg.GitHub.Repo = v.GetString("github.repo")
	cfg.GitHub.Token = v.GetString("github.token")
	cfg.GitHub.AcceptedLabel = v.GetString("github.accepted_label")
	cfg.GitHub.PendingLabel = v.GetString("github.pending_label")
	cfg.GitHub.PerPage = v.GetInt("github.per_page")
	cfg.AuthSalt = v.GetString("auth_salt")
	cfg.AllowedOrigin = v.GetString("allowed_origin")
	cfg.SeedVarsPath = v.GetString("seed_vars_path")
	cfg.DerivedVarsPath = v.GetString("derived_vars_path")

	interval, err := time.ParseDuration(v.GetString("snapshot.interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid GUAVA_SNAPSHOT_INTERVAL: %w", err)
	}
	cfg.SnapshotInterval = interval

	if cfg.GitHub.Owner == "" {
		return nil, fmt.Errorf("GUAVA_GITHUB_OWNER is required")
	}
	if cfg.GitHub.Repo == "" {
		return nil, fmt.Errorf("GUAVA_GITHUB_REPO is required")
	}

	return cfg, nil
}
