// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppConfig holds the process-wide configuration for the websearch
// appliance: where the index lives, which embedder to use, and the
// fetch/ingest defaults.
type AppConfig struct {
	StoreRoot          string `mapstructure:"store_root"`
	DefaultNamespace   string `mapstructure:"default_namespace"`
	Embedder           string `mapstructure:"embedder"`
	EmbedderModel      string `mapstructure:"embedder_model"`
	OllamaURL          string `mapstructure:"ollama_url"`
	OpenAIAPIKey       string `mapstructure:"openai_api_key"`
	FetchTimeoutMs     int    `mapstructure:"fetch_timeout_ms"`
	EmbedTimeoutMs     int    `mapstructure:"embed_timeout_ms"`
	FetchRetries       int    `mapstructure:"fetch_retries"`
	MinStaticTextLen   int    `mapstructure:"min_static_text_len"`
	JobRetentionMins   int    `mapstructure:"job_retention_minutes"`
	JobHardCap         int    `mapstructure:"job_hard_cap"`
	HTTPPort           int    `mapstructure:"http_port"`
	LogFile            string `mapstructure:"log_file"`
	SearchCacheTTLMins int    `mapstructure:"search_cache_ttl_minutes"`
}

// Load reads configuration from defaults, the config file, and the
// environment (prefix WEBSEARCH_), in that order of increasing precedence
// (defaults lowest, environment highest). configPath may be empty, in which case
// ~/.websearch/config.yaml is used (created with defaults if missing).
func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	root := filepath.Join(home, ".websearch")

	viper.SetDefault("store_root", root)
	viper.SetDefault("default_namespace", "default")
	viper.SetDefault("embedder", "ollama")
	viper.SetDefault("embedder_model", "nomic-embed-text")
	viper.SetDefault("ollama_url", "http://localhost:11434")
	viper.SetDefault("fetch_timeout_ms", 15000)
	viper.SetDefault("embed_timeout_ms", 20000)
	viper.SetDefault("fetch_retries", 2)
	viper.SetDefault("min_static_text_len", 200)
	viper.SetDefault("job_retention_minutes", 60)
	viper.SetDefault("job_hard_cap", 1000)
	viper.SetDefault("http_port", 8088)
	viper.SetDefault("log_file", filepath.Join(root, "websearch.log"))
	viper.SetDefault("search_cache_ttl_minutes", 10)

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, fmt.Errorf("create store root: %w", err)
		}
		configFile := filepath.Join(root, "config.yaml")
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := writeDefaultConfig(configFile, root); err != nil {
				return nil, fmt.Errorf("write default config: %w", err)
			}
		}
		viper.SetConfigFile(configFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("no config file found at %s, using defaults", viper.ConfigFileUsed())
		} else {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	viper.SetEnvPrefix("WEBSEARCH")
	viper.AutomaticEnv()

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := os.MkdirAll(cfg.StoreRoot, 0755); err != nil {
		return nil, fmt.Errorf("create store root %s: %w", cfg.StoreRoot, err)
	}
	if err := os.MkdirAll(filepath.Join(cfg.StoreRoot, "index"), 0755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(cfg.StoreRoot, "models"), 0755); err != nil {
		return nil, fmt.Errorf("create models dir: %w", err)
	}

	return &cfg, nil
}

// IndexDir returns the on-disk root for a namespace's vector store files.
func (c *AppConfig) IndexDir(namespace string) string {
	return filepath.Join(c.StoreRoot, "index", namespace)
}

func writeDefaultConfig(path, storeRoot string) error {
	contents := fmt.Sprintf(`# websearch appliance configuration
store_root: %q
default_namespace: "default"
embedder: "ollama"
embedder_model: "nomic-embed-text"
ollama_url: "http://localhost:11434"
openai_api_key: ""
fetch_timeout_ms: 15000
embed_timeout_ms: 20000
fetch_retries: 2
min_static_text_len: 200
job_retention_minutes: 60
job_hard_cap: 1000
http_port: 8088
search_cache_ttl_minutes: 10
`, storeRoot)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0644)
}
