// Package config reads and writes tcboard.yaml, the per-deployment
// settings file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the default configuration file name.
const File = "tcboard.yaml"

// Config represents the top-level tcboard.yaml configuration.
type Config struct {
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Extracts  ExtractsConfig  `yaml:"extracts"`
	Store     StoreConfig     `yaml:"store"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
}

// PortfolioConfig identifies the card portfolio the dashboard covers.
type PortfolioConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// ExtractsConfig controls how the monthly extracts are read.
type ExtractsConfig struct {
	ChunkSize int `yaml:"chunk_size"`
}

// StoreConfig locates the result store. The DSN itself never lives in
// the file; only the name of the environment variable that holds it.
type StoreConfig struct {
	DSNEnv string `yaml:"dsn_env"`
}

// DSN resolves the connection string from the environment.
func (s StoreConfig) DSN() (string, error) {
	dsn := os.Getenv(s.DSNEnv)
	if dsn == "" {
		return "", fmt.Errorf("environment variable %s is empty; set it to the result store DSN", s.DSNEnv)
	}
	return dsn, nil
}

// ReconcileConfig controls the reference master scan.
type ReconcileConfig struct {
	LookbackMonths int `yaml:"lookback_months"`
}

// Load reads a tcboard.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new
// deployment.
func Default(portfolioName string) *Config {
	return &Config{
		Portfolio: PortfolioConfig{
			Name:     portfolioName,
			Currency: "COP",
		},
		Extracts: ExtractsConfig{
			ChunkSize: 500000,
		},
		Store: StoreConfig{
			DSNEnv: "TCBOARD_DATABASE_URL",
		},
		Reconcile: ReconcileConfig{
			LookbackMonths: 120,
		},
	}
}
