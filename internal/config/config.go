package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL      string        `yaml:"server_url"`
	StoragePath    string        `yaml:"storage_path"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

func Default() Config {
	return Config{
		ServerURL:      "http://localhost:3000",
		RequestTimeout: 15 * time.Second,
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "taskmaster", "config.yaml"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if config.ServerURL == "" {
		config.ServerURL = Default().ServerURL
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = Default().RequestTimeout
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
