package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"progresstracker/pkg/config"
)

const defaultConfigFile = "config.yaml"

type Config struct {
	Server  config.ServerConfig  `yaml:"server"`
	Storage config.StorageConfig `yaml:"storage"`
	Redis   config.RedisConfig   `yaml:"redis"`
	DB      config.DBConfig      `yaml:"db"`
	MQ      config.MQConfig      `yaml:"mq"`
	Backup  config.BackupConfig  `yaml:"backup"`
	Log     config.LogConfig     `yaml:"log"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server: config.ServerConfig{
			Port: ":3000",
			Mode: "release",
		},
		Storage: config.StorageConfig{
			Driver:    "file",
			DataDir:   "data",
			KeyPrefix: "progresstracker:",
		},
		Redis: config.RedisConfig{
			Addr: "localhost:6379",
		},
		DB: config.DBConfig{
			Host: "localhost",
			Port: 5432,
			User: "postgres",
			Name: "progresstracker",
		},
		Backup: config.BackupConfig{
			Dir: "backups",
		},
		Log: config.LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file named by CONFIG_FILE (default config.yaml) on top of
// Default(), then applies environment overrides. A .env file in the working
// directory is loaded into the environment first when it exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = defaultConfigFile
	}
	return LoadFile(path)
}

// LoadFile is Load without the .env step. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	default:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}

	// 环境变量覆盖（生产环境使用）
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideStorageFromEnv(&cfg.Storage)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideBackupFromEnv(&cfg.Backup)
	config.OverrideLogFromEnv(&cfg.Log)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file", "redis", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "file" && c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required for the file driver")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}
	return nil
}
