// Package config はアプリケーション設定を読み込みます。
// 優先順位: デフォルト値 < YAMLファイル < .env < 環境変数
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName はデータディレクトリ名にも使われます。
	AppName = "go-desktop-todo"
	// DBFileName はデータベースファイル名です（固定）。
	DBFileName = "app.db"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Addr        string   `yaml:"addr" env:"APP_ADDR"`
	DataDir     string   `yaml:"data_dir" env:"APP_DATA_DIR"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`

	DB     DBConfig     `yaml:"db"`
	Prices PricesConfig `yaml:"prices"`
}

// DBConfig はデータベース接続の設定です。
type DBConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER"`
	User   string `yaml:"user" env:"DB_USER"`
	Pass   string `yaml:"pass" env:"DB_PASS"`
	Host   string `yaml:"host" env:"DB_HOST"`
	Port   string `yaml:"port" env:"DB_PORT"`
	Name   string `yaml:"name" env:"DB_NAME"`
}

// PricesConfig は株価取得の設定です。
type PricesConfig struct {
	URL      string        `yaml:"url" env:"PRICES_URL"`
	Symbol   string        `yaml:"symbol" env:"PRICES_SYMBOL"`
	APIKey   string        `yaml:"api_key" env:"PRICES_API_KEY"`
	Timeout  time.Duration `yaml:"timeout" env:"PRICES_TIMEOUT"`
	Fallback bool          `yaml:"fallback" env:"PRICES_FALLBACK"`
}

// Default はデフォルト設定を返します。
func Default() *Config {
	return &Config{
		Addr:        "127.0.0.1:8080",
		DataDir:     defaultDataDir(),
		CORSOrigins: []string{"http://localhost:1420", "tauri://localhost"},
		DB: DBConfig{
			Driver: DriverSQLite,
			Host:   "127.0.0.1",
			Port:   "3306",
		},
		Prices: PricesConfig{
			URL:     "https://www.alphavantage.co/query",
			Symbol:  "IBM",
			APIKey:  "demo",
			Timeout: 10 * time.Second,
		},
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "data")
	}
	return filepath.Join(dir, AppName)
}

// Load は設定を読み込みます。pathが空の場合はYAMLファイルを読みません。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// .env が無いのは正常
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値を検証します。
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DataDir == "" {
			return errors.New("data_dir is required for sqlite")
		}
	case DriverMySQL:
		if c.DB.Name == "" {
			return errors.New("DB_NAME is required for mysql")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if len(c.CORSOrigins) == 0 {
		return errors.New("at least one CORS origin is required")
	}
	if c.Prices.Timeout <= 0 {
		return fmt.Errorf("prices timeout must be positive, got %s", c.Prices.Timeout)
	}
	return nil
}

// DBPath はSQLiteファイルのパスを返します。
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFileName)
}

// DSN はドライバーに応じた接続文字列を返します。
func (c *Config) DSN() string {
	if c.DB.Driver == DriverMySQL {
		mc := mysql.NewConfig()
		mc.User = c.DB.User
		mc.Passwd = c.DB.Pass
		mc.Net = "tcp"
		mc.Addr = c.DB.Host + ":" + c.DB.Port
		mc.DBName = c.DB.Name
		mc.ParseTime = true
		return mc.FormatDSN()
	}
	return c.DBPath() + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
