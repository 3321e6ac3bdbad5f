package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Zuo-Peng/ghostwriter/internal/analysis"
)

type Config struct {
	ExportRoot string   `toml:"export_root"`
	DBPath     string   `toml:"db_path"`
	OutputDir  string   `toml:"output_dir"`
	UserID     string   `toml:"user_id"`
	LogLevel   string   `toml:"log_level"`
	Strategies []string `toml:"strategies"`

	Notify Notify `toml:"notify"`
}

type Notify struct {
	Console      bool   `toml:"console"`
	LogFile      string `toml:"log_file"`
	Email        string `toml:"email"`
	From         string `toml:"from"`
	ResendAPIKey string `toml:"resend_api_key"`
}

// Defaults returns the configuration used when no file or env override is present.
func Defaults(home string) *Config {
	user := os.Getenv("USER")
	if user == "" {
		user = "default"
	}
	return &Config{
		ExportRoot: filepath.Join(home, "WhatsAppExports"),
		DBPath:     filepath.Join(home, ".config", "gw", "gw.db"),
		OutputDir:  filepath.Join(home, ".config", "gw", "summaries"),
		UserID:     user,
		LogLevel:   "info",
		Notify: Notify{
			Console: true,
			From:    "GhostWriter <onboarding@resend.dev>",
		},
	}
}

// Path returns the config file location: $GW_CONFIG or ~/.config/gw/config.toml.
func Path() (string, error) {
	if p := os.Getenv("GW_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gw", "config.toml"), nil
}

// Load reads defaults, then the TOML file if present, then environment
// variables (a .env file in the working directory is loaded first).
func Load() (*Config, error) {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	cfg := Defaults(home)

	cfgPath, err := Path()
	if err != nil {
		return nil, err
	}
	cfgPath = expandHome(cfgPath, home)
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	// expand ~ in paths
	cfg.ExportRoot = expandHome(cfg.ExportRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.OutputDir = expandHome(cfg.OutputDir, home)
	cfg.Notify.LogFile = expandHome(cfg.Notify.LogFile, home)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ExportRoot = getEnvOrDefault("GW_EXPORT_ROOT", cfg.ExportRoot)
	cfg.DBPath = getEnvOrDefault("GW_DB_PATH", cfg.DBPath)
	cfg.OutputDir = getEnvOrDefault("GW_OUTPUT_DIR", cfg.OutputDir)
	cfg.UserID = getEnvOrDefault("GW_USER", cfg.UserID)
	cfg.LogLevel = getEnvOrDefault("GW_LOG_LEVEL", cfg.LogLevel)
	cfg.Notify.ResendAPIKey = getEnvOrDefault("RESEND_API_KEY", cfg.Notify.ResendAPIKey)
	cfg.Notify.Email = getEnvOrDefault("GW_NOTIFY_EMAIL", cfg.Notify.Email)
	cfg.Notify.From = getEnvOrDefault("GW_NOTIFY_FROM", cfg.Notify.From)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.UserID) == "" {
		errs = append(errs, errors.New("user_id is empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is empty"))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := analysis.StrategiesByName(c.Strategies); err != nil {
		errs = append(errs, fmt.Errorf("strategies: %w", err))
	}
	if c.Notify.Email != "" {
		if c.Notify.ResendAPIKey == "" {
			errs = append(errs, errors.New("notify.email is set but no resend api key is configured"))
		}
		if c.Notify.From == "" {
			errs = append(errs, errors.New("notify.email is set but notify.from is empty"))
		}
	}
	return errors.Join(errs...)
}

// Analyzer builds an analyzer from the configured strategy names.
func (c *Config) Analyzer() (analysis.Analyzer, error) {
	ss, err := analysis.StrategiesByName(c.Strategies)
	if err != nil {
		return analysis.Analyzer{}, err
	}
	return analysis.New(ss...), nil
}

// InitFile writes cfg to path as TOML. It refuses to overwrite an existing file.
func InitFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
