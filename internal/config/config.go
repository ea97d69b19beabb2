package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath   string `mapstructure:"data_path" yaml:"data_path"`
	ReportsDir string `mapstructure:"reports_dir" yaml:"reports_dir"`

	// Composite index defaults; empty means the built-in six indicators
	// with uniform weights. Weight keys come back lowercased from viper
	// and are resolved to indicator columns case-insensitively.
	Indicators []string           `mapstructure:"indicators" yaml:"indicators"`
	Weights    map[string]float64 `mapstructure:"weights" yaml:"weights"`

	// Presentation
	TopN int `mapstructure:"top_n" yaml:"top_n"`

	// Insight rule thresholds
	GDPThreshold        float64 `mapstructure:"gdp_threshold" yaml:"gdp_threshold"`
	HappinessThreshold  float64 `mapstructure:"happiness_threshold" yaml:"happiness_threshold"`
	GenerosityThreshold float64 `mapstructure:"generosity_threshold" yaml:"generosity_threshold"`

	// Cleaning
	ImputeStrategy string `mapstructure:"impute_strategy" yaml:"impute_strategy"`

	// Dashboard
	ServeAddr string `mapstructure:"serve_addr" yaml:"serve_addr"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.happidex/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".happidex")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("HAPPIDEX")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_path", filepath.Join("data", "raw", "WorldHappiness.csv"))
	v.SetDefault("reports_dir", "reports")
	v.SetDefault("indicators", []string{})
	v.SetDefault("top_n", 10)
	v.SetDefault("gdp_threshold", 1.0)
	v.SetDefault("happiness_threshold", 5.0)
	v.SetDefault("generosity_threshold", 0.3)
	v.SetDefault("impute_strategy", "mean")
	v.SetDefault("serve_addr", "127.0.0.1:8080")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".happidex")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
