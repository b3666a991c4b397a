// Package endpoint resolves the runtime API endpoint the clients talk to.
//
// Values are layered, later sources winning: an optional YAML config file,
// an optional .env file, then the process environment.
//
//	cfg, err := endpoint.Load(endpoint.WithConfigFile("config.yml"))
//	// API_BASE=https://api.example.com overrides api_base from the file.
package endpoint

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const keyAPIBase = "api_base"

// Config is the runtime endpoint configuration.
type Config struct {
	APIBase string `yaml:"api_base" mapstructure:"api_base" validate:"required,url"`
}

// New returns a validated Config for apiBase.
func New(apiBase string) (*Config, error) {
	cfg := &Config{APIBase: apiBase}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validate = validator.New()

// Validate checks that APIBase is an absolute URL.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			parts := make([]string, len(verrs))
			for i, v := range verrs {
				parts[i] = fmt.Sprintf("%s failed %q", strings.ToLower(v.Field()), v.Tag())
			}
			return fmt.Errorf("endpoint: invalid config: %s", strings.Join(parts, "; "))
		}
		return fmt.Errorf("endpoint: %w", err)
	}

	return nil
}

// BaseURL returns APIBase, or "" for a nil Config.
func (c *Config) BaseURL() string {
	if c == nil {
		return ""
	}

	return c.APIBase
}

// LoadOption configures Load.
type LoadOption func(*loadOpts)

type loadOpts struct {
	configFile string
	envFile    string
	envPrefix  string
}

// WithConfigFile reads a YAML (or any viper-supported) config file first.
func WithConfigFile(path string) LoadOption {
	return func(o *loadOpts) { o.configFile = path }
}

// WithEnvFile loads a .env file into the environment before reading it.
// Variables already set in the environment are not overwritten.
func WithEnvFile(path string) LoadOption {
	return func(o *loadOpts) { o.envFile = path }
}

// WithEnvPrefix namespaces the environment lookup: prefix "APP" reads
// APP_API_BASE instead of API_BASE.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOpts) { o.envPrefix = prefix }
}

// Load builds a Config from the configured sources and validates it.
// A ".env" in the working directory is loaded when no env file is given
// and one exists.
func Load(optFns ...LoadOption) (*Config, error) {
	var opts loadOpts
	for _, opt := range optFns {
		opt(&opts)
	}

	v := viper.New()
	v.SetDefault(keyAPIBase, "")

	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", opts.configFile, err)
		}
	}

	switch {
	case opts.envFile != "":
		if err := godotenv.Load(opts.envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", opts.envFile, err)
		}
	default:
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(".env"); err != nil {
				return nil, fmt.Errorf("loading .env: %w", err)
			}
		}
	}

	if opts.envPrefix != "" {
		v.SetEnvPrefix(opts.envPrefix)
	}
	if err := v.BindEnv(keyAPIBase); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling endpoint config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
