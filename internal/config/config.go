package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/julianshen/meteofetch/internal/buffer"
	"github.com/julianshen/meteofetch/internal/request"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the top-level application configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Request RequestConfig `toml:"request"`
	Limits  LimitsConfig  `toml:"limits"`
	Output  OutputConfig  `toml:"output"`
}

// APIConfig holds the endpoint and where its credentials come from.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	UsernameEnv    string `toml:"username_env"`
	PasswordEnv    string `toml:"password_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// RequestConfig holds the query segments placed into the request URL.
type RequestConfig struct {
	Datetime   string `toml:"datetime"`
	Parameters string `toml:"parameters"`
	Location   string `toml:"location"`
	Format     string `toml:"format"`
}

// LimitsConfig bounds URL length and response size.
type LimitsConfig struct {
	MaxURLLength      int `toml:"max_url_length"`
	MaxResponseSize   int `toml:"max_response_size"`
	InitialBufferSize int `toml:"initial_buffer_size"`
}

// OutputConfig selects how the sanitized response is printed.
type OutputConfig struct {
	Format string `toml:"format"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        request.DefaultBaseURL,
			UsernameEnv:    "METEOMATICS_USERNAME",
			PasswordEnv:    "METEOMATICS_PASSWORD",
			TimeoutSeconds: 30,
		},
		Request: RequestConfig{
			Datetime:   request.DefaultDatetime,
			Parameters: request.DefaultParameters,
			Location:   request.DefaultLocation,
			Format:     request.DefaultFormat,
		},
		Limits: LimitsConfig{
			MaxURLLength:      request.DefaultMaxURLLength,
			MaxResponseSize:   buffer.DefaultMaxCapacity,
			InitialBufferSize: buffer.DefaultInitialCapacity,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Validate rejects settings that would make a request unsafe or impossible.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("%w: base_url %q must use https", ErrInvalid, c.API.BaseURL)
	}
	if c.API.UsernameEnv == "" || c.API.PasswordEnv == "" {
		return fmt.Errorf("%w: username_env and password_env must be set", ErrInvalid)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout_seconds must be positive, got %d", ErrInvalid, c.API.TimeoutSeconds)
	}
	if c.Limits.MaxURLLength <= 0 {
		return fmt.Errorf("%w: max_url_length must be positive, got %d", ErrInvalid, c.Limits.MaxURLLength)
	}
	if c.Limits.MaxResponseSize <= 0 || c.Limits.InitialBufferSize <= 0 {
		return fmt.Errorf("%w: buffer sizes must be positive", ErrInvalid)
	}
	if c.Limits.InitialBufferSize > c.Limits.MaxResponseSize {
		return fmt.Errorf("%w: initial_buffer_size %d exceeds max_response_size %d",
			ErrInvalid, c.Limits.InitialBufferSize, c.Limits.MaxResponseSize)
	}
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalid, c.Output.Format)
	}
	return nil
}

// RequestConfig assembles the immutable per-run request from the file
// settings and the resolved credentials.
func (c *Config) RequestConfig(creds request.Credentials) request.RequestConfig {
	return request.RequestConfig{
		BaseURL:    c.API.BaseURL,
		Username:   creds.Username,
		Password:   creds.Password,
		Datetime:   c.Request.Datetime,
		Parameters: c.Request.Parameters,
		Location:   c.Request.Location,
		Format:     c.Request.Format,
	}.WithDefaults()
}
