// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/echoline/lib/echopeer"
	"github.com/bureau-foundation/echoline/lib/session"
)

// EnvironmentVariable names the config file when no --config flag is
// given.
const EnvironmentVariable = "ECHOLINE_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Duration is a time.Duration that reads from YAML as a Go duration
// string ("10s", "1m30s").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration in Go syntax.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the master configuration for echoline binaries.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Client configures the line client.
	Client ClientConfig `yaml:"client"`

	// Peer configures the echo peer.
	Peer PeerConfig `yaml:"peer"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Client *ClientConfig `yaml:"client,omitempty"`
	Peer   *PeerConfig   `yaml:"peer,omitempty"`
}

// ClientConfig configures where the client connects and how much of
// the reply it accepts.
type ClientConfig struct {
	// Host is the peer hostname or IP address.
	// Default: 127.0.0.1
	Host string `yaml:"host"`

	// Port is the peer TCP port.
	// Default: 12001
	Port int `yaml:"port"`

	// BufferSize is the reply buffer capacity in bytes.
	// Default: 1024
	BufferSize int `yaml:"buffer_size"`

	// DialTimeout bounds the TCP connect. Zero leaves it to the
	// operating system.
	// Default: 10s
	DialTimeout Duration `yaml:"dial_timeout"`
}

// Address returns the peer address in "host:port" form.
func (c ClientConfig) Address() string {
	return c.Session().Address()
}

// Session converts the client settings into a session config.
func (c ClientConfig) Session() session.Config {
	return session.Config{
		Host:       c.Host,
		Port:       c.Port,
		BufferSize: c.BufferSize,
	}
}

// PeerConfig configures the echo peer.
type PeerConfig struct {
	// Listen is the TCP address for line exchanges.
	// Default: :12001
	Listen string `yaml:"listen"`

	// BufferSize is the maximum number of bytes read from a client.
	// Default: 1024
	BufferSize int `yaml:"buffer_size"`

	// Transform is applied to the received bytes before replying:
	// "echo", "upper", or "reverse".
	// Default: upper
	Transform string `yaml:"transform"`

	// ReadTimeout bounds how long the peer waits for a client to send.
	// Zero waits indefinitely.
	// Default: 30s
	ReadTimeout Duration `yaml:"read_timeout"`

	// StatusListen is the HTTP address for the status endpoint. Empty
	// disables it.
	StatusListen string `yaml:"status_listen"`

	// ReusePort sets SO_REUSEPORT on the line listener so several peer
	// processes can share Listen.
	ReusePort bool `yaml:"reuse_port"`
}

// Default returns the default configuration. Client defaults come from
// session.DefaultConfig.
func Default() *Config {
	defaults := session.DefaultConfig()
	return &Config{
		Environment: Development,
		Client: ClientConfig{
			Host:        defaults.Host,
			Port:        defaults.Port,
			BufferSize:  defaults.BufferSize,
			DialTimeout: Duration(10 * time.Second),
		},
		Peer: PeerConfig{
			Listen:      fmt.Sprintf(":%d", defaults.Port),
			BufferSize:  defaults.BufferSize,
			Transform:   "upper",
			ReadTimeout: Duration(30 * time.Second),
		},
	}
}

// Load loads configuration from the file named by ECHOLINE_CONFIG.
// When the variable is unset, the defaults are returned unchanged.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc may contain comments and trailing commas; anything
// else is read as YAML.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile merges a single configuration file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so the stripped document goes
		// through the same decoder and struct tags.
		data = jsonc.ToJSON(data)
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: fail fast on unreachable peers.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Client: &ClientConfig{DialTimeout: Duration(3 * time.Second)},
			}
		}
	}

	if overrides == nil {
		return
	}

	if client := overrides.Client; client != nil {
		if client.Host != "" {
			c.Client.Host = client.Host
		}
		if client.Port != 0 {
			c.Client.Port = client.Port
		}
		if client.BufferSize != 0 {
			c.Client.BufferSize = client.BufferSize
		}
		if client.DialTimeout != 0 {
			c.Client.DialTimeout = client.DialTimeout
		}
	}

	if peer := overrides.Peer; peer != nil {
		if peer.Listen != "" {
			c.Peer.Listen = peer.Listen
		}
		if peer.BufferSize != 0 {
			c.Peer.BufferSize = peer.BufferSize
		}
		if peer.Transform != "" {
			c.Peer.Transform = peer.Transform
		}
		if peer.ReadTimeout != 0 {
			c.Peer.ReadTimeout = peer.ReadTimeout
		}
		if peer.StatusListen != "" {
			c.Peer.StatusListen = peer.StatusListen
		}
		if peer.ReusePort {
			c.Peer.ReusePort = true
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in address fields.
func (c *Config) expandVariables() {
	c.Client.Host = expandVars(c.Client.Host)
	c.Peer.Listen = expandVars(c.Peer.Listen)
	c.Peer.StatusListen = expandVars(c.Peer.StatusListen)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks both sections. Binaries call ValidateClient or
// ValidatePeer so a problem in the other section does not stop them.
func (c *Config) Validate() error {
	errs := c.validateEnvironment()
	errs = append(errs, c.validateClient()...)
	errs = append(errs, c.validatePeer()...)
	return errors.Join(errs...)
}

// ValidateClient checks the environment and the client section. All
// problems are reported together.
func (c *Config) ValidateClient() error {
	return errors.Join(append(c.validateEnvironment(), c.validateClient()...)...)
}

// ValidatePeer checks the environment and the peer section. All
// problems are reported together.
func (c *Config) ValidatePeer() error {
	return errors.Join(append(c.validateEnvironment(), c.validatePeer()...)...)
}

func (c *Config) validateEnvironment() []error {
	switch c.Environment {
	case Development, Staging, Production:
		return nil
	}
	return []error{fmt.Errorf("invalid environment: %s", c.Environment)}
}

func (c *Config) validateClient() []error {
	var errs []error
	if c.Client.Host == "" {
		errs = append(errs, fmt.Errorf("client.host is required"))
	}
	if c.Client.Port < 1 || c.Client.Port > 65535 {
		errs = append(errs, fmt.Errorf("client.port must be between 1 and 65535, got %d", c.Client.Port))
	}
	if c.Client.BufferSize < 1 {
		errs = append(errs, fmt.Errorf("client.buffer_size must be positive, got %d", c.Client.BufferSize))
	}
	if c.Client.DialTimeout < 0 {
		errs = append(errs, fmt.Errorf("client.dial_timeout must not be negative"))
	}
	return errs
}

func (c *Config) validatePeer() []error {
	var errs []error
	if c.Peer.Listen == "" {
		errs = append(errs, fmt.Errorf("peer.listen is required"))
	}
	if c.Peer.BufferSize < 1 {
		errs = append(errs, fmt.Errorf("peer.buffer_size must be positive, got %d", c.Peer.BufferSize))
	}
	if _, err := echopeer.ParseTransform(c.Peer.Transform); err != nil {
		errs = append(errs, fmt.Errorf("peer.transform: %w", err))
	}
	if c.Peer.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("peer.read_timeout must not be negative"))
	}
	return errs
}
