// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

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

// Config is the master configuration for a JACS agent.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Agent configures the local agent identity.
	Agent AgentConfig `yaml:"agent"`

	// Trust configures policy evaluation and the trust store.
	Trust TrustConfig `yaml:"trust"`

	// Discovery configures remote card fetching.
	Discovery DiscoveryConfig `yaml:"discovery"`

	// Serve configures the discovery document server.
	Serve ServeConfig `yaml:"serve"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Agent     *AgentConfig     `yaml:"agent,omitempty"`
	Trust     *TrustConfig     `yaml:"trust,omitempty"`
	Discovery *DiscoveryConfig `yaml:"discovery,omitempty"`
	Serve     *ServeConfig     `yaml:"serve,omitempty"`
}

// AgentConfig configures the local agent identity.
type AgentConfig struct {
	// ID is the agent's JACS identifier.
	ID string `yaml:"id"`

	// Version is the agent's version identifier, recorded in every
	// signature the agent produces.
	Version string `yaml:"version"`

	// Type classifies the agent ("ai", "human", "service").
	// Default: ai
	Type string `yaml:"type"`

	// Name is the display name published in the agent card.
	Name string `yaml:"name"`

	// KeyFile is the path to the agent's Ed25519 private key.
	KeyFile string `yaml:"key_file"`
}

// TrustConfig configures policy evaluation and the trust store.
type TrustConfig struct {
	// Policy is the default trust policy: open, verified, or strict.
	// Default: verified (development), strict (production)
	Policy string `yaml:"policy"`

	// StorePath is the path to the trust store file.
	StorePath string `yaml:"store_path"`
}

// DiscoveryConfig configures remote card fetching.
type DiscoveryConfig struct {
	// Timeout bounds each card fetch.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// ServeConfig configures the discovery document server.
type ServeConfig struct {
	// Listen is the address the server binds.
	// Default: 127.0.0.1:8317
	Listen string `yaml:"listen"`

	// BaseURL is the public base URL published in the agent card.
	BaseURL string `yaml:"base_url"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "jacs")

	return &Config{
		Environment: Development,
		Agent: AgentConfig{
			Type:    "ai",
			KeyFile: filepath.Join(defaultRoot, "agent.key"),
		},
		Trust: TrustConfig{
			Policy:    "verified",
			StorePath: filepath.Join(defaultRoot, "trust-store.json"),
		},
		Discovery: DiscoveryConfig{
			Timeout: 10 * time.Second,
		},
		Serve: ServeConfig{
			Listen: "127.0.0.1:8317",
		},
	}
}

// Load loads configuration from the JACS_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if JACS_CONFIG is not set, this fails.
// This ensures deterministic, auditable configuration with no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("JACS_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("JACS_CONFIG environment variable not set; " +
			"set it to the path of your jacs.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables do not
// override config values - this ensures deterministic, auditable configuration.
// The only expansion performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	// Expand ${HOME} and similar variables in paths for portability.
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: never act on unproven identities.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Trust: &TrustConfig{
					Policy: "strict",
				},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Agent != nil {
		if overrides.Agent.ID != "" {
			c.Agent.ID = overrides.Agent.ID
		}
		if overrides.Agent.Version != "" {
			c.Agent.Version = overrides.Agent.Version
		}
		if overrides.Agent.Type != "" {
			c.Agent.Type = overrides.Agent.Type
		}
		if overrides.Agent.Name != "" {
			c.Agent.Name = overrides.Agent.Name
		}
		if overrides.Agent.KeyFile != "" {
			c.Agent.KeyFile = overrides.Agent.KeyFile
		}
	}

	if overrides.Trust != nil {
		if overrides.Trust.Policy != "" {
			c.Trust.Policy = overrides.Trust.Policy
		}
		if overrides.Trust.StorePath != "" {
			c.Trust.StorePath = overrides.Trust.StorePath
		}
	}

	if overrides.Discovery != nil {
		if overrides.Discovery.Timeout > 0 {
			c.Discovery.Timeout = overrides.Discovery.Timeout
		}
	}

	if overrides.Serve != nil {
		if overrides.Serve.Listen != "" {
			c.Serve.Listen = overrides.Serve.Listen
		}
		if overrides.Serve.BaseURL != "" {
			c.Serve.BaseURL = overrides.Serve.BaseURL
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Agent.KeyFile = expandVars(c.Agent.KeyFile, vars)
	c.Trust.StorePath = expandVars(c.Trust.StorePath, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Agent.ID == "" {
		errs = append(errs, fmt.Errorf("agent.id is required"))
	}

	if c.Agent.KeyFile == "" {
		errs = append(errs, fmt.Errorf("agent.key_file is required"))
	}

	policyValues := []string{"open", "verified", "strict"}
	if !contains(policyValues, c.Trust.Policy) {
		errs = append(errs, fmt.Errorf("trust.policy must be one of: %v", policyValues))
	}

	if c.Trust.StorePath == "" {
		errs = append(errs, fmt.Errorf("trust.store_path is required"))
	}

	if c.Discovery.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("discovery.timeout must be positive"))
	}

	if c.Serve.Listen == "" {
		errs = append(errs, fmt.Errorf("serve.listen is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
