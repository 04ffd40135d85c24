package r6y

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type (
	// Config describes recovery kinds and default restart behaviour.
	// Embed it in your own config struct for JSON or YAML unmarshaling,
	// or read it with [LoadConfig].
	Config struct {
		// Kinds maps kind names to their descriptions. Unknown names
		// define new kinds under Parent.
		Kinds map[string]KindConfig `json:"kinds,omitempty" yaml:"kinds,omitempty" validate:"dive"`
		// Retry configures [Retry]. Optional.
		Retry *RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`
	}

	// KindConfig describes a single kind.
	KindConfig struct {
		// Parent is the name of the parent kind. Optional, defaults to
		// "Recovery". Ignored for kinds that already exist.
		Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
		// Summary is the type-level summary. Required.
		Summary string `json:"summary" yaml:"summary" validate:"required"`
		// Discussion is the type-level discussion. Optional.
		Discussion string `json:"discussion,omitempty" yaml:"discussion,omitempty"`
	}

	// RetryConfig holds [Retry] defaults.
	RetryConfig struct {
		// Backoff is the strategy name. One of "constant",
		// "exponential", "linear", "exponential_jitter".
		Backoff string `json:"backoff" yaml:"backoff" validate:"required,oneof=constant exponential linear exponential_jitter"`
		// BaseDelay is parsed with time.ParseDuration. Example: "100ms".
		BaseDelay string `json:"base_delay" yaml:"base_delay" validate:"required"`
		// MaxDelay caps the delay. Optional. Example: "5s".
		MaxDelay string `json:"max_delay,omitempty" yaml:"max_delay,omitempty"`
		// Attempts is the maximum number of runs. Example: 3.
		Attempts int `json:"attempts" yaml:"attempts" validate:"gte=1"`
	}
)

// LoadConfig reads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON. The configuration is validated
// before it is returned.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("r6y: read config: %w", err)
	}

	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}

	if err != nil {
		return nil, fmt.Errorf("r6y: parse config: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints and duration syntax.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("r6y: invalid config: %w", err)
	}

	if _, err := c.RetryOptions(); err != nil {
		return err
	}

	return nil
}

// Apply describes the configured kinds in reg, defining the unknown ones.
// Kinds are defined parents first, so a kind may name another configured
// kind as parent.
func (c *Config) Apply(reg *Registry) error {
	pending := make(map[string]KindConfig, len(c.Kinds))
	for name, kc := range c.Kinds {
		pending[name] = kc
	}

	for len(pending) > 0 {
		progressed := false

		for name, kc := range pending {
			if k := reg.Lookup(name); k != nil {
				k.Describe(kc.Summary, kc.Discussion)
				delete(pending, name)
				progressed = true

				continue
			}

			parentName := kc.Parent
			if parentName == "" {
				parentName = KindRecovery.Name()
			}

			parent := reg.Lookup(parentName)
			if parent == nil {
				continue
			}

			reg.NewKind(name, parent).Describe(kc.Summary, kc.Discussion)
			delete(pending, name)
			progressed = true
		}

		if !progressed {
			for name, kc := range pending {
				return fmt.Errorf("r6y: kind %q: unknown parent %q", name, kc.Parent)
			}
		}
	}

	return nil
}

// RetryOptions converts the retry section into options for [Retry]. It
// returns nil options when the section is absent.
func (c *Config) RetryOptions() ([]RetryOption, error) {
	rc := c.Retry
	if rc == nil {
		return nil, nil
	}

	base, err := time.ParseDuration(rc.BaseDelay)
	if err != nil {
		return nil, fmt.Errorf("r6y: retry.base_delay: %w", err)
	}

	strategy, err := parseBackoff(rc.Backoff, base)
	if err != nil {
		return nil, fmt.Errorf("r6y: retry.backoff: %w", err)
	}

	opts := []RetryOption{Attempts(rc.Attempts), WithBackoff(strategy)}

	if rc.MaxDelay != "" {
		maxDelay, err := time.ParseDuration(rc.MaxDelay)
		if err != nil {
			return nil, fmt.Errorf("r6y: retry.max_delay: %w", err)
		}

		opts = append(opts, MaxDelay(maxDelay))
	}

	return opts, nil
}
