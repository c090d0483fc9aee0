// Package options configures the top-level payoff evaluator constructors.
package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/robbyt/go-payoffscript/execution/constants"
	"github.com/robbyt/go-payoffscript/execution/data"
	"github.com/robbyt/go-payoffscript/execution/script/loader"
	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
)

var (
	ErrNoLoader        = errors.New("no loader specified")
	ErrNilOption       = errors.New("option value is nil")
	ErrNegativeTimeout = errors.New("eval timeout must not be negative")
)

// Config holds everything needed to build a payoff evaluator.
type Config struct {
	handler      slog.Handler
	dataProvider data.Provider
	loader       loader.Loader
	settings     vm.Settings
	registerer   prometheus.Registerer
	evalTimeout  time.Duration
	optimize     bool
}

// Option is a function that modifies Config
type Option func(*Config) error

// DefaultConfig returns a Config with a stdout text logger, a context data
// provider, default machine settings and optimization enabled.
func DefaultConfig() *Config {
	return &Config{
		handler:      DefaultHandler(),
		dataProvider: DefaultDataProvider(),
		settings:     vm.DefaultSettings(),
		optimize:     true,
	}
}

// DefaultHandler returns the default logging handler
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stdout, nil)
}

// DefaultDataProvider reads each run's market from the context.
func DefaultDataProvider() data.Provider {
	return data.NewContextProvider(constants.EvalData)
}

// New applies opts over DefaultConfig and validates the result.
func New(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithLogHandler sets the slog handler used by every component.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler == nil {
			return fmt.Errorf("%w: log handler", ErrNilOption)
		}
		c.handler = handler
		return nil
	}
}

// WithLogger sets the handler from an existing logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("%w: logger", ErrNilOption)
		}
		c.handler = logger.Handler()
		return nil
	}
}

// WithDataProvider replaces the default context provider.
func WithDataProvider(provider data.Provider) Option {
	return func(c *Config) error {
		if provider == nil {
			return fmt.Errorf("%w: data provider", ErrNilOption)
		}
		c.dataProvider = provider
		return nil
	}
}

// WithStaticData layers fixed data under the context data of each run.
func WithStaticData(static map[string]any) Option {
	return func(c *Config) error {
		c.dataProvider = data.NewCompositeProvider(
			data.NewStaticProvider(static),
			data.NewContextProvider(constants.EvalData),
		)
		return nil
	}
}

// WithLoader sets the script loader
func WithLoader(l loader.Loader) Option {
	return func(c *Config) error {
		if l == nil {
			return fmt.Errorf("%w: loader", ErrNilOption)
		}
		c.loader = l
		return nil
	}
}

// WithSettings sets the machine settings. Unset kernel, domain policy and
// depth bound take their defaults.
func WithSettings(s vm.Settings) Option {
	return func(c *Config) error {
		s = s.WithDefaults()
		if err := s.Validate(); err != nil {
			return err
		}
		c.settings = s
		return nil
	}
}

// WithSettingsYAML decodes machine settings from a YAML document.
func WithSettingsYAML(r io.Reader) Option {
	return func(c *Config) error {
		if r == nil {
			return fmt.Errorf("%w: settings reader", ErrNilOption)
		}
		s, err := vm.LoadSettings(r)
		if err != nil {
			return err
		}
		c.settings = s
		return nil
	}
}

// WithSettingsFile reads machine settings from a YAML file.
func WithSettingsFile(path string) Option {
	return func(c *Config) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read settings file: %w", err)
		}
		return WithSettingsYAML(bytes.NewReader(raw))(c)
	}
}

// WithMetricsRegisterer registers evaluation metrics with reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Config) error {
		if reg == nil {
			return fmt.Errorf("%w: metrics registerer", ErrNilOption)
		}
		c.registerer = reg
		return nil
	}
}

// WithEvalTimeout bounds each evaluation in a batch. Zero disables it.
func WithEvalTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeTimeout, d)
		}
		c.evalTimeout = d
		return nil
	}
}

// WithoutOptimization compiles scripts exactly as lowered.
func WithoutOptimization() Option {
	return func(c *Config) error {
		c.optimize = false
		return nil
	}
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.loader == nil {
		return ErrNoLoader
	}
	if c.handler == nil {
		return fmt.Errorf("%w: log handler", ErrNilOption)
	}
	if c.dataProvider == nil {
		return fmt.Errorf("%w: data provider", ErrNilOption)
	}
	return c.settings.Validate()
}

// GetHandler returns the configured log handler
func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

// GetDataProvider returns the configured data provider
func (c *Config) GetDataProvider() data.Provider {
	return c.dataProvider
}

// GetLoader returns the configured loader
func (c *Config) GetLoader() loader.Loader {
	return c.loader
}

// GetSettings returns the machine settings
func (c *Config) GetSettings() vm.Settings {
	return c.settings
}

// GetRegisterer returns the metrics registerer, or nil when metrics are off.
func (c *Config) GetRegisterer() prometheus.Registerer {
	return c.registerer
}

// GetEvalTimeout returns the per-evaluation timeout; 0 means none.
func (c *Config) GetEvalTimeout() time.Duration {
	return c.evalTimeout
}

// Optimize reports whether compiled scripts are optimized.
func (c *Config) Optimize() bool {
	return c.optimize
}
