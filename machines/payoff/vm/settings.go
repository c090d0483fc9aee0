package vm

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// Kernel selects the smoothing function used by SMOOTH nodes.
type Kernel string

const (
	// KernelLinear ramps from 0 to 1 across [t-h/2, t+h/2].
	KernelLinear Kernel = "linear"
	// KernelLogistic is 1/(1+exp(-4(x-t)/h)), matching the linear ramp's slope at t.
	KernelLogistic Kernel = "logistic"
)

// DomainPolicy selects what happens when an operation leaves its domain.
type DomainPolicy string

const (
	// PolicyFail aborts the run with a *DomainError.
	PolicyFail DomainPolicy = "fail"
	// PolicySentinel substitutes Settings.Sentinel and continues.
	PolicySentinel DomainPolicy = "sentinel"
)

const (
	DefaultTolerance = 1e-12
	DefaultBandwidth = 0.01
	DefaultMaxDepth  = 10_000
)

// Settings holds the numeric policy of a Machine. It is fixed when the
// Machine is built and applies uniformly to every node kind.
//
// The zero value is not DefaultSettings: a zero Tolerance compares exactly
// and a zero Bandwidth turns two-argument SMOOTH into an exact step.
type Settings struct {
	// Tolerance is the comparison epsilon of EQUAL, SUP and SUPEQUAL.
	Tolerance float64 `yaml:"tolerance"`
	// Bandwidth is the default SMOOTH window for the two-argument form.
	Bandwidth    float64      `yaml:"bandwidth"`
	Kernel       Kernel       `yaml:"kernel"`
	DomainPolicy DomainPolicy `yaml:"domain_policy"`
	Sentinel     float64      `yaml:"sentinel"`
	// MaxDepth bounds the nesting depth of an evaluated tree.
	MaxDepth int `yaml:"max_depth"`
}

// DefaultSettings returns the fail-fast linear-kernel settings.
func DefaultSettings() Settings {
	return Settings{
		Tolerance:    DefaultTolerance,
		Bandwidth:    DefaultBandwidth,
		Kernel:       KernelLinear,
		DomainPolicy: PolicyFail,
		Sentinel:     0,
		MaxDepth:     DefaultMaxDepth,
	}
}

// WithDefaults fills the unset enum fields and depth bound.
func (s Settings) WithDefaults() Settings {
	if s.Kernel == "" {
		s.Kernel = KernelLinear
	}
	if s.DomainPolicy == "" {
		s.DomainPolicy = PolicyFail
	}
	if s.MaxDepth <= 0 {
		s.MaxDepth = DefaultMaxDepth
	}
	return s
}

func (s Settings) Validate() error {
	var errs []error
	if !finite(s.Tolerance) || s.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("tolerance must be finite and non-negative, got %v", s.Tolerance))
	}
	if !finite(s.Bandwidth) || s.Bandwidth < 0 {
		errs = append(errs, fmt.Errorf("bandwidth must be finite and non-negative, got %v", s.Bandwidth))
	}
	switch s.Kernel {
	case KernelLinear, KernelLogistic:
	default:
		errs = append(errs, fmt.Errorf("unknown kernel %q", s.Kernel))
	}
	switch s.DomainPolicy {
	case PolicyFail, PolicySentinel:
	default:
		errs = append(errs, fmt.Errorf("unknown domain policy %q", s.DomainPolicy))
	}
	if !finite(s.Sentinel) {
		errs = append(errs, fmt.Errorf("sentinel must be finite, got %v", s.Sentinel))
	}
	if s.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max depth must be positive, got %d", s.MaxDepth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}
	return nil
}

// LoadSettings decodes YAML settings on top of DefaultSettings. Unknown
// fields are rejected. An empty document yields the defaults.
func LoadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
