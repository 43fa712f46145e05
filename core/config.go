package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultRequestTimeoutMS    = 20000
	defaultLoginTimeoutMS      = 30000
	defaultProbeTimeoutMS      = 15000
	defaultDiagnosticTimeoutMS = 3000
	defaultRetryMaxAttempts    = 3
	defaultRetryBackoffStepMS  = 1000
)

// RetryConfig bounds the transport retry loop. Attempt numbering starts at 1
// and backoff grows linearly: backoff_step_ms × attempt.
type RetryConfig struct {
	MaxAttempts   int `koanf:"max_attempts" mapstructure:"max_attempts"`
	BackoffStepMS int `koanf:"backoff_step_ms" mapstructure:"backoff_step_ms"`
}

type Config struct {
	AppName             string      `koanf:"app_name" mapstructure:"app_name"`
	Endpoints           []string    `koanf:"endpoints" mapstructure:"endpoints"`
	RequestTimeoutMS    int         `koanf:"request_timeout_ms" mapstructure:"request_timeout_ms"`
	LoginTimeoutMS      int         `koanf:"login_timeout_ms" mapstructure:"login_timeout_ms"`
	ProbeTimeoutMS      int         `koanf:"probe_timeout_ms" mapstructure:"probe_timeout_ms"`
	DiagnosticTimeoutMS int         `koanf:"diagnostic_timeout_ms" mapstructure:"diagnostic_timeout_ms"`
	Retry               RetryConfig `koanf:"retry" mapstructure:"retry"`
}

func DefaultConfig() Config {
	return Config{
		AppName:             "marinesafe",
		Endpoints:           []string{"http://127.0.0.1:3000"},
		RequestTimeoutMS:    defaultRequestTimeoutMS,
		LoginTimeoutMS:      defaultLoginTimeoutMS,
		ProbeTimeoutMS:      defaultProbeTimeoutMS,
		DiagnosticTimeoutMS: defaultDiagnosticTimeoutMS,
		Retry: RetryConfig{
			MaxAttempts:   defaultRetryMaxAttempts,
			BackoffStepMS: defaultRetryBackoffStepMS,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.AppName) == "" {
		return fmt.Errorf("core: app_name is required")
	}
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("core: at least one endpoint is required")
	}
	for _, endpoint := range c.Endpoints {
		trimmed := strings.TrimSpace(endpoint)
		if trimmed == "" {
			return fmt.Errorf("core: endpoint url must not be blank")
		}
		parsed, err := url.Parse(trimmed)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("core: endpoint %q is not an absolute url", endpoint)
		}
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("core: retry max_attempts must be at least 1")
	}
	return nil
}

func (c Config) RequestTimeout() time.Duration {
	return msOrDefault(c.RequestTimeoutMS, defaultRequestTimeoutMS)
}

func (c Config) LoginTimeout() time.Duration {
	return msOrDefault(c.LoginTimeoutMS, defaultLoginTimeoutMS)
}

func (c Config) ProbeTimeout() time.Duration {
	return msOrDefault(c.ProbeTimeoutMS, defaultProbeTimeoutMS)
}

func (c Config) DiagnosticTimeout() time.Duration {
	return msOrDefault(c.DiagnosticTimeoutMS, defaultDiagnosticTimeoutMS)
}

// CandidateEndpoints returns the trimmed candidate list in configured order.
func (c Config) CandidateEndpoints() []string {
	out := make([]string, 0, len(c.Endpoints))
	for _, endpoint := range c.Endpoints {
		trimmed := strings.TrimSpace(endpoint)
		if trimmed == "" {
			continue
		}
		out = append(out, strings.TrimRight(trimmed, "/"))
	}
	return out
}

func (c Config) RetryPolicy() RetryPolicy {
	attempts := c.Retry.MaxAttempts
	if attempts < 1 {
		attempts = defaultRetryMaxAttempts
	}
	step := msOrDefault(c.Retry.BackoffStepMS, defaultRetryBackoffStepMS)
	return RetryPolicy{
		MaxAttempts: attempts,
		Backoff:     LinearBackoff(step),
	}
}

func msOrDefault(ms int, fallback int) time.Duration {
	if ms <= 0 {
		ms = fallback
	}
	return time.Duration(ms) * time.Millisecond
}
