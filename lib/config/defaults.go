package config

import (
	"strings"

	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

// Clock sources accepted by clock.source.
const (
	ClockSourceSystem = "system"
	ClockSourceNTP    = "ntp"
)

// Bounds enforced by Validate.
const (
	MinQueryFrequency    = 5 * gtime.Minute
	MinConcurringServers = 1
	MaxConcurringServers = 4
	MinNTPTimeout        = 100 * gtime.Millisecond
	MaxNTPTimeout        = gtime.Minute
)

// Config holds every go-gtime setting.
type Config struct {
	Clock  ClockConfig
	Format FormatConfig
	NTP    NTPConfig
	Skew   SkewConfig
	RPC    RPCConfig
}

// ClockConfig selects where Now readings come from.
type ClockConfig struct {
	// Source is "system" or "ntp".
	// Default: system
	Source string
}

// FormatConfig holds output formatting defaults.
type FormatConfig struct {
	// Layout is a strftime layout.
	// Default: %Y-%m-%d %H:%M:%S
	Layout string
}

// NTPConfig controls the NTP-backed clock.
type NTPConfig struct {
	// Servers are queried at random.
	// Default: 0.pool.ntp.org, 1.pool.ntp.org, 2.pool.ntp.org
	Servers []string

	// QueryFrequency is the base interval between background queries.
	// Default: 11 minutes
	QueryFrequency gtime.Duration

	// ConcurringServers is the number of agreeing samples per query cycle.
	// Default: 3
	ConcurringServers int

	// Timeout bounds each single NTP exchange.
	// Default: 10 seconds
	Timeout gtime.Duration

	// MaxVariance is the largest accepted offset of the first sample, and the
	// largest accepted spread between later samples and the first.
	// Default: 10 seconds
	MaxVariance gtime.Duration
}

// SkewConfig bounds accepted timestamp skew.
type SkewConfig struct {
	// Max is the largest accepted distance from the local clock.
	// Default: 60 minutes
	Max gtime.Duration
}

// RPCConfig controls the JSON-RPC time service started by `gtime serve`.
type RPCConfig struct {
	// Address is the host:port to listen on.
	// Default: localhost:7651
	Address string

	// Password is exchanged for a token by the Authenticate method.
	// Default: gtime
	Password string

	// TokenExpiration is the lifetime of issued tokens.
	// Default: 10 minutes
	TokenExpiration gtime.Duration

	// UseHTTPS serves TLS with CertFile and KeyFile.
	// Default: false
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// Defaults returns a Config with all default values set.
func Defaults() Config {
	return Config{
		Clock:  ClockConfig{Source: ClockSourceSystem},
		Format: FormatConfig{Layout: gtime.DefaultLayout},
		NTP:    DefaultNTPConfig(),
		Skew:   SkewConfig{Max: 60 * gtime.Minute},
		RPC: RPCConfig{
			Address:         "localhost:7651",
			Password:        "gtime",
			TokenExpiration: 10 * gtime.Minute,
		},
	}
}

// DefaultNTPConfig returns the default NTP settings.
func DefaultNTPConfig() NTPConfig {
	return NTPConfig{
		Servers:           []string{"0.pool.ntp.org", "1.pool.ntp.org", "2.pool.ntp.org"},
		QueryFrequency:    11 * gtime.Minute,
		ConcurringServers: 3,
		Timeout:           10 * gtime.Second,
		MaxVariance:       10 * gtime.Second,
	}
}

// CurrentConfig returns the configuration currently visible through viper.
func CurrentConfig() Config {
	return Config{
		Clock: ClockConfig{
			Source: strings.ToLower(strings.TrimSpace(viper.GetString("clock.source"))),
		},
		Format: FormatConfig{
			Layout: viper.GetString("format.layout"),
		},
		NTP: NTPConfig{
			Servers:           trimServers(viper.GetStringSlice("ntp.servers")),
			QueryFrequency:    gtime.FromStd(viper.GetDuration("ntp.query_frequency")),
			ConcurringServers: viper.GetInt("ntp.concurring_servers"),
			Timeout:           gtime.FromStd(viper.GetDuration("ntp.timeout")),
			MaxVariance:       gtime.FromStd(viper.GetDuration("ntp.max_variance")),
		},
		Skew: SkewConfig{
			Max: gtime.FromStd(viper.GetDuration("skew.max")),
		},
		RPC: RPCConfig{
			Address:         viper.GetString("rpc.address"),
			Password:        viper.GetString("rpc.password"),
			TokenExpiration: gtime.FromStd(viper.GetDuration("rpc.token_expiration")),
			UseHTTPS:        viper.GetBool("rpc.use_https"),
			CertFile:        viper.GetString("rpc.cert_file"),
			KeyFile:         viper.GetString("rpc.key_file"),
		},
	}
}

func trimServers(servers []string) []string {
	out := make([]string, 0, len(servers))
	for _, s := range servers {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks if the provided configuration values are reasonable.
// Returns an error describing the first invalid value found.
func Validate(cfg Config) error {
	log.WithFields(logger.Fields{
		"at":     "Validate",
		"reason": "verification_requested",
	}).Debug("validating configuration")

	validators := []func() error{
		func() error { return validateClock(cfg.Clock) },
		func() error { return validateFormat(cfg.Format) },
		func() error { return validateNTP(cfg.NTP) },
		func() error { return validateSkew(cfg.Skew) },
		func() error { return validateRPC(cfg.RPC) },
	}
	for _, validator := range validators {
		if err := validator(); err != nil {
			log.WithError(err).Error("Configuration validation failed")
			return err
		}
	}

	log.WithFields(logger.Fields{
		"at":     "Validate",
		"reason": "all_validators_passed",
	}).Debug("all configuration validations passed")
	return nil
}

func validateClock(clock ClockConfig) error {
	switch clock.Source {
	case ClockSourceSystem, ClockSourceNTP:
		return nil
	default:
		return newValidationError("Clock.Source must be %q or %q, got %q",
			ClockSourceSystem, ClockSourceNTP, clock.Source)
	}
}

func validateFormat(format FormatConfig) error {
	if format.Layout == "" {
		return newValidationError("Format.Layout must not be empty")
	}
	if _, err := gtime.NewFormatter(format.Layout); err != nil {
		return newValidationError("Format.Layout is invalid: %v", err)
	}
	return nil
}

// ValidateNTP checks NTP settings alone; the sntp package calls it before
// accepting a configuration.
func ValidateNTP(ntp NTPConfig) error {
	return validateNTP(ntp)
}

func validateNTP(ntp NTPConfig) error {
	if len(ntp.Servers) == 0 {
		return newValidationError("NTP.Servers must list at least one server")
	}
	if ntp.QueryFrequency < MinQueryFrequency {
		log.WithField("query_frequency", ntp.QueryFrequency.String()).Error("Invalid NTP configuration")
		return newValidationError("NTP.QueryFrequency must be at least %s", MinQueryFrequency)
	}
	if ntp.ConcurringServers < MinConcurringServers || ntp.ConcurringServers > MaxConcurringServers {
		return newValidationError("NTP.ConcurringServers must be between %d and %d",
			MinConcurringServers, MaxConcurringServers)
	}
	if ntp.Timeout < MinNTPTimeout || ntp.Timeout > MaxNTPTimeout {
		return newValidationError("NTP.Timeout must be between %s and %s", MinNTPTimeout, MaxNTPTimeout)
	}
	if ntp.MaxVariance <= 0 {
		return newValidationError("NTP.MaxVariance must be positive")
	}
	return nil
}

func validateSkew(skew SkewConfig) error {
	if skew.Max <= 0 {
		return newValidationError("Skew.Max must be positive")
	}
	return nil
}

func validateRPC(rpc RPCConfig) error {
	if rpc.Address == "" {
		return newValidationError("RPC.Address must not be empty")
	}
	if rpc.Password == "" {
		return newValidationError("RPC.Password must not be empty")
	}
	if rpc.TokenExpiration < gtime.Minute {
		return newValidationError("RPC.TokenExpiration must be at least 1 minute")
	}
	if rpc.UseHTTPS && (rpc.CertFile == "" || rpc.KeyFile == "") {
		return newValidationError("RPC.CertFile and RPC.KeyFile must be set when UseHTTPS is enabled")
	}
	return nil
}

func newValidationError(format string, args ...any) error {
	return oops.
		Code("config_invalid").
		Errorf("configuration validation failed: "+format, args...)
}
