package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/gate"
)

// Planner holds the settings of the planner CLI.
type Planner struct {
	// APIURL is the base URL of the Trip Board API.
	APIURL string
	// GateLower and GateUpper bound how long controls stay disabled around a mutation.
	GateLower time.Duration
	GateUpper time.Duration
	// LogLevel controls the minimum log level.
	LogLevel string
	// Timeout bounds every HTTP request to the API.
	Timeout time.Duration
}

// Planner config keys. Nested keys map to env vars with dots replaced by
// underscores, e.g. gate.lower is TRIPBOARD_GATE_LOWER.
const (
	KeyAPIURL    = "api_url"
	KeyGateLower = "gate.lower"
	KeyGateUpper = "gate.upper"
	KeyLogLevel  = "log_level"
	KeyTimeout   = "timeout"
)

// EnvPrefix prefixes every planner environment variable.
const EnvPrefix = "TRIPBOARD"

// LoadPlanner resolves planner settings from v. Flags bound on v win over
// TRIPBOARD_* environment variables, which win over the YAML config file,
// which wins over defaults. A missing config file is not an error; with
// cfgFile empty, .tripboard.yaml is searched in the working and home dirs.
func LoadPlanner(v *viper.Viper, cfgFile string) (Planner, error) {
	v.SetDefault(KeyAPIURL, "http://localhost:8080")
	v.SetDefault(KeyGateLower, gate.DefaultLower)
	v.SetDefault(KeyGateUpper, gate.DefaultUpper)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyTimeout, 10*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".tripboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Planner{}, fmt.Errorf("config.LoadPlanner: read config: %w", err)
		}
	}

	p := Planner{
		APIURL:    strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		GateLower: v.GetDuration(KeyGateLower),
		GateUpper: v.GetDuration(KeyGateUpper),
		LogLevel:  v.GetString(KeyLogLevel),
		Timeout:   v.GetDuration(KeyTimeout),
	}
	if p.APIURL == "" {
		return Planner{}, fmt.Errorf("config.LoadPlanner: %w: api_url is required", domain.ErrValidation)
	}
	if p.GateLower < 0 || p.GateUpper <= p.GateLower {
		return Planner{}, fmt.Errorf("config.LoadPlanner: %w: need 0 <= gate.lower < gate.upper", domain.ErrValidation)
	}
	if p.Timeout <= 0 {
		return Planner{}, fmt.Errorf("config.LoadPlanner: %w: timeout must be positive", domain.ErrValidation)
	}
	return p, nil
}
