// Package config resolves krwhois settings from flags, environment variables,
// and the YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tbckr/krwhois/internal/appdir"
)

// PlaceholderServiceKey is the documented "unset" value for the service key.
// A key equal to it is treated as missing.
const PlaceholderServiceKey = "your_service_key_here"

// DefaultAPIURL is the base URL of the KISA WHOIS OpenAPI on data.go.kr.
const DefaultAPIURL = "http://apis.data.go.kr/B551505/whois"

// Defaults for the lookup settings.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultBatchSize = 100
	DefaultDelay     = 100 * time.Millisecond
)

// envPrefix namespaces environment variables (KRWHOIS_SERVICE_KEY, ...).
const envPrefix = "KRWHOIS"

// legacyServiceKeyEnv is also accepted for the service key.
const legacyServiceKeyEnv = "WHOIS_SERVICE_KEY"

// Flag names shared by RegisterFlags and the CLI.
const (
	FlagConfig      = "config"
	FlagVerbose     = "verbose"
	FlagOutput      = "output"
	FlagServiceKey  = "service-key"
	FlagAPIURL      = "api-url"
	FlagTimeout     = "timeout"
	FlagProxy       = "proxy"
	FlagUserAgent   = "user-agent"
	FlagBatchSize   = "batch-size"
	FlagDelay       = "delay"
	FlagMetricsFile = "metrics-file"
)

// ErrUnknownKey is returned for config keys krwhois does not know.
var ErrUnknownKey = errors.New("unknown config key")

// Config is the fully-resolved runtime configuration.
type Config struct {
	ConfigFile  string        `yaml:"-"`
	Verbose     bool          `yaml:"verbose"`
	Output      string        `yaml:"output"`
	ServiceKey  string        `yaml:"service_key"`
	APIURL      string        `yaml:"api_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Proxy       string        `yaml:"proxy"`
	UserAgent   string        `yaml:"user_agent"`
	BatchSize   int           `yaml:"batch_size"`
	Delay       time.Duration `yaml:"delay"`
	MetricsFile string        `yaml:"metrics_file"`
}

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindPositiveInt
	kindPositiveDuration
	kindNonNegativeDuration
	kindOutput
)

// keys maps every config key to its flag and value kind.
var keys = map[string]struct {
	flag string
	kind keyKind
}{
	"verbose":      {FlagVerbose, kindBool},
	"output":       {FlagOutput, kindOutput},
	"service_key":  {FlagServiceKey, kindString},
	"api_url":      {FlagAPIURL, kindString},
	"timeout":      {FlagTimeout, kindPositiveDuration},
	"proxy":        {FlagProxy, kindString},
	"user_agent":   {FlagUserAgent, kindString},
	"batch_size":   {FlagBatchSize, kindPositiveInt},
	"delay":        {FlagDelay, kindNonNegativeDuration},
	"metrics_file": {FlagMetricsFile, kindString},
}

// OutputFormats lists the accepted --output values.
var OutputFormats = []string{"table", "json", "plain"}

// RegisterFlags adds every config-backed flag to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(FlagConfig, "", "config file (default: $XDG_CONFIG_HOME/krwhois/config.yaml)")
	flags.BoolP(FlagVerbose, "v", false, "enable verbose logging (debug level)")
	flags.StringP(FlagOutput, "o", "table", "output format: table, json, plain")
	flags.String(FlagServiceKey, "", "data.go.kr service key for the KISA WHOIS API (env: KRWHOIS_SERVICE_KEY, WHOIS_SERVICE_KEY)")
	flags.String(FlagAPIURL, DefaultAPIURL, "base URL of the WHOIS API")
	flags.Duration(FlagTimeout, DefaultTimeout, "timeout for a single registry call")
	flags.String(FlagProxy, "", "proxy URL (supports HTTP, HTTPS, SOCKS5, e.g., socks5://127.0.0.1:9050)")
	flags.String(FlagUserAgent, "", "custom User-Agent string")
	flags.Int(FlagBatchSize, DefaultBatchSize, "number of lookups dispatched concurrently per batch")
	flags.Duration(FlagDelay, DefaultDelay, "pause between batches")
	flags.String(FlagMetricsFile, "", "write Prometheus metrics in textfile format to this path after a run")
}

// Load resolves the configuration. The config file named by --config (or the
// default path) is created empty with 0600 permissions if it does not exist.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfgFile, err := flags.GetString(FlagConfig)
	if err != nil {
		return nil, fmt.Errorf("reading --%s: %w", FlagConfig, err)
	}
	if cfgFile == "" {
		if cfgFile, err = appdir.DefaultConfigFile(); err != nil {
			return nil, err
		}
	}
	if err := appdir.EnsureFile(cfgFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", cfgFile, err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("service_key", envPrefix+"_SERVICE_KEY", legacyServiceKeyEnv); err != nil {
		return nil, fmt.Errorf("binding service key env: %w", err)
	}

	for key, meta := range keys {
		if f := flags.Lookup(meta.flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", meta.flag, err)
			}
		}
	}

	cfg := &Config{
		ConfigFile:  cfgFile,
		Verbose:     v.GetBool("verbose"),
		Output:      v.GetString("output"),
		ServiceKey:  strings.TrimSpace(v.GetString("service_key")),
		APIURL:      strings.TrimRight(v.GetString("api_url"), "/"),
		Timeout:     v.GetDuration("timeout"),
		Proxy:       v.GetString("proxy"),
		UserAgent:   v.GetString("user_agent"),
		BatchSize:   v.GetInt("batch_size"),
		Delay:       v.GetDuration("delay"),
		MetricsFile: v.GetString("metrics_file"),
	}
	return cfg, nil
}

// setDefaults configures Viper default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("output", "table")
	v.SetDefault("service_key", "")
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("proxy", "")
	v.SetDefault("user_agent", "")
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("delay", DefaultDelay)
	v.SetDefault("metrics_file", "")
}

// UsableServiceKey reports whether key is set and is not the placeholder.
func UsableServiceKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderServiceKey
}

// HasServiceKey reports whether the configured service key is usable.
func (c *Config) HasServiceKey() bool {
	return UsableServiceKey(c.ServiceKey)
}

// Masked returns a copy of c with the service key masked for display.
func (c *Config) Masked() Config {
	out := *c
	out.ServiceKey = MaskSecret(c.ServiceKey)
	return out
}

// MaskSecret hides all but the last four characters of s.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// ValidKeys returns all keys accepted by "config get" and "config set".
func ValidKeys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	return out
}

// normalizeKey accepts both service_key and service-key spellings.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// ValidateKey returns ErrUnknownKey when key is not a config key.
func ValidateKey(key string) error {
	if _, ok := keys[normalizeKey(key)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// ParseValue converts the string value for key into its typed form
// (bool, int, duration string, or string) and validates it.
func ParseValue(key, value string) (any, error) {
	meta, ok := keys[normalizeKey(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	switch meta.kind {
	case kindBool:
		switch value {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q for %s", value, key)
	case kindPositiveInt:
		var n int
		if _, err := fmt.Sscan(value, &n); err != nil || fmt.Sprint(n) != value || n < 1 {
			return nil, fmt.Errorf("invalid value %q for %s: must be an integer >= 1", value, key)
		}
		return n, nil
	case kindPositiveDuration, kindNonNegativeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q for %s: %w", value, key, err)
		}
		if d < 0 || (d == 0 && meta.kind == kindPositiveDuration) {
			return nil, fmt.Errorf("invalid duration %q for %s: out of range", value, key)
		}
		return d.String(), nil
	case kindOutput:
		for _, f := range OutputFormats {
			if value == f {
				return value, nil
			}
		}
		return nil, fmt.Errorf("invalid output format %q: must be one of %s", value, strings.Join(OutputFormats, ", "))
	default:
		return value, nil
	}
}

// Set validates value and writes key to the YAML config file at path,
// preserving the other keys in the file.
func Set(path, key, value string) error {
	parsed, err := ParseValue(key, value)
	if err != nil {
		return err
	}
	if err := appdir.EnsureFile(path); err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	doc[normalizeKey(key)] = parsed
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config file: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// YAML renders c (service key masked) as YAML.
func (c *Config) YAML() ([]byte, error) {
	masked := c.Masked()
	return yaml.Marshal(masked)
}
