package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tbckr/krwhois/internal/config"
)

// newTestFlags registers all config flags on a fresh FlagSet, then parses extra args.
func newTestFlags(t *testing.T, cfgFile string, extra ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	args := append([]string{"--config=" + cfgFile}, extra...)
	require.NoError(t, flags.Parse(args))
	return flags
}

// clearEnv unsets every environment variable Load consults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"KRWHOIS_SERVICE_KEY", "WHOIS_SERVICE_KEY", "KRWHOIS_OUTPUT", "KRWHOIS_BATCH_SIZE", "KRWHOIS_DELAY"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_DefaultsWithTempDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")

	cfg, err := config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, cfgFile, cfg.ConfigFile)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, config.DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay)
	assert.Empty(t, cfg.ServiceKey)
	assert.False(t, cfg.HasServiceKey())

	// Config file should now exist with 0600 permissions.
	info, err := os.Stat(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_FlagsOverride(t *testing.T) {
	clearEnv(t)
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := config.Load(newTestFlags(t, cfgFile,
		"--verbose",
		"--output=json",
		"--service-key=abc123",
		"--api-url=http://localhost:8080/whois/",
		"--timeout=3s",
		"--proxy=http://proxy:8080",
		"--user-agent=MyAgent/1.0",
		"--batch-size=5",
		"--delay=1s",
		"--metrics-file=/tmp/krwhois.prom",
	))
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "abc123", cfg.ServiceKey)
	assert.Equal(t, "http://localhost:8080/whois", cfg.APIURL, "trailing slash is trimmed")
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "http://proxy:8080", cfg.Proxy)
	assert.Equal(t, "MyAgent/1.0", cfg.UserAgent)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.Delay)
	assert.Equal(t, "/tmp/krwhois.prom", cfg.MetricsFile)
	assert.True(t, cfg.HasServiceKey())
}

func TestLoad_ConfigFileValues(t *testing.T) {
	clearEnv(t)
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("service_key: from-file\nbatch_size: 25\ndelay: 2s\n"), 0o600))

	cfg, err := config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.ServiceKey)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.Delay)

	// Flags beat the file.
	cfg, err = config.Load(newTestFlags(t, cfgFile, "--batch-size=7"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.BatchSize)
}

func TestLoad_ServiceKeyFromEnv(t *testing.T) {
	clearEnv(t)
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")

	t.Setenv("WHOIS_SERVICE_KEY", "legacy-key")
	cfg, err := config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.ServiceKey)

	t.Setenv("KRWHOIS_SERVICE_KEY", "prefixed-key")
	cfg, err = config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", cfg.ServiceKey)

	cfg, err = config.Load(newTestFlags(t, cfgFile, "--service-key=flag-key"))
	require.NoError(t, err)
	assert.Equal(t, "flag-key", cfg.ServiceKey)
}

func TestLoad_PlaceholderIsMissing(t *testing.T) {
	clearEnv(t)
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("WHOIS_SERVICE_KEY", config.PlaceholderServiceKey)

	cfg, err := config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.False(t, cfg.HasServiceKey())
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	clearEnv(t)
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("output: [unterminated\n"), 0o600))

	_, err := config.Load(newTestFlags(t, cfgFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestUsableServiceKey(t *testing.T) {
	assert.False(t, config.UsableServiceKey(""))
	assert.False(t, config.UsableServiceKey("   "))
	assert.False(t, config.UsableServiceKey(config.PlaceholderServiceKey))
	assert.True(t, config.UsableServiceKey("abc%2Bdef%3D%3D"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", config.MaskSecret(""))
	assert.Equal(t, "****", config.MaskSecret("abcd"))
	assert.Equal(t, "****6789", config.MaskSecret("0123456789"))
}

func TestYAML_MasksServiceKey(t *testing.T) {
	cfg := &config.Config{ServiceKey: "super-secret-key", Output: "json", Delay: time.Second}
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "super-secret")
	assert.Contains(t, string(out), "****-key")
	assert.Contains(t, string(out), "delay: 1s")
	assert.Equal(t, "super-secret-key", cfg.ServiceKey, "original is untouched")
}

func TestValidateKey(t *testing.T) {
	t.Run("valid_underscore", func(t *testing.T) {
		require.NoError(t, config.ValidateKey("batch_size"))
	})
	t.Run("valid_hyphen", func(t *testing.T) {
		require.NoError(t, config.ValidateKey("service-key"))
	})
	t.Run("all_keys", func(t *testing.T) {
		for _, k := range config.ValidKeys() {
			require.NoError(t, config.ValidateKey(k), "key %q should be valid", k)
		}
	})
	t.Run("unknown", func(t *testing.T) {
		err := config.ValidateKey("does_not_exist")
		require.Error(t, err)
		require.ErrorIs(t, err, config.ErrUnknownKey)
	})
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{key: "verbose", value: "true", want: true},
		{key: "verbose", value: "0", want: false},
		{key: "verbose", value: "yes", wantErr: true},
		{key: "batch_size", value: "50", want: 50},
		{key: "batch-size", value: "0", wantErr: true},
		{key: "batch_size", value: "5x", wantErr: true},
		{key: "delay", value: "0s", want: "0s"},
		{key: "delay", value: "250ms", want: "250ms"},
		{key: "delay", value: "-1s", wantErr: true},
		{key: "timeout", value: "0s", wantErr: true},
		{key: "timeout", value: "soon", wantErr: true},
		{key: "output", value: "json", want: "json"},
		{key: "output", value: "xml", wantErr: true},
		{key: "service_key", value: "abc", want: "abc"},
		{key: "nope", value: "x", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.key+"/"+tc.value, func(t *testing.T) {
			got, err := config.ParseValue(tc.key, tc.value)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSet_PreservesOtherKeys(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, config.Set(cfgFile, "service-key", "abc"))
	require.NoError(t, config.Set(cfgFile, "batch_size", "20"))

	raw, err := os.ReadFile(cfgFile)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	assert.Equal(t, "abc", doc["service_key"])
	assert.Equal(t, 20, doc["batch_size"])

	info, err := os.Stat(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.Error(t, config.Set(cfgFile, "batch_size", "many"))
}
