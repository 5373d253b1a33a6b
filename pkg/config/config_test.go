package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
nameservices:
  - name: mycluster
    namenodes:
      - name: nn1
        rpc_address: "nn1.example.com:8020"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRate)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, 10*time.Second, cfg.Client.DialTimeout)
	assert.Equal(t, 60*time.Second, cfg.Client.CallTimeout)
	assert.Len(t, cfg.Nameservices, 1)
	assert.Equal(t, "nn1.example.com:8020", cfg.Nameservices[0].Namenodes[0].RPCAddress)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
nameservices:
  - name: mycluster
    namenodes:
      - name: nn1
        rpc_address: "nn1.example.com:8020"
logging:
  level: DEBUG
  format: json
  output: /var/log/gohdfs.log
client:
  dial_timeout: 5s
  call_timeout: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5*time.Second, cfg.Client.DialTimeout)
	assert.Equal(t, 30*time.Second, cfg.Client.CallTimeout)
}

func TestLoadMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsEmptyNameservices(t *testing.T) {
	path := writeConfig(t, `nameservices: []`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsDuplicateNameserviceNames(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Nameservices = []NameserviceConfig{
		{Name: "dup", Namenodes: []NamenodeConfig{{Name: "a", RPCAddress: "a:8020"}}},
		{Name: "dup", Namenodes: []NamenodeConfig{{Name: "b", RPCAddress: "b:8020"}}},
	}
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate nameservice")
}

func TestValidateRejectsNamenodeWithoutAddress(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Nameservices = []NameserviceConfig{
		{Name: "mycluster", Namenodes: []NamenodeConfig{{Name: "nn1"}}},
	}
	assert.Error(t, Validate(cfg))
}

func TestGetDefaultConfigPathUsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgtest")
	assert.Equal(t, "/tmp/xdgtest/gohdfs/config.yaml", GetDefaultConfigPath())
}

func TestWatchConstructsWatcher(t *testing.T) {
	path := writeConfig(t, `
nameservices:
  - name: mycluster
    namenodes:
      - name: nn1
        rpc_address: "nn1.example.com:8020"
`)

	changed := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) {
		changed <- cfg
	})
	require.NoError(t, err)
	assert.NotNil(t, w)

	// Rewriting the file should trigger fsnotify, but the callback's
	// delivery is asynchronous and environment-dependent (e.g. no
	// inotify support in some CI sandboxes), so this only exercises
	// construction, not the notification itself.
}
