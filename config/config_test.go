package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	name := filepath.Join(t.TempDir(), "repatcher.toml")
	require.NoError(t, os.WriteFile(name, []byte(data), 0644))
	return name
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 38400, cfg.Serial.Baud)
	assert.Equal(t, "127.0.0.1", cfg.OSC.Host)
	assert.Equal(t, 12000, cfg.OSC.Port)
	assert.Equal(t, ProtocolFrame, cfg.Decoder.Protocol)
	assert.Equal(t, "info", cfg.LogLevel())
}

func TestLoad(t *testing.T) {
	name := writeConfig(t, `
[serial]
port = "/dev/ttyUSB1"

[osc]
port = 57120

[decoder]
protocol = "block"

[monitor]
addr = ":9092"

[log]
verbose = true
`)
	cfg, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 38400, cfg.Serial.Baud)
	assert.Equal(t, "127.0.0.1", cfg.OSC.Host)
	assert.Equal(t, 57120, cfg.OSC.Port)
	assert.Equal(t, ProtocolBlock, cfg.Decoder.Protocol)
	assert.Equal(t, ":9092", cfg.Monitor.Addr)
	assert.Equal(t, "debug", cfg.LogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[serial`},
		{"protocol", "[decoder]\nprotocol = \"midi\""},
		{"port", "[osc]\nport = 70000"},
		{"baud", "[serial]\nbaud = 0"},
		{"host", "[osc]\nhost = \" \""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.data))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
