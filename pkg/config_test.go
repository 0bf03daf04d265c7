package pkg

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{envPort, envMetricsPort, envLogLevel, envLogFormat,
		envSendBufferSize, envMaxMessageBytes, envAllowedOrigins} {
		t.Setenv(key, "")
	}

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv(envPort, "9000")
	t.Setenv(envMetricsPort, "127.0.0.1:9100")
	t.Setenv(envLogLevel, "debug")
	t.Setenv(envLogFormat, "JSON")
	t.Setenv(envSendBufferSize, "16")
	t.Setenv(envMaxMessageBytes, "1024")
	t.Setenv(envAllowedOrigins, "https://a.example, https://b.example,")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9000", config.Addr)
	assert.Equal(t, "127.0.0.1:9100", config.MetricsAddr)
	assert.Equal(t, log.DebugLevel, config.LogLevel)
	assert.Equal(t, LogFormatJSON, config.LogFormat)
	assert.Equal(t, 16, config.SendBufferSize)
	assert.Equal(t, int64(1024), config.MaxMessageBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.AllowedOrigins)
}

func TestLoadConfigDisablesMetrics(t *testing.T) {
	t.Setenv(envMetricsPort, "off")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, config.MetricsAddr)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		envPort:            "80 80",
		envMetricsPort:     "http",
		envLogLevel:        "loud",
		envLogFormat:       "xml",
		envSendBufferSize:  "0",
		envMaxMessageBytes: "lots",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	config := DefaultConfig()
	assert.True(t, config.OriginAllowed("https://anything.example"))

	config.AllowedOrigins = []string{"https://app.example"}
	assert.True(t, config.OriginAllowed(""))
	assert.True(t, config.OriginAllowed("https://APP.example"))
	assert.False(t, config.OriginAllowed("https://evil.example"))
}

func TestConfigureLogging(t *testing.T) {
	level, formatter := log.GetLevel(), log.StandardLogger().Formatter
	t.Cleanup(func() {
		log.SetLevel(level)
		log.SetFormatter(formatter)
	})

	config := DefaultConfig()
	config.LogLevel = log.WarnLevel
	config.LogFormat = LogFormatJSON
	ConfigureLogging(config)

	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)
}
