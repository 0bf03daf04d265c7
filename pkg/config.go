package pkg

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	envPort            = "PORT"
	envMetricsPort     = "METRICS_PORT"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envSendBufferSize  = "SEND_BUFFER_SIZE"
	envMaxMessageBytes = "MAX_MESSAGE_BYTES"
	envAllowedOrigins  = "ALLOWED_ORIGINS"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Config struct {
	Addr string
	// MetricsAddr is empty when the metrics listener is disabled.
	MetricsAddr     string
	LogLevel        log.Level
	LogFormat       string
	SendBufferSize  int
	MaxMessageBytes int64
	AllowedOrigins  []string
}

func DefaultConfig() *Config {
	return &Config{
		Addr:            ":5000",
		MetricsAddr:     ":8081",
		LogLevel:        log.InfoLevel,
		LogFormat:       LogFormatText,
		SendBufferSize:  256,
		MaxMessageBytes: 64 * 1024,
		AllowedOrigins:  []string{"*"},
	}
}

// LoadConfig reads the configuration from the environment, falling back to
// DefaultConfig for unset keys.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	if v, ok := lookupEnv(envPort); ok {
		addr, err := parseListenAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envPort, err)
		}
		config.Addr = addr
	}

	if v, ok := lookupEnv(envMetricsPort); ok {
		if strings.EqualFold(v, "off") {
			config.MetricsAddr = ""
		} else {
			addr, err := parseListenAddr(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", envMetricsPort, err)
			}
			config.MetricsAddr = addr
		}
	}

	if v, ok := lookupEnv(envLogLevel); ok {
		level, err := log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envLogLevel, err)
		}
		config.LogLevel = level
	}

	if v, ok := lookupEnv(envLogFormat); ok {
		switch format := strings.ToLower(v); format {
		case LogFormatText, LogFormatJSON:
			config.LogFormat = format
		default:
			return nil, fmt.Errorf("invalid %s: %q", envLogFormat, v)
		}
	}

	if v, ok := lookupEnv(envSendBufferSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", envSendBufferSize, v)
		}
		config.SendBufferSize = n
	}

	if v, ok := lookupEnv(envMaxMessageBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", envMaxMessageBytes, v)
		}
		config.MaxMessageBytes = n
	}

	if v, ok := lookupEnv(envAllowedOrigins); ok {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		config.AllowedOrigins = origins
	}

	return config, nil
}

// OriginAllowed reports whether a browser origin may open a socket. Requests
// without an Origin header come from non-browser clients and are allowed.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	return false
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}

	v = strings.TrimSpace(v)
	return v, v != ""
}

// parseListenAddr accepts a bare port ("5000") or an address (":5000",
// "127.0.0.1:5000").
func parseListenAddr(v string) (string, error) {
	if strings.ContainsAny(v, " \t") {
		return "", fmt.Errorf("%q contains whitespace", v)
	}

	if strings.Contains(v, ":") {
		return v, nil
	}

	port, err := strconv.Atoi(v)
	if err != nil || port < 0 || port > 65535 {
		return "", fmt.Errorf("%q is not a valid port", v)
	}

	return ":" + v, nil
}
