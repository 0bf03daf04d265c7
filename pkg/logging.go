package pkg

import (
	log "github.com/sirupsen/logrus"
)

func ConfigureLogging(config *Config) {
	log.SetLevel(config.LogLevel)

	switch config.LogFormat {
	case LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
