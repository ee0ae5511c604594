package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const LogLevelEnv = "LOG_LEVEL"

// Setup configures the standard logrus logger. An empty level falls back to
// LOG_LEVEL and then to info.
func Setup(level string, json bool) error {
	if level == "" {
		level = os.Getenv(LogLevelEnv)
	}

	parsed := logrus.InfoLevel
	if level != "" {
		var err error
		if parsed, err = logrus.ParseLevel(level); err != nil {
			return fmt.Errorf("logger.Setup: %w", err)
		}
	}

	logrus.SetLevel(parsed)

	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return nil
}
