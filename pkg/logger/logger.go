// Package logger builds the application's logrus logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a configured logrus logger. Development gets human-readable
// text output, every other environment gets JSON.
func New(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if env == "development" && level == "" {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)

	if env == "development" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Debug("logger initialized")
	return logger
}
