package common

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide structured logger, creating it on first use.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "oxy",
		})
		logger.SetLevel(log.InfoLevel)
	})
	return logger
}

// SetLogLevel changes the logger level. Accepted values are debug, info, warn, error and fatal.
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger().SetLevel(lvl)
	return nil
}

// LogDebug logs a formatted debug message.
func LogDebug(msg string, args ...interface{}) {
	Logger().Helper()
	Logger().Debugf(msg, args...)
}

// LogInfo logs a formatted info message.
func LogInfo(msg string, args ...interface{}) {
	Logger().Helper()
	Logger().Infof(msg, args...)
}

// LogWarn logs a formatted warning.
func LogWarn(msg string, args ...interface{}) {
	Logger().Helper()
	Logger().Warnf(msg, args...)
}

// LogError logs a formatted error message.
func LogError(msg string, args ...interface{}) {
	Logger().Helper()
	Logger().Errorf(msg, args...)
}

// LogFatal logs a formatted message and exits the process.
func LogFatal(msg string, args ...interface{}) {
	Logger().Helper()
	Logger().Fatalf(msg, args...)
}
