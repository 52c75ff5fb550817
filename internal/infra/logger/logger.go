package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"seasonal_food_bot/internal/infra/config"
)

// Log is shared by every component; use For to get a tagged entry.
var Log = logrus.New()

// Init applies level and format from cfg. Unknown levels fall back to info.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(formatterFor(cfg.Environment))

	level, known := levelFor(cfg.LogLevel)
	Log.SetLevel(level)
	if !known {
		Log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
	}

	Log.WithFields(logrus.Fields{
		"level":       level.String(),
		"environment": cfg.Environment,
	}).Debug("Logger ready")
}

func levelFor(name string) (logrus.Level, bool) {
	level, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return logrus.InfoLevel, false
	}
	return level, true
}

func formatterFor(environment string) logrus.Formatter {
	switch strings.ToLower(environment) {
	case "production", "staging":
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	default:
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}
	}
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
