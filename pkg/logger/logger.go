package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(os.Stdout)

	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithService creates a logger with service context
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}

// WithGameContext tags entries with the matchup being composed
func WithGameContext(gameID, homeTeam, awayTeam string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"game_id":   gameID,
		"home_team": homeTeam,
		"away_team": awayTeam,
	})
}

// WithPlayerContext tags entries with a single player
func WithPlayerContext(playerID, name string) *logrus.Entry {
	fields := logrus.Fields{}
	if playerID != "" {
		fields["player_id"] = playerID
	}
	if name != "" {
		fields["player"] = name
	}
	return GetLogger().WithFields(fields)
}

// WithHTTPContext creates a logger with HTTP request context
func WithHTTPContext(method, path, userAgent string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"http_method":     method,
		"http_path":       path,
		"http_user_agent": userAgent,
	})
}
