package logging

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger and returns it.
// level accepts debug, info, warn and error; anything else means info.
// format "json" switches to the JSON formatter, otherwise text is used.
func Setup(level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	logger := log.StandardLogger()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger
}
