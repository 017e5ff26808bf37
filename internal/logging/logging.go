// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLevel overrides the log level when no flag is given.
const EnvLevel = "HELIX_ANYWHERE_LOG"

// Format names accepted by Setup.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Setup points the standard logger at w with the given level and format.
// An empty level falls back to $HELIX_ANYWHERE_LOG, then "info".
func Setup(w io.Writer, level, format string) error {
	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "", FormatText:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
	case FormatJSON:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q: want %q or %q", format, FormatText, FormatJSON)
	}

	logrus.SetOutput(w)
	logrus.SetLevel(lvl)
	return nil
}
