// ABOUTME: Process-wide logrus configuration for demoseed commands.
// ABOUTME: Logs go to stderr so command confirmations on stdout stay clean.

package logging

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Formats accepted by Configure.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Configure sets the level, formatter and output of the standard logrus logger.
func Configure(level, format string, out io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "", FormatText:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format %q (want %q or %q)", format, FormatText, FormatJSON)
	}

	log.SetLevel(lvl)
	log.SetOutput(out)
	return nil
}

// ParseLevel converts a level name to a logrus level. An empty string means info.
func ParseLevel(s string) (log.Level, error) {
	if strings.TrimSpace(s) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return log.InfoLevel, errors.Wrap(err, "parse log level")
	}
	return lvl, nil
}
