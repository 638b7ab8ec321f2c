// Package log builds the logrus loggers used by the engine and the
// command-line tools.
package log

import (
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv names the environment variable that enables debug output.
const DebugEnv = "FXGRAPH_DEBUG"

// GetLogger returns a new logger. The level is debug when FXGRAPH_DEBUG
// parses as true and info otherwise.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debugEnabled() {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

func debugEnabled() bool {
	debug, err := strconv.ParseBool(os.Getenv(DebugEnv))
	return err == nil && debug
}
