// Package logger configures the process-wide logrus logger.
package logger

import (
    "io"
    "os"
    "strings"

    "github.com/sirupsen/logrus"
)

// New builds a logger writing to stdout.  format is "json" (default) or
// "text"; an unknown level falls back to info.
func New(level, format string) *logrus.Logger {
    return newWithOutput(level, format, os.Stdout)
}

func newWithOutput(level, format string, out io.Writer) *logrus.Logger {
    l := logrus.New()
    l.SetOutput(out)

    switch strings.ToLower(strings.TrimSpace(format)) {
    case "text":
        l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
    default:
        l.SetFormatter(&logrus.JSONFormatter{})
    }

    lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
    if err != nil {
        lvl = logrus.InfoLevel
    }
    l.SetLevel(lvl)
    return l
}
