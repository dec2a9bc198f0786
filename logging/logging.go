// Package logging builds the per-component loggers.
package logging

import (
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var base = newBase()

func newBase() *logrus.Logger {
	log := logrus.New()
	log.Formatter = &prefixed.TextFormatter{FullTimestamp: true}
	log.Level = logrus.InfoLevel
	return log
}

// SetLevel changes the level of every logger returned by New.
func SetLevel(level logrus.Level) {
	base.SetLevel(level)
}

// ParseLevel sets the level by name ("debug", "info", ...).
func ParseLevel(name string) error {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	SetLevel(level)
	return nil
}

// New creates a logger tagged with prefix.
func New(prefix string) *logrus.Entry {
	return base.WithField("prefix", prefix)
}
