// (c) Copyright Enthought, Inc. 2013

package erinyes

import "github.com/enthought/erinyes/logger"

// LeveledLogger is an interface of a generic logger that supports leveled
// logging. github.com/sirupsen/logrus.Logger and
// go.uber.org/zap.SugaredLogger satisfy it, as well as the bundled
// logger.Logger.
type LeveledLogger interface {
	Debug(v ...interface{})
	Info(v ...interface{})
	Warn(v ...interface{})
	Error(v ...interface{})
}

var defaultLogger LeveledLogger = logger.New(nil)

// SetLogger changes the package-wide logger. Passing nil restores the
// bundled stderr logger.
func SetLogger(l LeveledLogger) {
	if l == nil {
		l = logger.New(nil)
	}

	defaultLogger = l
}
