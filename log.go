package goldesk

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Logger returns the logger used by the desk.
func Logger() *logrus.Logger { return logger }

// SetLogger replaces the logger used by the desk, nil restores the default.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = newLogger()
	}
	logger = l
}
