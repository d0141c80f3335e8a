package logger

import (
	"os"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

const projectName = "score-following"

var (
	once          sync.Once
	projectLogger *logrus.Entry
)

// GetProjectLogger returns the logger shared by every package in the project
func GetProjectLogger() *logrus.Entry {
	once.Do(func() {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		projectLogger = l.WithField("name", projectName)
	})
	return projectLogger
}

// SetLevel parses a level name like "debug" and applies it. Unknown names leave the level alone.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		GetProjectLogger().Warnf("unknown log level %q, keeping %v", level, GetProjectLogger().Logger.GetLevel())
		return
	}
	GetProjectLogger().Logger.SetLevel(lvl)
}

// Error logs err and reports it to Sentry if a client has been configured
func Error(entry *logrus.Entry, msg string, err error) {
	entry.WithError(err).Error(msg)

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for k, v := range entry.Data {
				scope.SetExtra(k, v)
			}
			scope.SetExtra("message", msg)
			hub.CaptureException(err)
		})
	}
}
