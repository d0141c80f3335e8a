package logger

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestErrorWithoutSentry(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	entry := l.WithField("component", "test")

	assert.NotPanics(t, func() {
		Error(entry, "stream ended", errors.New("connection reset"))
	})
	assert.Contains(t, buf.String(), "stream ended")
	assert.Contains(t, buf.String(), "connection reset")
	assert.Contains(t, buf.String(), "component=test")
}

func TestSetLevel(t *testing.T) {
	SetLevel("debug")
	assert.Equal(t, logrus.DebugLevel, GetProjectLogger().Logger.GetLevel())

	SetLevel("loud")
	assert.Equal(t, logrus.DebugLevel, GetProjectLogger().Logger.GetLevel())

	SetLevel("info")
}
