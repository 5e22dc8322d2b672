package helpers

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		env, level string
		want       logrus.Level
	}{
		{env: "development", want: logrus.DebugLevel},
		{env: "production", want: logrus.InfoLevel},
		{env: "production", level: "warn", want: logrus.WarnLevel},
		{env: "development", level: "loud", want: logrus.DebugLevel},
	}
	for _, tt := range tests {
		logger := NewLogger("test", tt.env, tt.level)
		if logger.GetLevel() != tt.want {
			t.Errorf("env=%s level=%q: expected %v, got %v", tt.env, tt.level, tt.want, logger.GetLevel())
		}
	}
}

func TestLogErrorAttachesError(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	LogError(logger, "booking failed", errors.New("boom"), logrus.Fields{"op": "book"})
	out := buf.String()
	for _, want := range []string{`"error":"boom"`, `"op":"book"`, `"msg":"booking failed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}

	LogError(nil, "ignored", errors.New("boom"), nil)
}
