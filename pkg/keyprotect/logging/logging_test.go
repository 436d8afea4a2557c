package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactedNeverLeaksValue(t *testing.T) {
	attr := Redacted("passphrase")
	assert.Equal(t, Placeholder(), attr.Value.String())
	assert.NotContains(t, attr.Value.String(), "hunter2")
}

func TestLoggerWritesThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewTextHandler(&buf, nil)))
	l.Info(context.Background(), "protected key", Redacted("passphrase"))
	assert.Contains(t, buf.String(), "protected key")
	assert.Contains(t, buf.String(), Placeholder())
}

func TestWithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewTextHandler(&buf, nil))).With("op", "Protect")
	l.Warn(context.Background(), "bad passphrase")
	assert.Contains(t, buf.String(), "op=Protect")
}
