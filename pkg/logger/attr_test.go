package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

func TestError(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
}

func TestErrors(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))

	attr := logger.Errors(errors.New("one"), nil, errors.New("two"))
	assert.Equal(t, "errors", attr.Key)
	assert.Len(t, attr.Value.Group(), 2)
}

func TestDomainAttrs(t *testing.T) {
	assert.Equal(t, slog.String("notification_id", "n-1"), logger.NotificationID("n-1"))
	assert.Equal(t, slog.String("recipient_id", "u-1"), logger.RecipientID("u-1"))
	assert.Equal(t, slog.String("template_id", "welcome"), logger.TemplateID("welcome"))
	assert.Equal(t, slog.String("provider_id", "postmark"), logger.ProviderID("postmark"))
	assert.Equal(t, slog.String("channel", "email"), logger.Channel("email"))
	assert.Equal(t, slog.String("priority", "high"), logger.Priority("high"))
	assert.Equal(t, slog.Int("attempt", 2), logger.Attempt(2))
	assert.Equal(t, slog.Duration("duration", time.Second), logger.Duration(time.Second))
	assert.Equal(t, slog.String("component", "dispatcher"), logger.Component("dispatcher"))
	assert.Equal(t, slog.String("event", "delivered"), logger.Event("delivered"))
}

func TestGroup(t *testing.T) {
	attr := logger.Group("notification",
		logger.NotificationID("n-1"),
		logger.Channel("email"),
	)
	assert.Equal(t, "notification", attr.Key)
	assert.Len(t, attr.Value.Group(), 2)
}
