package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// NotificationID records the notification identifier under the key "notification_id".
func NotificationID(id string) slog.Attr {
	return slog.String("notification_id", id)
}

// RecipientID records the recipient identifier under the key "recipient_id".
func RecipientID(id string) slog.Attr {
	return slog.String("recipient_id", id)
}

// TemplateID records the template identifier under the key "template_id".
func TemplateID(id string) slog.Attr {
	return slog.String("template_id", id)
}

// ProviderID records the provider identifier under the key "provider_id".
func ProviderID(id string) slog.Attr {
	return slog.String("provider_id", id)
}

// Channel records the delivery channel under the key "channel".
func Channel(channel string) slog.Attr {
	return slog.String("channel", channel)
}

// Priority records the priority name under the key "priority".
func Priority(priority string) slog.Attr {
	return slog.String("priority", priority)
}

// Attempt records the delivery attempt number under the key "attempt".
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
