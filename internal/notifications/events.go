package notifications

import (
	"fmt"
	"strings"
)

// Event identifies a notification type.
type Event string

const (
	EventRotationRequired Event = "rotation_required"
	EventTest             Event = "test"
)

// Payload carries event-specific values. Recognized keys are "title",
// "message" and "count".
type Payload map[string]any

const appTitle = "envwatch"

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

// render converts an event into a delivery-ready message. Unknown events
// report false and are skipped by every backend.
func render(event Event, payload Payload) (message, bool) {
	switch event {
	case EventRotationRequired:
		title := payloadString(payload, "title")
		if title == "" {
			title = "Rotation Required"
		}
		body := payloadString(payload, "message")
		if body == "" {
			count := payloadInt(payload, "count")
			body = fmt.Sprintf("%d secret(s) need rotation", count)
		}
		return message{
			title:    withAppTitle(title),
			body:     body,
			tags:     []string{appTitle, "rotation", "secrets"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    withAppTitle("Test"),
			body:     "🧪 Notification system test",
			tags:     []string{appTitle, "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func withAppTitle(title string) string {
	return appTitle + " - " + title
}

func payloadString(payload Payload, key string) string {
	if payload == nil {
		return ""
	}
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func payloadInt(payload Payload, key string) int {
	if payload == nil {
		return 0
	}
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
