package notifications

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gen2brain/beeep"

	"envwatch/internal/logging"
)

type sendFunc func(title, message, icon string) error

// desktopNotifier raises OS notifications without blocking the caller.
type desktopNotifier struct {
	send   sendFunc
	logger *slog.Logger
	wg     sync.WaitGroup
}

func newDesktopNotifier(sound bool, logger *slog.Logger) *desktopNotifier {
	send := sendFunc(beeep.Notify)
	if sound {
		send = beeep.Alert
	}
	return &desktopNotifier{send: send, logger: logger}
}

func (d *desktopNotifier) Publish(_ context.Context, event Event, payload Payload) error {
	msg, ok := render(event, payload)
	if !ok {
		return nil
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.send(msg.title, msg.body, ""); err != nil {
			logging.WarnWithContext(d.logger, "desktop notification failed", "notification_failed",
				logging.String("event", string(event)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "verify a notification daemon is running"),
				logging.String(logging.FieldImpact, "notification was not displayed"),
			)
		}
	}()
	return nil
}

func (d *desktopNotifier) Wait() {
	d.wg.Wait()
}
