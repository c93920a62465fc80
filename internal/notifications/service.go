package notifications

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"envwatch/internal/config"
	"envwatch/internal/logging"
)

// Service publishes notification events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds the notification service described by cfg. Desktop and
// ntfy backends are combined when both are enabled; a no-op service is
// returned when neither is.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	if cfg == nil {
		return noopService{}
	}
	logger = logging.NewComponentLogger(logger, "notifications")

	var services []Service
	if cfg.Notifications.Desktop {
		services = append(services, newDesktopNotifier(cfg.Notifications.Sound, logger))
	}
	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		services = append(services, &ntfyService{
			endpoint: topic,
			client:   &http.Client{Timeout: timeout},
			logger:   logger,
		})
	}

	switch len(services) {
	case 0:
		return noopService{}
	case 1:
		return services[0]
	default:
		return fanout(services)
	}
}

// Wait blocks until asynchronous deliveries started by svc have finished.
// Services without background delivery return immediately.
func Wait(svc Service) {
	if w, ok := svc.(interface{ Wait() }); ok {
		w.Wait()
	}
}

type fanout []Service

func (f fanout) Publish(ctx context.Context, event Event, payload Payload) error {
	var errs []error
	for _, svc := range f {
		if err := svc.Publish(ctx, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) Wait() {
	for _, svc := range f {
		Wait(svc)
	}
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
