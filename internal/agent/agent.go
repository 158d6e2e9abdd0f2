package agent

import (
	"context"
	"fmt"
	"log/slog"

	"calput/internal/caldav"
	"calput/internal/config"
	"calput/internal/models"
	"calput/internal/msgraph"
)

// Result is the outcome of one create attempt. Expected failures such as
// rejected uploads, transport errors and unsupported reminders land here;
// only configuration problems surface as errors.
type Result struct {
	OK      bool
	Message string
}

// Backend creates a single event and reports the outcome as a success flag
// plus a human-readable message.
type Backend interface {
	CreateEvent(ctx context.Context, event *models.Event) (bool, string)
}

// Dispatcher routes events to the backend selected by the configured mode.
type Dispatcher struct {
	logger  *slog.Logger
	backend Backend
}

// New selects the backend once from configuration. An unknown mode is a
// fatal configuration error; nothing is attempted.
func New(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Dispatcher, error) {
	backend, err := newBackend(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{logger: logger, backend: backend}, nil
}

func newBackend(ctx context.Context, logger *slog.Logger, cfg *config.Config) (Backend, error) {
	switch cfg.Mode {
	case config.ModeCalDAV:
		return caldav.New(logger, cfg)
	case config.ModeGraph:
		return msgraph.New(ctx, logger, cfg)
	default:
		return nil, fmt.Errorf("invalid client mode %q: must be %q or %q", cfg.Mode, config.ModeCalDAV, config.ModeGraph)
	}
}

// CreateEvent creates one event, prefixing the backend message with the
// event name.
func (d *Dispatcher) CreateEvent(ctx context.Context, event *models.Event) Result {
	ok, msg := d.backend.CreateEvent(ctx, event)
	return Result{OK: ok, Message: fmt.Sprintf("%s\n%s", event.Name, msg)}
}

// CreateEvents attempts every event strictly in input order. A failure,
// encoding failures included, never stops the rest of the batch.
func (d *Dispatcher) CreateEvents(ctx context.Context, events []*models.Event) []Result {
	results := make([]Result, 0, len(events))
	for _, event := range events {
		res := d.CreateEvent(ctx, event)
		if res.OK {
			d.logger.Info("Event created", "name", event.Name, "uid", event.UID)
		} else {
			d.logger.Error("Event creation failed", "name", event.Name, "uid", event.UID)
		}
		results = append(results, res)
	}
	return results
}
