package caldav

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"calput/internal/config"
	"calput/internal/models"
)

// Agent creates events on a CalDAV server by uploading single-event ICS
// documents with a WebDAV PUT.
type Agent struct {
	logger *slog.Logger
	cfg    *config.Config
	client webdav.HTTPClient
	tmpDir string // empty means the system temp dir
}

// New returns a CalDAV agent for the configured server.
func New(logger *slog.Logger, cfg *config.Config) (*Agent, error) {
	if cfg.Server == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("caldav agent requires CALDAV_SERVER, CALDAV_USERNAME and CALDAV_PASSWORD")
	}
	if cfg.OrganizerEmail == "" {
		return nil, fmt.Errorf("caldav agent requires ORGANIZER_EMAIL")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &Agent{
		logger: logger,
		cfg:    cfg,
		client: webdav.HTTPClientWithBasicAuth(httpClient, cfg.Username, cfg.Password),
	}, nil
}

// CreateEvent encodes the event and uploads it to the target calendar
// collection. Transport and HTTP failures are reported in the message, never
// raised.
func (a *Agent) CreateEvent(ctx context.Context, event *models.Event) (bool, string) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(EncodeICS(event, a.cfg)); err != nil {
		return false, fmt.Sprintf("ERROR: encode ICS: %v", err)
	}

	calendar := event.Calendar
	if calendar == "" {
		calendar = models.DefaultCalendar
	}
	return a.putICS(ctx, buf.Bytes(), calendar, event.UID)
}

// putICS stages the document in a temporary file and uploads its contents.
// The file is removed on every exit path, success or not.
func (a *Agent) putICS(ctx context.Context, document []byte, calendar, uid string) (bool, string) {
	tmp, err := os.CreateTemp(a.tmpDir, "calput-*.ics")
	if err != nil {
		return false, fmt.Sprintf("ERROR: create ICS file: %v", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(document); err != nil {
		tmp.Close()
		return false, fmt.Sprintf("ERROR: write ICS file %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Sprintf("ERROR: close ICS file %s: %v", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Sprintf("ERROR: read ICS file %s: %v", path, err)
	}

	url := fmt.Sprintf("%s/%s/%s/%s", a.cfg.Server, a.cfg.Username, calendar, uid)
	a.logger.Debug("Uploading ICS document", "url", url, "bytes", len(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return false, fmt.Sprintf("ERROR: build request: %v", err)
	}
	req.Header.Set("Content-Type", "text/calendar")
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("WebDAV PUT failed", "url", url, "error", err)
		return false, fmt.Sprintf("ERROR: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return true, fmt.Sprintf("Event created (%d)", resp.StatusCode)
	case http.StatusAccepted:
		return true, fmt.Sprintf("Event accepted (%d)", resp.StatusCode)
	case http.StatusNoContent:
		return true, fmt.Sprintf("No Content (%d)", resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		a.logger.Error("WebDAV PUT rejected", "url", url, "status", resp.StatusCode)
		return false, fmt.Sprintf("ERROR: %d, %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), body)
	}
}

// ListCalendars discovers the calendars available to the configured user,
// walking principal and calendar home set like any other CalDAV client.
func (a *Agent) ListCalendars(ctx context.Context) ([]caldav.Calendar, error) {
	client, err := caldav.NewClient(a.client, a.cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("create caldav client: %w", err)
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find calendar home set: %w", err)
	}
	calendars, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("find calendars: %w", err)
	}
	return calendars, nil
}
