package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"calput/internal/config"
	"calput/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent(name string) *models.Event {
	return &models.Event{
		Name:        name,
		Description: "Daily sync",
		Start:       time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC),
		Calendar:    "personal",
		UID:         models.NewUID(name, "cloud.example.com"),
	}
}

// fakeBackend scripts per-event outcomes keyed by event name.
type fakeBackend struct {
	outcomes map[string]bool
	calls    []string
}

func (f *fakeBackend) CreateEvent(_ context.Context, event *models.Event) (bool, string) {
	f.calls = append(f.calls, event.Name)
	if f.outcomes[event.Name] {
		return true, "Event created (201)"
	}
	return false, "ERROR: 500, Internal Server Error: boom"
}

func TestNewRejectsUnknownMode(t *testing.T) {
	cfg := &config.Config{Mode: "imap", Domain: "cloud.example.com"}
	_, err := New(context.Background(), discardLogger(), cfg)
	if err == nil {
		t.Fatal("New() accepted an unknown mode")
	}
	if !strings.Contains(err.Error(), "invalid client mode") {
		t.Errorf("error = %q, want it to name the invalid mode", err)
	}
}

func TestCreateEventCalDAV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := &config.Config{
		Mode:           config.ModeCalDAV,
		Domain:         "cloud.example.com",
		Server:         srv.URL,
		Username:       "jane.doe",
		Password:       "secret-app-password",
		OrganizerEmail: "jane@example.com",
	}

	d, err := New(context.Background(), discardLogger(), cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	res := d.CreateEvent(context.Background(), testEvent("Standup"))
	if !res.OK {
		t.Fatalf("CreateEvent() failed: %s", res.Message)
	}
	if want := "Standup\nEvent created (201)"; res.Message != want {
		t.Errorf("message = %q, want %q", res.Message, want)
	}
}

func TestCreateEventsContinuesAfterFailure(t *testing.T) {
	backend := &fakeBackend{outcomes: map[string]bool{
		"First":  true,
		"Second": false,
		"Third":  true,
	}}
	d := &Dispatcher{logger: discardLogger(), backend: backend}

	events := []*models.Event{testEvent("First"), testEvent("Second"), testEvent("Third")}
	results := d.CreateEvents(context.Background(), events)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if fmt.Sprint(backend.calls) != "[First Second Third]" {
		t.Errorf("backend calls = %v, want all events in input order", backend.calls)
	}

	wantOK := []bool{true, false, true}
	for i, res := range results {
		if res.OK != wantOK[i] {
			t.Errorf("results[%d].OK = %v, want %v", i, res.OK, wantOK[i])
		}
		if !strings.HasPrefix(res.Message, events[i].Name+"\n") {
			t.Errorf("results[%d].Message = %q, want the event name prefix", i, res.Message)
		}
	}
}

func TestCreateEventsEmptyBatch(t *testing.T) {
	d := &Dispatcher{logger: discardLogger(), backend: &fakeBackend{}}
	if results := d.CreateEvents(context.Background(), nil); len(results) != 0 {
		t.Errorf("got %d results for an empty batch, want 0", len(results))
	}
}
