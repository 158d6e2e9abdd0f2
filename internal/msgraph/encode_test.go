package msgraph

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"calput/internal/config"
	"calput/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:           config.ModeGraph,
		Domain:         "cloud.example.com",
		AzureClientID:  "client-id",
		AzureTenantID:  "tenant-id",
		GraphTimezone:  "Europe/Berlin",
		OrganizerName:  "Jane Doe",
		OrganizerRole:  "IT",
		OrganizerEmail: "jane@example.com",
	}
}

func timedEvent() *models.Event {
	return &models.Event{
		Name:        "Standup",
		Description: "Daily sync",
		Start:       time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC),
		Location:    "Main Office",
		Calendar:    "personal",
		Invitees:    []string{"a@example.com"},
		UID:         models.NewUID("Standup", "cloud.example.com"),
	}
}

// toMap marshals the payload and decodes it back so key omission can be
// asserted against the actual wire form.
func toMap(t *testing.T, payload *Event) map[string]any {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return m
}

func TestEncodeEventTimed(t *testing.T) {
	payload, err := EncodeEvent(timedEvent(), testConfig())
	if err != nil {
		t.Fatalf("EncodeEvent() error: %v", err)
	}

	if payload.Subject != "Standup" {
		t.Errorf("subject = %q, want Standup", payload.Subject)
	}
	if payload.Body.ContentType != "text" || payload.Body.Content != "Daily sync" {
		t.Errorf("body = %+v, want text/Daily sync", payload.Body)
	}
	if payload.Start.DateTime != "2024-01-10T09:00:00" {
		t.Errorf("start.dateTime = %q, want 2024-01-10T09:00:00", payload.Start.DateTime)
	}
	if payload.End.DateTime != "2024-01-10T09:30:00" {
		t.Errorf("end.dateTime = %q, want 2024-01-10T09:30:00", payload.End.DateTime)
	}
	if payload.Start.TimeZone != "Europe/Berlin" || payload.End.TimeZone != "Europe/Berlin" {
		t.Errorf("timeZone = %q/%q, want the configured zone", payload.Start.TimeZone, payload.End.TimeZone)
	}
	if payload.Importance != "normal" {
		t.Errorf("importance = %q, want normal", payload.Importance)
	}
	if payload.CreatedDateTime == "" {
		t.Error("createdDateTime must always be set")
	}
	if _, err := time.Parse(time.RFC3339, payload.CreatedDateTime); err != nil {
		t.Errorf("createdDateTime %q is not RFC3339: %v", payload.CreatedDateTime, err)
	}

	m := toMap(t, payload)
	if _, present := m["isAllDay"]; present {
		t.Error("isAllDay must be omitted for timed events")
	}
	if _, present := m["reminderMinutesBeforeStart"]; present {
		t.Error("reminderMinutesBeforeStart must be omitted without a reminder")
	}
	if _, present := m["isReminderOn"]; present {
		t.Error("isReminderOn must be omitted without a reminder")
	}
}

func TestEncodeEventAllDay(t *testing.T) {
	event := &models.Event{
		Name:        "Offsite",
		Description: "Team offsite",
		Start:       time.Date(2024, 12, 11, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 12, 12, 0, 0, 0, 0, time.UTC),
		AllDay:      true,
		Calendar:    "personal",
		UID:         models.NewUID("Offsite", "cloud.example.com"),
	}

	payload, err := EncodeEvent(event, testConfig())
	if err != nil {
		t.Fatalf("EncodeEvent() error: %v", err)
	}

	m := toMap(t, payload)
	if got, present := m["isAllDay"]; !present || got != true {
		t.Errorf("isAllDay = %v (present %v), want true", got, present)
	}
	if payload.Start.DateTime != "2024-12-11T00:00:00" {
		t.Errorf("start.dateTime = %q, want 2024-12-11T00:00:00", payload.Start.DateTime)
	}
	if payload.End.DateTime != "2024-12-12T00:00:00" {
		t.Errorf("end.dateTime = %q, want the exclusive end 2024-12-12T00:00:00", payload.End.DateTime)
	}
}

func TestEncodeEventOmittedKeys(t *testing.T) {
	event := timedEvent()
	event.Location = ""
	event.Invitees = nil

	cfg := testConfig()
	cfg.OrganizerEmail = ""

	payload, err := EncodeEvent(event, cfg)
	if err != nil {
		t.Fatalf("EncodeEvent() error: %v", err)
	}

	m := toMap(t, payload)
	for _, key := range []string{"location", "attendees", "organizer"} {
		if _, present := m[key]; present {
			t.Errorf("%s must be omitted when unset", key)
		}
	}
}

func TestEncodeEventAttendees(t *testing.T) {
	payload, err := EncodeEvent(timedEvent(), testConfig())
	if err != nil {
		t.Fatalf("EncodeEvent() error: %v", err)
	}

	if len(payload.Attendees) != 1 {
		t.Fatalf("got %d attendees, want 1", len(payload.Attendees))
	}
	attendee := payload.Attendees[0]
	if attendee.EmailAddress.Address != "a@example.com" {
		t.Errorf("attendee address = %q, want a@example.com", attendee.EmailAddress.Address)
	}
	if attendee.Type != "required" {
		t.Errorf("attendee type = %q, want required", attendee.Type)
	}

	if payload.Location == nil || payload.Location.DisplayName != "Main Office" {
		t.Errorf("location = %+v, want Main Office", payload.Location)
	}
}

func TestOrganizerDisplayName(t *testing.T) {
	tests := []struct {
		name string
		org  string
		role string
		want string
	}{
		{name: "name and role", org: "Jane Doe", role: "IT", want: "Jane Doe (IT)"},
		{name: "name only", org: "Jane Doe", role: "", want: "Jane Doe"},
		{name: "neither", org: "", role: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.OrganizerName = tt.org
			cfg.OrganizerRole = tt.role

			payload, err := EncodeEvent(timedEvent(), cfg)
			if err != nil {
				t.Fatalf("EncodeEvent() error: %v", err)
			}
			if payload.Organizer == nil {
				t.Fatal("organizer missing despite configured email")
			}
			if got := payload.Organizer.EmailAddress.Name; got != tt.want {
				t.Errorf("organizer name = %q, want %q", got, tt.want)
			}
			if got := payload.Organizer.EmailAddress.Address; got != "jane@example.com" {
				t.Errorf("organizer address = %q, want jane@example.com", got)
			}
		})
	}
}

func TestReminderMinutes(t *testing.T) {
	tests := []struct {
		name     string
		reminder models.Reminder
		want     int
		wantErr  string
	}{
		{
			name:     "days",
			reminder: models.Reminder{Kind: models.ReminderDisplay, Unit: models.ReminderDays, Amount: "2"},
			want:     2880,
		},
		{
			name:     "hours and minutes",
			reminder: models.Reminder{Kind: models.ReminderDisplay, Unit: models.ReminderHours, Amount: "2:30"},
			want:     150,
		},
		{
			name:     "zero hours",
			reminder: models.Reminder{Kind: models.ReminderDisplay, Unit: models.ReminderHours, Amount: "0:45"},
			want:     45,
		},
		{
			name:     "email reminder is not implemented",
			reminder: models.Reminder{Kind: models.ReminderEmail, Unit: models.ReminderDays, Amount: "1"},
			wantErr:  "not implemented",
		},
		{
			name:     "unknown kind",
			reminder: models.Reminder{Kind: "POPUP", Unit: models.ReminderDays, Amount: "1"},
			wantErr:  "unknown reminder type",
		},
		{
			name:     "malformed hours amount",
			reminder: models.Reminder{Kind: models.ReminderDisplay, Unit: models.ReminderHours, Amount: "230"},
			wantErr:  "expected H:MM",
		},
		{
			name:     "unknown unit",
			reminder: models.Reminder{Kind: models.ReminderDisplay, Unit: "W", Amount: "1"},
			wantErr:  "unknown reminder format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reminderMinutes(&tt.reminder)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("reminderMinutes() = %d, want error containing %q", got, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("reminderMinutes() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("reminderMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEncodeEventDisplayReminder(t *testing.T) {
	event := timedEvent()
	event.Reminder = &models.Reminder{Kind: models.ReminderDisplay, Unit: models.ReminderDays, Amount: "3"}

	payload, err := EncodeEvent(event, testConfig())
	if err != nil {
		t.Fatalf("EncodeEvent() error: %v", err)
	}
	if payload.ReminderMinutesBeforeStart == nil || *payload.ReminderMinutesBeforeStart != 4320 {
		t.Errorf("reminderMinutesBeforeStart = %v, want 4320", payload.ReminderMinutesBeforeStart)
	}
	if !payload.IsReminderOn {
		t.Error("isReminderOn must be true with a DISPLAY reminder")
	}
}

func TestEncodeEventEmailReminderFails(t *testing.T) {
	event := timedEvent()
	event.Reminder = &models.Reminder{Kind: models.ReminderEmail, Unit: models.ReminderDays, Amount: "1"}

	if _, err := EncodeEvent(event, testConfig()); err == nil {
		t.Fatal("EncodeEvent() must fail for EMAIL reminders, got nil error")
	}
}
