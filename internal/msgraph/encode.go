package msgraph

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"calput/internal/config"
	"calput/internal/models"
)

// Graph wants a bare wall-clock timestamp; the zone travels separately in
// the timeZone field.
const graphTimeLayout = "2006-01-02T15:04:05"

// EncodeEvent shapes an event into the Graph JSON payload. Pure; a reminder
// the Graph backend cannot express fails here, before any network call.
func EncodeEvent(event *models.Event, cfg *config.Config) (*Event, error) {
	payload := &Event{
		Subject: event.Name,
		Body: ItemBody{
			ContentType: "text",
			Content:     event.Description,
		},
		Start: DateTimeTimeZone{
			DateTime: event.Start.Format(graphTimeLayout),
			TimeZone: cfg.GraphTimezone,
		},
		End: DateTimeTimeZone{
			DateTime: event.End.Format(graphTimeLayout),
			TimeZone: cfg.GraphTimezone,
		},
		IsAllDay:        event.AllDay,
		CreatedDateTime: time.Now().UTC().Format(time.RFC3339),
		Importance:      "normal",
	}

	if event.Location != "" {
		payload.Location = &Location{DisplayName: event.Location}
	}

	for _, addr := range event.Invitees {
		payload.Attendees = append(payload.Attendees, Attendee{
			EmailAddress: EmailAddress{Address: addr},
			Type:         "required",
		})
	}

	if cfg.OrganizerEmail != "" {
		payload.Organizer = &Recipient{EmailAddress: EmailAddress{
			Address: cfg.OrganizerEmail,
			Name:    organizerDisplayName(cfg),
		}}
	}

	if event.Reminder != nil {
		minutes, err := reminderMinutes(event.Reminder)
		if err != nil {
			return nil, err
		}
		payload.ReminderMinutesBeforeStart = &minutes
		payload.IsReminderOn = true
	}

	return payload, nil
}

// organizerDisplayName is "<name> (<role>)" when both are configured and
// falls back to the bare name, then to empty.
func organizerDisplayName(cfg *config.Config) string {
	switch {
	case cfg.OrganizerName != "" && cfg.OrganizerRole != "":
		return fmt.Sprintf("%s (%s)", cfg.OrganizerName, cfg.OrganizerRole)
	case cfg.OrganizerName != "":
		return cfg.OrganizerName
	default:
		return ""
	}
}

// reminderMinutes converts a reminder into Graph's minutes-before-start.
func reminderMinutes(r *models.Reminder) (int, error) {
	switch r.Kind {
	case models.ReminderDisplay:
	case models.ReminderEmail:
		return 0, fmt.Errorf("EMAIL reminders are not implemented for the Microsoft Graph backend")
	default:
		return 0, fmt.Errorf("unknown reminder type %q", r.Kind)
	}

	switch r.Unit {
	case models.ReminderDays:
		days, err := strconv.Atoi(r.Amount)
		if err != nil {
			return 0, fmt.Errorf("invalid reminder amount %q: expected a number of days", r.Amount)
		}
		return days * 24 * 60, nil
	case models.ReminderHours:
		hh, mm, found := strings.Cut(r.Amount, ":")
		if !found {
			return 0, fmt.Errorf("invalid reminder amount %q: expected H:MM", r.Amount)
		}
		hours, err := strconv.Atoi(hh)
		if err != nil {
			return 0, fmt.Errorf("invalid reminder hours in %q: %w", r.Amount, err)
		}
		minutes, err := strconv.Atoi(mm)
		if err != nil {
			return 0, fmt.Errorf("invalid reminder minutes in %q: %w", r.Amount, err)
		}
		return hours*60 + minutes, nil
	default:
		return 0, fmt.Errorf("unknown reminder format %q", r.Unit)
	}
}
