package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reminder kinds and units accepted on an event.
const (
	ReminderDisplay = "DISPLAY"
	ReminderEmail   = "EMAIL"

	ReminderHours = "H"
	ReminderDays  = "D"
)

// DefaultCalendar is the sentinel calendar name routing an event to the
// user's default calendar.
const DefaultCalendar = "personal"

// Reminder describes a notification fired a fixed interval before the event
// start. Amount is "H:MM" when Unit is ReminderHours and a positive integer
// of days when Unit is ReminderDays.
type Reminder struct {
	Kind   string
	Unit   string
	Amount string
}

// Event is the backend-agnostic description of one calendar event to create.
// It is built once by BuildEvents and consumed by exactly one backend.
type Event struct {
	Name          string
	Description   string
	Start         time.Time
	End           time.Time // exclusive when AllDay
	AllDay        bool
	Location      string
	Calendar      string // calendar name (CalDAV) or calendar/group ID (Graph)
	GroupCalendar bool   // Graph only: Calendar holds a group ID
	Invitees      []string
	Reminder      *Reminder // nil when no reminder was requested
	UID           string
}

// NewUID returns a globally unique event identifier, also used as the CalDAV
// resource name. Never reused across events.
func NewUID(name, domain string) string {
	uid := fmt.Sprintf("%d_%s_%s@%s", time.Now().Unix(), uuid.NewString()[:8], name, domain)
	return strings.ReplaceAll(uid, " ", "-")
}
