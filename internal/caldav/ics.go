package caldav

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"calput/internal/config"
	"calput/internal/models"
)

// EncodeICS renders a single-event calendar document for upload via WebDAV.
// It is pure; all I/O lives in the publisher.
func EncodeICS(event *models.Event, cfg *config.Config) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, fmt.Sprintf("-//%s//%s//%s//%s//",
		config.ProductName, config.ProductVersion, cfg.Domain, config.ProductURL))
	cal.Props.SetText(ical.PropVersion, "2.0")

	ve := ical.NewEvent()
	ve.Props.SetText(ical.PropSummary, event.Name)
	ve.Props.SetText(ical.PropDescription, event.Description)

	if event.AllDay {
		ve.Props.SetDate(ical.PropDateTimeStart, event.Start)
		ve.Props.SetDate(ical.PropDateTimeEnd, event.End)
	} else {
		// UTC keeps the encoder on the Z-suffix form instead of TZID params.
		ve.Props.SetDateTime(ical.PropDateTimeStart, event.Start.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeEnd, event.End.UTC())
	}

	ve.Props.SetText(ical.PropStatus, "CONFIRMED")
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropCreated, time.Now().UTC().Truncate(time.Second))
	ve.Props.SetText(ical.PropUID, event.UID)
	ve.Props.SetText(ical.PropPriority, "5")
	if event.Location != "" {
		ve.Props.SetText(ical.PropLocation, event.Location)
	}

	organizer := ical.NewProp(ical.PropOrganizer)
	organizer.Params.Set(ical.ParamCommonName, cfg.OrganizerName)
	organizer.Params.Set(ical.ParamRole, cfg.OrganizerRole)
	organizer.SetText("MAILTO:" + cfg.OrganizerEmail)
	ve.Props.Add(organizer)

	for _, addr := range event.Invitees {
		attendee := ical.NewProp(ical.PropAttendee)
		attendee.Params.Set(ical.ParamCommonName, addr)
		attendee.Params.Set(ical.ParamRole, "REQ-PARTICIPANT")
		attendee.Params.Set(ical.ParamParticipationStatus, "NEEDS-ACTION")
		attendee.Params.Set(ical.ParamRSVP, "TRUE")
		attendee.SetText("MAILTO:" + addr)
		ve.Props.Add(attendee)
	}

	if event.Reminder != nil {
		ve.Children = append(ve.Children, alarmComponent(event))
	}

	cal.Children = append(cal.Children, ve.Component)
	return cal
}

// alarmComponent builds the VALARM attached to the event. The trigger
// duration must match the event form, date-only (-P..D) for all-day events
// and time (-PT..H) for timed ones, or some clients refuse to fire it.
func alarmComponent(event *models.Event) *ical.Component {
	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, event.Reminder.Kind)
	alarm.Props.SetText(ical.PropSummary, event.Name)
	alarm.Props.SetText(ical.PropDescription, event.Description)

	for _, addr := range event.Invitees {
		attendee := ical.NewProp(ical.PropAttendee)
		attendee.SetText("MAILTO:" + addr)
		alarm.Props.Add(attendee)
	}

	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Params.Set(ical.ParamRelated, "START")
	if event.AllDay {
		trigger.Value = fmt.Sprintf("-P%s%s", event.Reminder.Amount, event.Reminder.Unit)
	} else {
		trigger.Value = fmt.Sprintf("-PT%s%s", event.Reminder.Amount, event.Reminder.Unit)
	}
	alarm.Props.Add(trigger)

	return alarm
}
