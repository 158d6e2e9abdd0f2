package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// Request carries the raw, still unvalidated event arguments. Day and hour
// fields hold space-separated lists; the i-th start pairs with the i-th end.
type Request struct {
	Name          string
	Description   string
	StartDays     string
	EndDays       string
	StartHours    string
	EndHours      string
	Location      string
	Calendar      string
	GroupCalendar bool
	Invitees      string // space-separated emails
	AlarmKind     string
	AlarmUnit     string
	AlarmAmount   string
	Domain        string // UID domain suffix
}

var hoursAmountRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// BuildEvents validates a request and expands it into one Event per start/end
// day pair. The first validation failure aborts the whole batch; no event is
// ever created from a partially valid request.
func BuildEvents(req Request) ([]*Event, error) {
	if req.StartDays == "" || req.EndDays == "" {
		return nil, fmt.Errorf("missing event start date or end date")
	}

	startDays := strings.Fields(req.StartDays)
	endDays := strings.Fields(req.EndDays)
	for _, d := range startDays {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("invalid start date %q: expected dd/mm/yyyy", d)
		}
	}
	for _, d := range endDays {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("invalid end date %q: expected dd/mm/yyyy", d)
		}
	}
	if len(startDays) != len(endDays) {
		return nil, fmt.Errorf("start and end days count cannot differ")
	}
	for i := range startDays {
		start, _ := time.Parse(dateLayout, startDays[i])
		end, _ := time.Parse(dateLayout, endDays[i])
		if start.After(end) {
			return nil, fmt.Errorf("event start date cannot be after end date: %s, %s", startDays[i], endDays[i])
		}
	}

	var startHours, endHours []string
	if req.StartHours != "" && req.EndHours != "" {
		startHours = strings.Fields(req.StartHours)
		endHours = strings.Fields(req.EndHours)
		for _, h := range startHours {
			if _, err := time.Parse(timeLayout, h); err != nil {
				return nil, fmt.Errorf("invalid start hour %q: expected HH:MM", h)
			}
		}
		for _, h := range endHours {
			if _, err := time.Parse(timeLayout, h); err != nil {
				return nil, fmt.Errorf("invalid end hour %q: expected HH:MM", h)
			}
		}
		if len(startHours) != len(endHours) || len(startHours) != len(startDays) {
			return nil, fmt.Errorf("start and end hours count cannot differ")
		}
		// Pure time-of-day comparison, independent of the paired dates.
		for i := range startHours {
			start, _ := time.Parse(timeLayout, startHours[i])
			end, _ := time.Parse(timeLayout, endHours[i])
			if start.After(end) {
				return nil, fmt.Errorf("event start hour cannot be after end hour: %s, %s", startHours[i], endHours[i])
			}
		}
	}

	reminder, err := buildReminder(req.AlarmKind, req.AlarmUnit, req.AlarmAmount)
	if err != nil {
		return nil, err
	}

	invitees := splitInvitees(req.Invitees)

	events := make([]*Event, 0, len(startDays))
	for i := range startDays {
		ev := &Event{
			Name:          req.Name,
			Description:   req.Description,
			Location:      req.Location,
			Calendar:      req.Calendar,
			GroupCalendar: req.GroupCalendar,
			Invitees:      invitees,
			Reminder:      reminder,
			UID:           NewUID(req.Name, req.Domain),
		}

		day, _ := time.Parse(dateLayout, startDays[i])
		endDay, _ := time.Parse(dateLayout, endDays[i])

		// A 00:00-00:00 pair is indistinguishable from "no hours given".
		if startHours == nil || (startHours[i] == "00:00" && endHours[i] == "00:00") {
			ev.AllDay = true
			ev.Start = day
			ev.End = endDay.AddDate(0, 0, 1) // exclusive end, day after the last day
		} else {
			start, _ := time.Parse(timeLayout, startHours[i])
			end, _ := time.Parse(timeLayout, endHours[i])
			ev.Start = day.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute)
			ev.End = endDay.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)
		}

		events = append(events, ev)
	}
	return events, nil
}

// buildReminder validates the alarm triple. All three fields must be present
// together; a partial set is rejected rather than silently dropped.
func buildReminder(kind, unit, amount string) (*Reminder, error) {
	if kind == "" && unit == "" && amount == "" {
		return nil, nil
	}
	if kind == "" || unit == "" || amount == "" {
		return nil, fmt.Errorf("incomplete reminder: alarm type, format and amount must all be set")
	}

	kind = strings.ToUpper(kind)
	unit = strings.ToUpper(unit)
	if kind != ReminderDisplay && kind != ReminderEmail {
		return nil, fmt.Errorf("invalid alarm type %q: must be DISPLAY or EMAIL", kind)
	}
	switch unit {
	case ReminderHours:
		if !hoursAmountRe.MatchString(amount) {
			return nil, fmt.Errorf("invalid alarm amount %q for hours format: expected H:MM", amount)
		}
	case ReminderDays:
		n, err := strconv.Atoi(amount)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid alarm amount %q for days format: expected a positive integer", amount)
		}
	default:
		return nil, fmt.Errorf("invalid alarm format %q: must be \"h\" (hours) or \"d\" (days)", unit)
	}

	return &Reminder{Kind: kind, Unit: unit, Amount: amount}, nil
}

// splitInvitees splits the space-separated invitee list, dropping duplicates
// while keeping first-seen order.
func splitInvitees(invite string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, addr := range strings.Fields(invite) {
		if seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}
