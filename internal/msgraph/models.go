package msgraph

// Wire shapes for the Graph events endpoint. Keys the contract omits when
// unset carry omitempty so an absent value never serializes as null, false
// or an empty array.

type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type Location struct {
	DisplayName string `json:"displayName"`
}

type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type Attendee struct {
	EmailAddress EmailAddress `json:"emailAddress"`
	Type         string       `json:"type"`
}

type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

type Event struct {
	Subject                    string           `json:"subject"`
	Body                       ItemBody         `json:"body"`
	Start                      DateTimeTimeZone `json:"start"`
	End                        DateTimeTimeZone `json:"end"`
	IsAllDay                   bool             `json:"isAllDay,omitempty"`
	Location                   *Location        `json:"location,omitempty"`
	Attendees                  []Attendee       `json:"attendees,omitempty"`
	Organizer                  *Recipient       `json:"organizer,omitempty"`
	CreatedDateTime            string           `json:"createdDateTime"`
	Importance                 string           `json:"importance"`
	ReminderMinutesBeforeStart *int             `json:"reminderMinutesBeforeStart,omitempty"`
	IsReminderOn               bool             `json:"isReminderOn,omitempty"`
}

// Calendar is the subset of the Graph calendar resource the calendars
// listing needs.
type Calendar struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
