package event

import (
	"strings"
	"time"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/booking"
)

type CreateEventDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	RoomID      int64  `json:"roomId"`
}

type UpdateEventDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	RoomID      int64  `json:"roomId"`
}

func (d *CreateEventDTO) Validate(now time.Time) error {
	return validateEvent(&d.Title, &d.Description, d.Date, d.StartTime, d.EndTime, d.RoomID, now)
}

func (d *UpdateEventDTO) Validate(now time.Time) error {
	return validateEvent(&d.Title, &d.Description, d.Date, d.StartTime, d.EndTime, d.RoomID, now)
}

// validateEvent applies the full event constraint set: title present, formats
// valid, end after start, slot inside business hours, moment not in the past.
func validateEvent(title, description *string, date, start, end string, roomID int64, now time.Time) error {
	*title = strings.TrimSpace(*title)
	*description = strings.TrimSpace(*description)

	var errs internal.ValidationErrors
	if *title == "" {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "title", Message: "title is required"})
	}
	if roomID <= 0 {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "roomId", Message: "roomId is required"})
	}
	if !booking.ValidDate(date) {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "date", Message: "date must be formatted as YYYY-MM-DD"})
	}
	if !booking.ValidClock(start) {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "startTime", Message: "startTime must be formatted as HH:MM"})
	}
	if !booking.ValidClock(end) {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "endTime", Message: "endTime must be formatted as HH:MM"})
	}
	if len(errs.Errors) > 0 {
		return internal.NewValidationError(errs.Join(), internal.ErrCodeValidationFailed)
	}

	if end <= start {
		return internal.ErrInvalidTimeRange
	}
	if !booking.WithinBusinessHours(start, end) {
		return internal.ErrOutsideHours
	}
	if booking.InPast(date, start, now) {
		return internal.ErrDateInPast
	}
	return nil
}

// AttendanceStatusDTO answers "am I attending and who else is".
type AttendanceStatusDTO struct {
	EventID   int64    `json:"eventId"`
	Attending bool     `json:"attending"`
	Attendees []string `json:"attendees"`
}
