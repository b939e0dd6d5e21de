package booking

import (
	"strings"

	"github.com/frahmantamala/office-calendar/internal"
)

type CreateBookingDTO struct {
	RoomID    int64  `json:"roomId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Purpose   string `json:"purpose"`
}

type UpdateBookingDTO struct {
	RoomID    int64  `json:"roomId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Purpose   string `json:"purpose"`
}

func (d *CreateBookingDTO) Validate() error {
	return validateSlot(d.RoomID, d.Date, d.StartTime, d.EndTime, &d.Purpose)
}

func (d *UpdateBookingDTO) Validate() error {
	return validateSlot(d.RoomID, d.Date, d.StartTime, d.EndTime, &d.Purpose)
}

func validateSlot(roomID int64, date, start, end string, purpose *string) error {
	if roomID <= 0 {
		return internal.NewValidationFieldError("roomId", "roomId is required", internal.ErrCodeValidationFailed)
	}
	if !ValidDate(date) {
		return internal.NewValidationFieldError("date", "date must be formatted as YYYY-MM-DD", internal.ErrCodeValidationFailed)
	}
	if !ValidClock(start) {
		return internal.NewValidationFieldError("startTime", "startTime must be formatted as HH:MM", internal.ErrCodeValidationFailed)
	}
	if !ValidClock(end) {
		return internal.NewValidationFieldError("endTime", "endTime must be formatted as HH:MM", internal.ErrCodeValidationFailed)
	}
	if end <= start {
		return internal.ErrInvalidTimeRange
	}
	if purpose != nil {
		*purpose = strings.TrimSpace(*purpose)
	}
	return nil
}
