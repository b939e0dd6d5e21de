package room

import (
	"strings"

	"github.com/frahmantamala/office-calendar/internal"
)

type RoomDTO struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
}

func (d *RoomDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Location = strings.TrimSpace(d.Location)

	var errs internal.ValidationErrors
	if d.Name == "" {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "name", Message: "name is required"})
	}
	if d.Capacity < 0 {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "capacity", Message: "capacity must not be negative"})
	}
	if len(errs.Errors) > 0 {
		return internal.NewValidationError(errs.Join(), internal.ErrCodeValidationFailed)
	}
	return nil
}
