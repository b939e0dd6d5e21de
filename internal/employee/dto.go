package employee

import (
	"net/mail"
	"strings"

	"github.com/frahmantamala/office-calendar/internal"
)

type RegisterDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

const minPasswordLength = 8

func (d *RegisterDTO) Validate() error {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)

	if d.FirstName == "" {
		return internal.NewValidationFieldError("firstName", "first name is required", internal.ErrCodeValidationFailed)
	}
	if d.LastName == "" {
		return internal.NewValidationFieldError("lastName", "last name is required", internal.ErrCodeValidationFailed)
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return internal.NewValidationFieldError("email", "a valid email address is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < minPasswordLength {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// EmployeeDTO is the list/detail shape returned to clients.
type EmployeeDTO struct {
	ID        int64  `json:"employeeId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func ToDTO(e *Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		Role:      e.Role.String(),
	}
}

func ToDTOs(emps []*Employee) []EmployeeDTO {
	out := make([]EmployeeDTO, len(emps))
	for i, e := range emps {
		out[i] = ToDTO(e)
	}
	return out
}
