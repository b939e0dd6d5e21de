package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login
// requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests.
type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refreshToken is required"}
	}
	return nil
}

// EmployeeSessionDTO is the login payload returned to the client.
type EmployeeSessionDTO struct {
	EmployeeID   int64  `json:"employeeId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResponse struct {
	Employee EmployeeSessionDTO `json:"employee"`
}
