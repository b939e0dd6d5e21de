package settings

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/office-calendar/internal"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get returns the employee's preferences, falling back to defaults when no
// record exists yet.
func (s *Service) Get(ctx context.Context, employeeID int64) (*Settings, error) {
	prefs, err := s.repo.Get(ctx, employeeID)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return Defaults(employeeID), nil
		}
		s.logger.Error("failed to load settings", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("could not load settings", err)
	}
	return prefs, nil
}

func (s *Service) Update(ctx context.Context, employeeID int64, dto UpdateSettingsDTO) (*Settings, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	prefs := &Settings{
		EmployeeID:   employeeID,
		SiteTheme:    dto.SiteTheme,
		UserTheme:    dto.UserTheme,
		FontSize:     dto.FontSize,
		CalendarView: dto.CalendarView,
		Language:     dto.Language,
	}

	if err := s.repo.Save(ctx, prefs); err != nil {
		s.logger.Error("failed to save settings", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("could not save settings", err)
	}

	return prefs, nil
}

// Reset restores the defaults for the employee.
func (s *Service) Reset(ctx context.Context, employeeID int64) (*Settings, error) {
	prefs := Defaults(employeeID)
	if err := s.repo.Save(ctx, prefs); err != nil {
		s.logger.Error("failed to reset settings", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("could not reset settings", err)
	}
	return prefs, nil
}
