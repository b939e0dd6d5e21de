package employee

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/auth"
)

// Service layers registration, role transitions and search over the
// employee repository.
type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new employee together with its default settings record.
// Both rows are written in one transaction.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, dto.Email)
	if err != nil {
		s.logger.Error("register: email lookup failed", "error", err)
		return nil, internal.NewInternalError("could not register employee", err)
	}
	if exists {
		return nil, internal.ErrEmailExists
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("register: password hashing failed", "error", err)
		return nil, internal.NewInternalError("could not register employee", err)
	}

	emp := &Employee{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        strings.ToLower(dto.Email),
		PasswordHash: hash,
		Role:         auth.RoleEmployee,
	}

	if err := s.repo.CreateWithDefaultSettings(ctx, emp); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("register: create failed", "error", err)
		return nil, internal.NewInternalError("could not register employee", err)
	}

	s.logger.Info("employee registered", "employee_id", emp.ID)
	return emp, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("could not load employee", err)
	}
	return emp, nil
}

// PromoteDemote toggles an employee between the employee and manager roles.
// Admin and terminated accounts have no toggle target.
func (s *Service) PromoteDemote(ctx context.Context, id int64) (*Employee, error) {
	emp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := emp.Role.Toggle()
	if !ok {
		s.logger.Warn("role toggle rejected", "employee_id", id, "role", emp.Role)
		return nil, internal.ErrInvalidRole
	}

	if err := s.repo.UpdateRole(ctx, id, next); err != nil {
		s.logger.Error("failed to update role", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("could not update role", err)
	}

	s.logger.Info("employee role changed", "employee_id", id, "from", emp.Role, "to", next)
	emp.Role = next
	return emp, nil
}

// Terminate disables an account permanently. Admins cannot be terminated. A
// manager holding an admin-permissions row has that row deleted in the same
// transaction: either both mutations persist or neither does.
func (s *Service) Terminate(ctx context.Context, id int64) error {
	emp, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !emp.Role.CanBeTerminated() {
		s.logger.Warn("termination rejected", "employee_id", id, "role", emp.Role)
		return internal.ErrInvalidRole
	}

	if err := s.repo.TerminateWithAdminCleanup(ctx, id); err != nil {
		s.logger.Error("termination failed", "error", err, "employee_id", id)
		return internal.NewInternalError("could not terminate employee", err)
	}

	s.logger.Info("employee terminated", "employee_id", id)
	return nil
}

// Search matches the query case-insensitively against first, last and full
// name, email and role, plus an exact numeric id. Admin accounts never appear
// in results.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Employee, error) {
	query = strings.TrimSpace(query)

	var (
		emps []*Employee
		err  error
	)
	if query == "" {
		emps, err = s.repo.List(ctx, limit, offset)
	} else {
		emps, err = s.repo.Search(ctx, query, limit, offset)
	}
	if err != nil {
		s.logger.Error("employee search failed", "error", err, "query", query)
		return nil, internal.NewInternalError("could not search employees", err)
	}
	return emps, nil
}
