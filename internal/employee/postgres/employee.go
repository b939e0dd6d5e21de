package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/auth"
	"github.com/frahmantamala/office-calendar/internal/employee"
	"github.com/frahmantamala/office-calendar/internal/settings"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

// CreateWithDefaultSettings inserts the employee and its default settings
// record in one transaction: both rows persist or neither does.
func (r *EmployeeRepository) CreateWithDefaultSettings(ctx context.Context, emp *employee.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(emp).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return internal.ErrEmailExists
			}
			return err
		}
		return tx.Create(settings.Defaults(emp.ID)).Error
	})
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&employee.Employee{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) UpdateRole(ctx context.Context, id int64, role auth.Role) error {
	return r.db.WithContext(ctx).Model(&employee.Employee{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":       role.String(),
			"updated_at": time.Now(),
		}).Error
}

// TerminateWithAdminCleanup removes the employee's admin-permissions row (if
// any) and flips the role to terminated in the same transaction. The store
// has no cascade between the two tables, so the transaction is what makes the
// pair all-or-nothing.
func (r *EmployeeRepository) TerminateWithAdminCleanup(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&employee.AdminPermission{}).Error; err != nil {
			return err
		}
		return tx.Model(&employee.Employee{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"role":                     auth.RoleTerminated.String(),
				"refresh_token":            nil,
				"refresh_token_expires_at": nil,
				"updated_at":               time.Now(),
			}).Error
	})
}

// List returns the employee directory page. Admin accounts are excluded,
// same as Search.
func (r *EmployeeRepository) List(ctx context.Context, limit, offset int) ([]*employee.Employee, error) {
	var emps []*employee.Employee
	err := r.db.WithContext(ctx).
		Where("role <> ?", auth.RoleAdmin.String()).
		Order("last_name ASC, first_name ASC").
		Limit(limit).
		Offset(offset).
		Find(&emps).Error
	return emps, err
}

// Search matches the query case-insensitively against names, email and role,
// or an exact id when the query is numeric. Admin accounts are excluded.
func (r *EmployeeRepository) Search(ctx context.Context, query string, limit, offset int) ([]*employee.Employee, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	q := r.db.WithContext(ctx).
		Where("role <> ?", auth.RoleAdmin.String())

	cond := r.db.
		Where("LOWER(first_name) LIKE ?", pattern).
		Or("LOWER(last_name) LIKE ?", pattern).
		Or("LOWER(first_name || ' ' || last_name) LIKE ?", pattern).
		Or("LOWER(email) LIKE ?", pattern).
		Or("LOWER(role) LIKE ?", pattern)

	if id, err := strconv.ParseInt(strings.TrimSpace(query), 10, 64); err == nil {
		cond = cond.Or("id = ?", id)
	}

	var emps []*employee.Employee
	err := q.Where(cond).
		Order("last_name ASC, first_name ASC").
		Limit(limit).
		Offset(offset).
		Find(&emps).Error
	return emps, err
}
