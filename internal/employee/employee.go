package employee

import (
	"context"
	"time"

	"github.com/frahmantamala/office-calendar/internal/auth"
)

// Employee is a staff account. Terminated employees keep their row (bookings
// and events stay attributable) but can no longer sign in.
type Employee struct {
	ID                    int64      `gorm:"primaryKey" json:"id"`
	FirstName             string     `gorm:"column:first_name;not null" json:"firstName"`
	LastName              string     `gorm:"column:last_name;not null" json:"lastName"`
	Email                 string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash          string     `gorm:"column:password_hash;not null" json:"-"`
	Role                  auth.Role  `gorm:"type:text;not null;default:'employee'" json:"role"`
	RefreshToken          *string    `gorm:"column:refresh_token" json:"-"`
	RefreshTokenExpiresAt *time.Time `gorm:"column:refresh_token_expires_at" json:"-"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// AdminPermission marks a manager as having admin-console rights. The row is
// removed transactionally when its holder is terminated.
type AdminPermission struct {
	EmployeeID int64     `gorm:"primaryKey" json:"employeeId"`
	GrantedAt  time.Time `gorm:"column:granted_at" json:"grantedAt"`
}

func (AdminPermission) TableName() string {
	return "admin_permissions"
}

type Repository interface {
	CreateWithDefaultSettings(ctx context.Context, emp *Employee) error
	GetByID(ctx context.Context, id int64) (*Employee, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateRole(ctx context.Context, id int64, role auth.Role) error
	TerminateWithAdminCleanup(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Employee, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Employee, error)
}
