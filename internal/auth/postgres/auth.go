package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/auth"
)

// Repository reads and mutates the auth-relevant columns of the employees
// table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const accountColumns = `id, first_name, last_name, email, password_hash, role, refresh_token, refresh_token_expires_at`

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	row := r.db.WithContext(ctx).
		Raw(`SELECT `+accountColumns+` FROM employees WHERE LOWER(email) = LOWER(?)`, email).
		Row()
	return scanAccount(row)
}

func (r *Repository) GetAccountByID(ctx context.Context, id int64) (*auth.Account, error) {
	row := r.db.WithContext(ctx).
		Raw(`SELECT `+accountColumns+` FROM employees WHERE id = ?`, id).
		Row()
	return scanAccount(row)
}

func (r *Repository) GetAccountByRefreshToken(ctx context.Context, token string) (*auth.Account, error) {
	row := r.db.WithContext(ctx).
		Raw(`SELECT `+accountColumns+` FROM employees WHERE refresh_token = ?`, token).
		Row()
	return scanAccount(row)
}

func (r *Repository) StoreRefreshToken(ctx context.Context, accountID int64, token string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Exec(`UPDATE employees SET refresh_token = ?, refresh_token_expires_at = ?, updated_at = ? WHERE id = ?`,
			token, expiresAt, time.Now(), accountID).Error
}

func (r *Repository) ClearRefreshToken(ctx context.Context, accountID int64) error {
	return r.db.WithContext(ctx).
		Exec(`UPDATE employees SET refresh_token = NULL, refresh_token_expires_at = NULL, updated_at = ? WHERE id = ?`,
			time.Now(), accountID).Error
}

func scanAccount(row *sql.Row) (*auth.Account, error) {
	var (
		account   auth.Account
		role      string
		refresh   sql.NullString
		expiresAt sql.NullTime
	)

	err := row.Scan(&account.ID, &account.FirstName, &account.LastName, &account.Email,
		&account.PasswordHash, &role, &refresh, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}

	parsed, ok := auth.ParseRole(role)
	if !ok {
		// unknown role text in storage is treated as a disabled account
		parsed = auth.RoleTerminated
	}
	account.Role = parsed

	if refresh.Valid {
		account.RefreshToken = refresh.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		account.RefreshTokenExpiresAt = &t
	}

	return &account, nil
}
