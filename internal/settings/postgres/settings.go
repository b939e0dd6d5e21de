package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/settings"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) settings.Repository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, employeeID int64) (*settings.Settings, error) {
	var prefs settings.Settings
	err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("Settings not found", internal.ErrCodeSettingsNotFound)
		}
		return nil, err
	}
	return &prefs, nil
}

// Save upserts on the employee_id primary key so update and reset share one
// path.
func (r *SettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}
