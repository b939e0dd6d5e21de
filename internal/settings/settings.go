package settings

import (
	"context"
	"time"
)

// Closed enumerations for each preference. Unknown values are rejected at the
// DTO boundary so the stored record is always well-formed.
const (
	SiteThemeLight = "light"
	SiteThemeDark  = "dark"

	UserThemeDefault = "default"
	UserThemeBlue    = "blue"
	UserThemeGreen   = "green"
	UserThemePurple  = "purple"

	FontSizeSmall  = "small"
	FontSizeMedium = "medium"
	FontSizeLarge  = "large"

	CalendarViewDay   = "day"
	CalendarViewWeek  = "week"
	CalendarViewMonth = "month"

	LanguageEnglish = "en"
	LanguageDutch   = "nl"
	LanguageGerman  = "de"
	LanguageFrench  = "fr"
)

var (
	siteThemes    = []string{SiteThemeLight, SiteThemeDark}
	userThemes    = []string{UserThemeDefault, UserThemeBlue, UserThemeGreen, UserThemePurple}
	fontSizes     = []string{FontSizeSmall, FontSizeMedium, FontSizeLarge}
	calendarViews = []string{CalendarViewDay, CalendarViewWeek, CalendarViewMonth}
	languages     = []string{LanguageEnglish, LanguageDutch, LanguageGerman, LanguageFrench}
)

// Settings is the per-employee UI preference record, one row per employee.
type Settings struct {
	EmployeeID   int64     `gorm:"primaryKey;column:employee_id" json:"employeeId"`
	SiteTheme    string    `gorm:"column:site_theme;not null" json:"siteTheme"`
	UserTheme    string    `gorm:"column:user_theme;not null" json:"userTheme"`
	FontSize     string    `gorm:"column:font_size;not null" json:"fontSize"`
	CalendarView string    `gorm:"column:calendar_view;not null" json:"calendarView"`
	Language     string    `gorm:"column:language;not null" json:"language"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Settings) TableName() string {
	return "settings"
}

// Defaults returns the preference record a fresh account starts with.
func Defaults(employeeID int64) *Settings {
	return &Settings{
		EmployeeID:   employeeID,
		SiteTheme:    SiteThemeLight,
		UserTheme:    UserThemeDefault,
		FontSize:     FontSizeMedium,
		CalendarView: CalendarViewMonth,
		Language:     LanguageEnglish,
	}
}

type Repository interface {
	Get(ctx context.Context, employeeID int64) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
