package settings

import "github.com/frahmantamala/office-calendar/internal"

type UpdateSettingsDTO struct {
	SiteTheme    string `json:"siteTheme"`
	UserTheme    string `json:"userTheme"`
	FontSize     string `json:"fontSize"`
	CalendarView string `json:"calendarView"`
	Language     string `json:"language"`
}

func (d UpdateSettingsDTO) Validate() error {
	if !oneOf(d.SiteTheme, siteThemes) {
		return internal.NewValidationFieldError("siteTheme", "unknown site theme", internal.ErrCodeValidationFailed)
	}
	if !oneOf(d.UserTheme, userThemes) {
		return internal.NewValidationFieldError("userTheme", "unknown user theme", internal.ErrCodeValidationFailed)
	}
	if !oneOf(d.FontSize, fontSizes) {
		return internal.NewValidationFieldError("fontSize", "unknown font size", internal.ErrCodeValidationFailed)
	}
	if !oneOf(d.CalendarView, calendarViews) {
		return internal.NewValidationFieldError("calendarView", "unknown calendar view", internal.ErrCodeValidationFailed)
	}
	if !oneOf(d.Language, languages) {
		return internal.NewValidationFieldError("language", "unknown language", internal.ErrCodeValidationFailed)
	}
	return nil
}
