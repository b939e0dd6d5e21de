package booking

import (
	"context"
	"time"
)

// Dates are stored as "2006-01-02" and clock times as "15:04" text. Both are
// fixed-width, so lexical comparison matches chronological order and the
// overlap predicate can run directly on the stored columns.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Business hours bound event-owned reservations. Static, not per-room.
const (
	BusinessDayStart = "08:00"
	BusinessDayEnd   = "18:00"
)

// Booking reserves a room for a [start,end) window on a date. EventID is set
// when the booking was created as the room-reservation side of a calendar
// event, nil for ad-hoc reservations.
type Booking struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	RoomID     int64     `gorm:"column:room_id;not null;index:idx_bookings_room_date" json:"roomId"`
	EmployeeID int64     `gorm:"column:employee_id;not null" json:"employeeId"`
	EventID    *int64    `gorm:"column:event_id" json:"eventId,omitempty"`
	Date       string    `gorm:"column:booking_date;not null;index:idx_bookings_room_date" json:"date"`
	StartTime  string    `gorm:"column:start_time;not null" json:"startTime"`
	EndTime    string    `gorm:"column:end_time;not null" json:"endTime"`
	Purpose    string    `gorm:"column:purpose" json:"purpose"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Booking) TableName() string {
	return "room_bookings"
}

// Overlaps is the half-open interval test: [aStart,aEnd) and [bStart,bEnd)
// overlap iff aStart < bEnd and aEnd > bStart. A booking ending exactly when
// another starts does not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// ValidDate reports whether s is a well-formed calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidClock reports whether s is a well-formed zero-padded clock time.
func ValidClock(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil && len(s) == len(ClockLayout)
}

// WithinBusinessHours reports whether [start,end) falls inside the configured
// business day.
func WithinBusinessHours(start, end string) bool {
	return start >= BusinessDayStart && end <= BusinessDayEnd
}

// InPast reports whether the date+start moment lies before now.
func InPast(date, start string, now time.Time) bool {
	moment, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+start, now.Location())
	if err != nil {
		return true
	}
	return moment.Before(now)
}

// ListFilter narrows booking queries.
type ListFilter struct {
	RoomID int64
	Date   string
}

type Repository interface {
	// Create persists the booking after re-checking the conflict predicate
	// inside the same transaction; it returns the RoomNotAvailable sentinel
	// when the slot is taken.
	Create(ctx context.Context, b *Booking) error
	// Update behaves like Create but excludes the booking's own row from the
	// conflict check.
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	HasConflict(ctx context.Context, roomID int64, date, start, end string, ignoreBookingID int64) (bool, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Booking, error)
	HasUpcomingForRoom(ctx context.Context, roomID int64, fromDate string) (bool, error)
}
