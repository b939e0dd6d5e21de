package event

import (
	"context"
	"time"
)

// Event is a calendar entry. Every event reserves a room through a paired
// booking row created in the same transaction; the booking carries the
// room/date/slot, the event duplicates them so calendar queries need no join.
type Event struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Date        string    `gorm:"column:event_date;not null;index" json:"date"`
	StartTime   string    `gorm:"column:start_time;not null" json:"startTime"`
	EndTime     string    `gorm:"column:end_time;not null" json:"endTime"`
	RoomID      int64     `gorm:"column:room_id;not null" json:"roomId"`
	CreatorID   int64     `gorm:"column:creator_id;not null" json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// BookingID is the id of the linked room booking. The repository fills it
	// in on every load and write; it is not a column on the events table.
	BookingID int64 `gorm:"-" json:"bookingId,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// Participation marks an employee as attending an event. Existence of the
// row is the whole signal; there is no state column.
type Participation struct {
	EventID    int64     `gorm:"column:event_id;primaryKey" json:"eventId"`
	EmployeeID int64     `gorm:"column:employee_id;primaryKey" json:"employeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Participation) TableName() string {
	return "event_participations"
}

// ListFilter narrows event queries.
type ListFilter struct {
	Date   string
	RoomID int64
}

type Repository interface {
	// CreateWithBooking inserts the event and its room booking in one
	// transaction, re-checking the room conflict predicate inside it. The
	// RoomNotAvailable sentinel is returned when the slot is taken.
	CreateWithBooking(ctx context.Context, ev *Event) error
	// UpdateWithBooking saves the event and moves its linked booking in
	// lock-step, excluding that booking from the conflict check.
	UpdateWithBooking(ctx context.Context, ev *Event) error
	// DeleteWithBooking removes the event, its linked booking if one exists,
	// and all participation rows, in one transaction.
	DeleteWithBooking(ctx context.Context, eventID int64) error
	GetByID(ctx context.Context, eventID int64) (*Event, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Event, error)

	// Attend inserts the participation row; changed is false when the
	// employee was already attending.
	Attend(ctx context.Context, eventID, employeeID int64) (changed bool, err error)
	// Unattend removes the participation row; changed is false when no row
	// existed.
	Unattend(ctx context.Context, eventID, employeeID int64) (changed bool, err error)
	IsAttending(ctx context.Context, eventID, employeeID int64) (bool, error)
	// AttendeeNames returns the full names of attendees ordered by last then
	// first name.
	AttendeeNames(ctx context.Context, eventID int64) ([]string, error)
}
