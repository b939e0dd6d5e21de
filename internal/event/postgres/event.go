package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/booking"
	bookingpg "github.com/frahmantamala/office-calendar/internal/booking/postgres"
	"github.com/frahmantamala/office-calendar/internal/event"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateWithBooking writes the event and its room reservation in one
// transaction so the calendar entry and the room schedule commit or roll back
// together. The conflict predicate runs inside the same transaction.
func (r *EventRepository) CreateWithBooking(ctx context.Context, ev *event.Event) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := bookingpg.ConflictExists(tx, ev.RoomID, ev.Date, ev.StartTime, ev.EndTime, 0)
		if err != nil {
			return err
		}
		if conflict {
			return internal.ErrRoomNotAvailable
		}

		if err := tx.Create(ev).Error; err != nil {
			return err
		}

		b := &booking.Booking{
			RoomID:     ev.RoomID,
			EmployeeID: ev.CreatorID,
			EventID:    &ev.ID,
			Date:       ev.Date,
			StartTime:  ev.StartTime,
			EndTime:    ev.EndTime,
			Purpose:    ev.Title,
		}
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		ev.BookingID = b.ID
		return nil
	}, bookingpg.TxOptions(r.db))

	return mapWriteError(err)
}

// UpdateWithBooking saves the event and moves the linked booking to the new
// room/date/slot in the same transaction. The linked booking is excluded from
// the conflict check so an event keeping its slot never collides with itself.
func (r *EventRepository) UpdateWithBooking(ctx context.Context, ev *event.Event) error {
	ev.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var linked booking.Booking
		ignoreID := int64(0)
		err := tx.Where("event_id = ?", ev.ID).First(&linked).Error
		switch {
		case err == nil:
			ignoreID = linked.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// booking already gone, treated like create below
		default:
			return err
		}

		conflict, err := bookingpg.ConflictExists(tx, ev.RoomID, ev.Date, ev.StartTime, ev.EndTime, ignoreID)
		if err != nil {
			return err
		}
		if conflict {
			return internal.ErrRoomNotAvailable
		}

		if err := tx.Save(ev).Error; err != nil {
			return err
		}

		if ignoreID == 0 {
			linked = booking.Booking{
				RoomID:     ev.RoomID,
				EmployeeID: ev.CreatorID,
				EventID:    &ev.ID,
				Date:       ev.Date,
				StartTime:  ev.StartTime,
				EndTime:    ev.EndTime,
				Purpose:    ev.Title,
			}
			if err := tx.Create(&linked).Error; err != nil {
				return err
			}
		} else {
			linked.RoomID = ev.RoomID
			linked.Date = ev.Date
			linked.StartTime = ev.StartTime
			linked.EndTime = ev.EndTime
			linked.Purpose = ev.Title
			linked.UpdatedAt = ev.UpdatedAt
			if err := tx.Save(&linked).Error; err != nil {
				return err
			}
		}
		ev.BookingID = linked.ID
		return nil
	}, bookingpg.TxOptions(r.db))

	return mapWriteError(err)
}

// DeleteWithBooking removes the event, the linked booking if any, and every
// participation row. Deleting an event whose booking is already gone is fine.
func (r *EventRepository) DeleteWithBooking(ctx context.Context, eventID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&event.Event{}, eventID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrEventNotFound
		}

		if err := tx.Where("event_id = ?", eventID).Delete(&booking.Booking{}).Error; err != nil {
			return err
		}
		return tx.Where("event_id = ?", eventID).Delete(&event.Participation{}).Error
	})
}

func (r *EventRepository) GetByID(ctx context.Context, eventID int64) (*event.Event, error) {
	var ev event.Event
	err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEventNotFound
		}
		return nil, err
	}

	var linked booking.Booking
	err = r.db.WithContext(ctx).Select("id").Where("event_id = ?", eventID).First(&linked).Error
	switch {
	case err == nil:
		ev.BookingID = linked.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// event without a booking, nothing to attach
	default:
		return nil, err
	}
	return &ev, nil
}

func (r *EventRepository) List(ctx context.Context, filter event.ListFilter, limit, offset int) ([]*event.Event, error) {
	q := r.db.WithContext(ctx).Model(&event.Event{})
	if filter.Date != "" {
		q = q.Where("event_date = ?", filter.Date)
	}
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", filter.RoomID)
	}

	var list []*event.Event
	err := q.Order("event_date ASC, start_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

// Attend inserts the participation row. The conflict clause makes the insert
// idempotent; RowsAffected tells us whether this call actually changed
// anything.
func (r *EventRepository) Attend(ctx context.Context, eventID, employeeID int64) (bool, error) {
	p := &event.Participation{EventID: eventID, EmployeeID: employeeID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *EventRepository) Unattend(ctx context.Context, eventID, employeeID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND employee_id = ?", eventID, employeeID).
		Delete(&event.Participation{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *EventRepository) IsAttending(ctx context.Context, eventID, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&event.Participation{}).
		Where("event_id = ? AND employee_id = ?", eventID, employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *EventRepository) AttendeeNames(ctx context.Context, eventID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("event_participations").
		Select("employees.first_name || ' ' || employees.last_name").
		Joins("JOIN employees ON employees.id = event_participations.employee_id").
		Where("event_participations.event_id = ?", eventID).
		Order("employees.last_name ASC, employees.first_name ASC").
		Pluck("employees.first_name || ' ' || employees.last_name", &names).Error
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	if bookingpg.IsSerializationFailure(err) {
		return internal.ErrRoomNotAvailable
	}
	return err
}
