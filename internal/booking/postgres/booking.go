package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/booking"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// TxOptions returns the transaction options used for the check-then-insert
// path. Postgres gets SERIALIZABLE so two concurrent requests for the same
// slot cannot both commit; sqlite transactions are serializable already and
// its driver rejects explicit isolation levels.
func TxOptions(db *gorm.DB) *sql.TxOptions {
	if db.Dialector.Name() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return &sql.TxOptions{}
}

// ConflictExists runs the half-open overlap predicate against the bookings of
// a room on a date, excluding ignoreBookingID (zero excludes nothing). It is
// exported so the event repository can re-check inside its own transaction.
func ConflictExists(tx *gorm.DB, roomID int64, date, start, end string, ignoreBookingID int64) (bool, error) {
	var count int64
	q := tx.Model(&booking.Booking{}).
		Where("room_id = ? AND booking_date = ?", roomID, date).
		Where("start_time < ? AND end_time > ?", end, start)
	if ignoreBookingID != 0 {
		q = q.Where("id <> ?", ignoreBookingID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingRepository) HasConflict(ctx context.Context, roomID int64, date, start, end string, ignoreBookingID int64) (bool, error) {
	return ConflictExists(r.db.WithContext(ctx), roomID, date, start, end, ignoreBookingID)
}

// Create re-checks the conflict predicate and inserts inside one transaction.
// A serialization failure means another request won the slot concurrently and
// is reported the same way as a plain conflict.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := ConflictExists(tx, b.RoomID, b.Date, b.StartTime, b.EndTime, 0)
		if err != nil {
			return err
		}
		if conflict {
			return internal.ErrRoomNotAvailable
		}
		return tx.Create(b).Error
	}, TxOptions(r.db))

	return mapSerializationFailure(err)
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	b.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := ConflictExists(tx, b.RoomID, b.Date, b.StartTime, b.EndTime, b.ID)
		if err != nil {
			return err
		}
		if conflict {
			return internal.ErrRoomNotAvailable
		}
		return tx.Save(b).Error
	}, TxOptions(r.db))

	return mapSerializationFailure(err)
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&booking.Booking{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	var b booking.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, filter booking.ListFilter, limit, offset int) ([]*booking.Booking, error) {
	q := r.db.WithContext(ctx).Model(&booking.Booking{})
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if filter.Date != "" {
		q = q.Where("booking_date = ?", filter.Date)
	}

	var bookings []*booking.Booking
	err := q.Order("booking_date ASC, start_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) HasUpcomingForRoom(ctx context.Context, roomID int64, fromDate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Where("room_id = ? AND booking_date >= ?", roomID, fromDate).
		Count(&count).Error
	return count > 0, err
}

// mapSerializationFailure folds a postgres serialization_failure (SQLSTATE
// 40001) into the RoomNotAvailable outcome: the losing transaction lost the
// slot race.
func mapSerializationFailure(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	if IsSerializationFailure(err) {
		return internal.ErrRoomNotAvailable
	}
	return err
}
