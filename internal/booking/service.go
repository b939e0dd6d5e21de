package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/core/events"
)

// RoomDirectory is the slice of the room domain the conflict engine needs.
type RoomDirectory interface {
	RoomExists(ctx context.Context, roomID int64) (bool, error)
}

// Service decides whether a proposed reservation may occupy its slot and
// persists bookings atomically. Event-owned bookings go through the event
// service, which reuses this package's repository inside its own transaction.
type Service struct {
	repo   Repository
	rooms  RoomDirectory
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, rooms RoomDirectory, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		rooms:  rooms,
		bus:    bus,
		logger: logger,
	}
}

// HasConflict reports whether an existing booking for the room and date
// overlaps [start,end) under the half-open rule. ignoreBookingID excludes a
// booking from the check so an update never collides with itself; zero means
// no exclusion.
func (s *Service) HasConflict(ctx context.Context, roomID int64, date, start, end string, ignoreBookingID int64) (bool, error) {
	if !ValidDate(date) || !ValidClock(start) || !ValidClock(end) {
		return false, internal.NewValidationError("invalid date or time format", internal.ErrCodeValidationFailed)
	}

	conflict, err := s.repo.HasConflict(ctx, roomID, date, start, end, ignoreBookingID)
	if err != nil {
		s.logger.Error("conflict check failed", "error", err, "room_id", roomID, "date", date)
		return false, internal.NewInternalError("could not check room availability", err)
	}
	return conflict, nil
}

func (s *Service) CreateBooking(ctx context.Context, employeeID int64, dto CreateBookingDTO) (*Booking, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureRoomExists(ctx, dto.RoomID); err != nil {
		return nil, err
	}

	b := &Booking{
		RoomID:     dto.RoomID,
		EmployeeID: employeeID,
		Date:       dto.Date,
		StartTime:  dto.StartTime,
		EndTime:    dto.EndTime,
		Purpose:    dto.Purpose,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create booking", "error", err, "room_id", dto.RoomID, "date", dto.Date)
		return nil, internal.NewInternalError("could not create booking", err)
	}

	s.logger.Info("booking created",
		"booking_id", b.ID,
		"room_id", b.RoomID,
		"date", b.Date,
		"slot", b.StartTime+"-"+b.EndTime)

	s.bus.Publish(ctx, events.NewBookingChangedEvent(events.ActionCreated, b.ID, b.RoomID, b.Date))

	return b, nil
}

// UpdateBooking moves a booking to a new room/date/slot, excluding the
// booking itself from the conflict check so re-saving the same slot never
// self-rejects. Bookings owned by an event are updated through the event
// path instead, so the event and its reservation stay in lock-step.
func (s *Service) UpdateBooking(ctx context.Context, bookingID int64, dto UpdateBookingDTO) (*Booking, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.EventID != nil {
		return nil, internal.NewValidationError("booking belongs to an event; update the event instead", internal.ErrCodeValidationFailed)
	}

	if err := s.ensureRoomExists(ctx, dto.RoomID); err != nil {
		return nil, err
	}

	b.RoomID = dto.RoomID
	b.Date = dto.Date
	b.StartTime = dto.StartTime
	b.EndTime = dto.EndTime
	b.Purpose = dto.Purpose

	if err := s.repo.Update(ctx, b); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to update booking", "error", err, "booking_id", bookingID)
		return nil, internal.NewInternalError("could not update booking", err)
	}

	s.logger.Info("booking updated", "booking_id", b.ID, "room_id", b.RoomID, "date", b.Date)

	s.bus.Publish(ctx, events.NewBookingChangedEvent(events.ActionUpdated, b.ID, b.RoomID, b.Date))

	return b, nil
}

// DeleteBooking removes a booking. Bookings owned by an event are deleted
// through the event path instead, so their removal stays in lock-step with
// the event row.
func (s *Service) DeleteBooking(ctx context.Context, bookingID int64) error {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if b.EventID != nil {
		return internal.NewValidationError("booking belongs to an event; delete the event instead", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.Delete(ctx, bookingID); err != nil {
		s.logger.Error("failed to delete booking", "error", err, "booking_id", bookingID)
		return internal.NewInternalError("could not delete booking", err)
	}

	s.logger.Info("booking deleted", "booking_id", bookingID)

	s.bus.Publish(ctx, events.NewBookingChangedEvent(events.ActionDeleted, b.ID, b.RoomID, b.Date))

	return nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID int64) (*Booking, error) {
	return s.getBooking(ctx, bookingID)
}

func (s *Service) ListBookings(ctx context.Context, filter ListFilter, limit, offset int) ([]*Booking, error) {
	if filter.Date != "" && !ValidDate(filter.Date) {
		return nil, internal.NewValidationFieldError("date", "date must be formatted as YYYY-MM-DD", internal.ErrCodeValidationFailed)
	}

	bookings, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list bookings", "error", err)
		return nil, internal.NewInternalError("could not list bookings", err)
	}
	return bookings, nil
}

func (s *Service) getBooking(ctx context.Context, bookingID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to get booking", "error", err, "booking_id", bookingID)
		return nil, internal.NewInternalError("could not load booking", err)
	}
	return b, nil
}

func (s *Service) ensureRoomExists(ctx context.Context, roomID int64) error {
	exists, err := s.rooms.RoomExists(ctx, roomID)
	if err != nil {
		s.logger.Error("room lookup failed", "error", err, "room_id", roomID)
		return internal.NewInternalError("could not verify room", err)
	}
	if !exists {
		return internal.ErrRoomNotFound
	}
	return nil
}

// Today formats now's date in the booking date layout. Used by callers that
// need a "from today" boundary.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
