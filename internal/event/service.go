package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/booking"
	"github.com/frahmantamala/office-calendar/internal/core/events"
)

// Service manages calendar events and their attendance. Every mutation of an
// event carries its room booking along in the same transaction, so the
// calendar and the room schedule can never disagree.
type Service struct {
	repo   Repository
	rooms  booking.RoomDirectory
	bus    *events.EventBus
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, rooms booking.RoomDirectory, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		rooms:  rooms,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) CreateEvent(ctx context.Context, creatorID int64, dto CreateEventDTO) (*Event, error) {
	if err := dto.Validate(s.now()); err != nil {
		return nil, err
	}

	if err := s.ensureRoomExists(ctx, dto.RoomID); err != nil {
		return nil, err
	}

	ev := &Event{
		Title:       dto.Title,
		Description: dto.Description,
		Date:        dto.Date,
		StartTime:   dto.StartTime,
		EndTime:     dto.EndTime,
		RoomID:      dto.RoomID,
		CreatorID:   creatorID,
	}

	if err := s.repo.CreateWithBooking(ctx, ev); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create event", "error", err, "room_id", dto.RoomID, "date", dto.Date)
		return nil, internal.NewInternalError("could not create event", err)
	}

	s.logger.Info("event created",
		"event_id", ev.ID,
		"room_id", ev.RoomID,
		"date", ev.Date,
		"slot", ev.StartTime+"-"+ev.EndTime)

	s.bus.Publish(ctx, events.NewBookingChangedEvent(events.ActionCreated, ev.BookingID, ev.RoomID, ev.Date))

	return ev, nil
}

func (s *Service) UpdateEvent(ctx context.Context, eventID int64, dto UpdateEventDTO) (*Event, error) {
	if err := dto.Validate(s.now()); err != nil {
		return nil, err
	}

	ev, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureRoomExists(ctx, dto.RoomID); err != nil {
		return nil, err
	}

	ev.Title = dto.Title
	ev.Description = dto.Description
	ev.Date = dto.Date
	ev.StartTime = dto.StartTime
	ev.EndTime = dto.EndTime
	ev.RoomID = dto.RoomID

	if err := s.repo.UpdateWithBooking(ctx, ev); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to update event", "error", err, "event_id", eventID)
		return nil, internal.NewInternalError("could not update event", err)
	}

	s.logger.Info("event updated", "event_id", ev.ID, "room_id", ev.RoomID, "date", ev.Date)

	s.bus.Publish(ctx, events.NewBookingChangedEvent(events.ActionUpdated, ev.BookingID, ev.RoomID, ev.Date))

	return ev, nil
}

// DeleteEvent removes the event together with its linked booking and all
// participation rows. An event whose booking is already gone deletes cleanly.
func (s *Service) DeleteEvent(ctx context.Context, eventID int64) error {
	ev, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteWithBooking(ctx, eventID); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		s.logger.Error("failed to delete event", "error", err, "event_id", eventID)
		return internal.NewInternalError("could not delete event", err)
	}

	s.logger.Info("event deleted", "event_id", eventID)

	s.bus.Publish(ctx, events.NewBookingChangedEvent(events.ActionDeleted, ev.BookingID, ev.RoomID, ev.Date))

	return nil
}

func (s *Service) GetEvent(ctx context.Context, eventID int64) (*Event, error) {
	return s.getEvent(ctx, eventID)
}

func (s *Service) ListEvents(ctx context.Context, filter ListFilter, limit, offset int) ([]*Event, error) {
	if filter.Date != "" && !booking.ValidDate(filter.Date) {
		return nil, internal.NewValidationFieldError("date", "date must be formatted as YYYY-MM-DD", internal.ErrCodeValidationFailed)
	}

	list, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list events", "error", err)
		return nil, internal.NewInternalError("could not list events", err)
	}
	return list, nil
}

// Attend marks the employee as attending. Attending twice is not an error;
// the broadcast only fires when a row was actually inserted.
func (s *Service) Attend(ctx context.Context, eventID, employeeID int64) error {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return err
	}

	changed, err := s.repo.Attend(ctx, eventID, employeeID)
	if err != nil {
		s.logger.Error("failed to attend event", "error", err, "event_id", eventID, "employee_id", employeeID)
		return internal.NewInternalError("could not record attendance", err)
	}

	if changed {
		s.broadcastAttendance(ctx, eventID)
	}
	return nil
}

// Unattend removes the employee from the attendee list. The changed return
// distinguishes a real removal from a no-op on a participation that never
// existed.
func (s *Service) Unattend(ctx context.Context, eventID, employeeID int64) (changed bool, err error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return false, err
	}

	changed, err = s.repo.Unattend(ctx, eventID, employeeID)
	if err != nil {
		s.logger.Error("failed to unattend event", "error", err, "event_id", eventID, "employee_id", employeeID)
		return false, internal.NewInternalError("could not remove attendance", err)
	}

	if changed {
		s.broadcastAttendance(ctx, eventID)
	}
	return changed, nil
}

func (s *Service) AttendanceStatus(ctx context.Context, eventID, employeeID int64) (*AttendanceStatusDTO, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}

	attending, err := s.repo.IsAttending(ctx, eventID, employeeID)
	if err != nil {
		return nil, internal.NewInternalError("could not load attendance", err)
	}
	names, err := s.repo.AttendeeNames(ctx, eventID)
	if err != nil {
		return nil, internal.NewInternalError("could not load attendees", err)
	}

	return &AttendanceStatusDTO{
		EventID:   eventID,
		Attending: attending,
		Attendees: names,
	}, nil
}

func (s *Service) getEvent(ctx context.Context, eventID int64) (*Event, error) {
	ev, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to get event", "error", err, "event_id", eventID)
		return nil, internal.NewInternalError("could not load event", err)
	}
	return ev, nil
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

// broadcastAttendance publishes the refreshed attendee list. A failed name
// lookup is logged and dropped; the attendance write already committed.
func (s *Service) broadcastAttendance(ctx context.Context, eventID int64) {
	names, err := s.repo.AttendeeNames(ctx, eventID)
	if err != nil {
		s.logger.Error("failed to load attendees for broadcast", "error", err, "event_id", eventID)
		return
	}
	s.bus.Publish(ctx, events.NewAttendanceChangedEvent(eventID, names))
}
