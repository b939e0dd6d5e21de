package room

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/booking"
	"github.com/frahmantamala/office-calendar/internal/core/events"
)

// BookingLookup is the slice of the booking domain the room service needs to
// refuse deleting rooms that still have reservations ahead.
type BookingLookup interface {
	HasUpcomingForRoom(ctx context.Context, roomID int64, fromDate string) (bool, error)
}

type Service struct {
	repo     Repository
	bookings BookingLookup
	bus      *events.EventBus
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, bookings BookingLookup, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		bookings: bookings,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
}

// RoomExists satisfies the directory interface the booking and event services
// consume.
func (s *Service) RoomExists(ctx context.Context, roomID int64) (bool, error) {
	return s.repo.Exists(ctx, roomID)
}

func (s *Service) CreateRoom(ctx context.Context, dto RoomDTO) (*Room, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, dto.Name, 0); err != nil {
		return nil, err
	}

	rm := &Room{
		Name:     dto.Name,
		Capacity: dto.Capacity,
		Location: dto.Location,
	}

	if err := s.repo.Create(ctx, rm); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create room", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("could not create room", err)
	}

	s.logger.Info("room created", "room_id", rm.ID, "name", rm.Name)

	s.bus.Publish(ctx, events.NewRoomChangedEvent(events.ActionCreated, rm.ID))

	return rm, nil
}

func (s *Service) UpdateRoom(ctx context.Context, roomID int64, dto RoomDTO) (*Room, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rm, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, dto.Name, roomID); err != nil {
		return nil, err
	}

	rm.Name = dto.Name
	rm.Capacity = dto.Capacity
	rm.Location = dto.Location

	if err := s.repo.Update(ctx, rm); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to update room", "error", err, "room_id", roomID)
		return nil, internal.NewInternalError("could not update room", err)
	}

	s.logger.Info("room updated", "room_id", rm.ID, "name", rm.Name)

	s.bus.Publish(ctx, events.NewRoomChangedEvent(events.ActionUpdated, rm.ID))

	return rm, nil
}

// DeleteRoom removes a room unless it still has bookings from today onward.
// Past bookings never block deletion.
func (s *Service) DeleteRoom(ctx context.Context, roomID int64) error {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return err
	}

	inUse, err := s.bookings.HasUpcomingForRoom(ctx, roomID, booking.Today(s.now()))
	if err != nil {
		s.logger.Error("failed to check room bookings", "error", err, "room_id", roomID)
		return internal.NewInternalError("could not check room usage", err)
	}
	if inUse {
		return internal.ErrRoomInUse
	}

	if err := s.repo.Delete(ctx, roomID); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		s.logger.Error("failed to delete room", "error", err, "room_id", roomID)
		return internal.NewInternalError("could not delete room", err)
	}

	s.logger.Info("room deleted", "room_id", roomID)

	s.bus.Publish(ctx, events.NewRoomChangedEvent(events.ActionDeleted, roomID))

	return nil
}

func (s *Service) GetRoom(ctx context.Context, roomID int64) (*Room, error) {
	return s.getRoom(ctx, roomID)
}

func (s *Service) ListRooms(ctx context.Context, limit, offset int) ([]*Room, error) {
	rooms, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list rooms", "error", err)
		return nil, internal.NewInternalError("could not list rooms", err)
	}
	return rooms, nil
}

func (s *Service) getRoom(ctx context.Context, roomID int64) (*Room, error) {
	rm, err := s.repo.GetByID(ctx, roomID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to get room", "error", err, "room_id", roomID)
		return nil, internal.NewInternalError("could not load room", err)
	}
	return rm, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, ignoreRoomID int64) error {
	taken, err := s.repo.NameTaken(ctx, name, ignoreRoomID)
	if err != nil {
		s.logger.Error("room name lookup failed", "error", err, "name", name)
		return internal.NewInternalError("could not verify room name", err)
	}
	if taken {
		return internal.ErrRoomNameExists
	}
	return nil
}
