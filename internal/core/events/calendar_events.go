package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published by the calendar services. The realtime hub subscribes
// to these and rebroadcasts them to connected clients.
const (
	TypeAttendanceChanged = "attendance.changed"
	TypeBookingChanged    = "booking.changed"
	TypeRoomChanged       = "room.changed"
)

// Change actions carried in the payload of booking/room events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

func NewAttendanceChangedEvent(eventID int64, attendees []string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      TypeAttendanceChanged,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"event_id":  eventID,
			"attendees": attendees,
		},
	}
}

func NewBookingChangedEvent(action string, bookingID, roomID int64, date string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      TypeBookingChanged,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"action":     action,
			"booking_id": bookingID,
			"room_id":    roomID,
			"date":       date,
		},
	}
}

func NewRoomChangedEvent(action string, roomID int64) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      TypeRoomChanged,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"action":  action,
			"room_id": roomID,
		},
	}
}
