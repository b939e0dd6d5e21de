package room

import (
	"context"
	"time"
)

// Room is a bookable meeting room. Names are unique case-insensitively.
type Room struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Capacity  int       `gorm:"column:capacity;not null;default:0" json:"capacity"`
	Location  string    `gorm:"column:location" json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Room) TableName() string {
	return "rooms"
}

type Repository interface {
	Create(ctx context.Context, rm *Room) error
	Update(ctx context.Context, rm *Room) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Room, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// NameTaken matches case-insensitively, excluding ignoreRoomID (zero
	// excludes nothing).
	NameTaken(ctx context.Context, name string, ignoreRoomID int64) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Room, error)
}
