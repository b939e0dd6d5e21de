package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/room"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	err := r.db.WithContext(ctx).Create(rm).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrRoomNameExists
	}
	return err
}

func (r *RoomRepository) Update(ctx context.Context, rm *room.Room) error {
	rm.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(rm).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrRoomNameExists
	}
	return err
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&room.Room{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*room.Room, error) {
	var rm room.Room
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&room.Room{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *RoomRepository) NameTaken(ctx context.Context, name string, ignoreRoomID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&room.Room{}).
		Where("LOWER(name) = LOWER(?)", name)
	if ignoreRoomID != 0 {
		q = q.Where("id <> ?", ignoreRoomID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *RoomRepository) List(ctx context.Context, limit, offset int) ([]*room.Room, error) {
	var rooms []*room.Room
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&rooms).Error
	return rooms, err
}
