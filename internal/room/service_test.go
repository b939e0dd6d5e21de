package room

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/core/events"
	"github.com/frahmantamala/office-calendar/pkg/logger"
)

func TestRoom(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Room Module Suite")
}

type mockRoomRepository struct {
	rooms  map[int64]*Room
	nextID int64
}

func newMockRoomRepository() *mockRoomRepository {
	return &mockRoomRepository{rooms: make(map[int64]*Room), nextID: 1}
}

func (m *mockRoomRepository) Create(_ context.Context, rm *Room) error {
	rm.ID = m.nextID
	m.nextID++
	stored := *rm
	m.rooms[rm.ID] = &stored
	return nil
}

func (m *mockRoomRepository) Update(_ context.Context, rm *Room) error {
	if _, ok := m.rooms[rm.ID]; !ok {
		return internal.ErrRoomNotFound
	}
	stored := *rm
	m.rooms[rm.ID] = &stored
	return nil
}

func (m *mockRoomRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.rooms[id]; !ok {
		return internal.ErrRoomNotFound
	}
	delete(m.rooms, id)
	return nil
}

func (m *mockRoomRepository) GetByID(_ context.Context, id int64) (*Room, error) {
	if rm, ok := m.rooms[id]; ok {
		copied := *rm
		return &copied, nil
	}
	return nil, internal.ErrRoomNotFound
}

func (m *mockRoomRepository) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.rooms[id]
	return ok, nil
}

func (m *mockRoomRepository) NameTaken(_ context.Context, name string, ignoreRoomID int64) (bool, error) {
	for _, rm := range m.rooms {
		if rm.ID != ignoreRoomID && strings.EqualFold(rm.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoomRepository) List(_ context.Context, limit, offset int) ([]*Room, error) {
	var out []*Room
	for _, rm := range m.rooms {
		copied := *rm
		out = append(out, &copied)
	}
	return out, nil
}

type mockBookingLookup struct {
	upcoming map[int64]bool
}

func (m *mockBookingLookup) HasUpcomingForRoom(_ context.Context, roomID int64, _ string) (bool, error) {
	return m.upcoming[roomID], nil
}

var _ = ginkgo.Describe("RoomService", func() {
	var (
		service  *Service
		repo     *mockRoomRepository
		bookings *mockBookingLookup
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRoomRepository()
		bookings = &mockBookingLookup{upcoming: make(map[int64]bool)}
		bus := events.NewEventBus(logger.L())
		service = NewService(repo, bookings, bus, logger.L())
		service.now = func() time.Time { return time.Date(2027, 3, 1, 9, 0, 0, 0, time.UTC) }
	})

	ginkgo.Describe("CreateRoom", func() {
		ginkgo.It("should create a room", func() {
			rm, err := service.CreateRoom(ctx, RoomDTO{Name: "Boardroom", Capacity: 12, Location: "1st floor"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rm.ID).To(gomega.BeNumerically(">", 0))
		})

		ginkgo.It("should reject a duplicate name regardless of case", func() {
			_, err := service.CreateRoom(ctx, RoomDTO{Name: "Boardroom"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.CreateRoom(ctx, RoomDTO{Name: "boardROOM"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoomNameExists))
		})

		ginkgo.It("should reject a negative capacity", func() {
			_, err := service.CreateRoom(ctx, RoomDTO{Name: "Boardroom", Capacity: -1})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})

		ginkgo.It("should require a name", func() {
			_, err := service.CreateRoom(ctx, RoomDTO{Name: "   "})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})

		ginkgo.It("should collect every invalid field into one error", func() {
			_, err := service.CreateRoom(ctx, RoomDTO{Name: "  ", Capacity: -3})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
			gomega.Expect(appErr.Message).To(gomega.ContainSubstring("name is required"))
			gomega.Expect(appErr.Message).To(gomega.ContainSubstring("capacity must not be negative"))
		})
	})

	ginkgo.Describe("UpdateRoom", func() {
		ginkgo.It("should allow keeping the room's own name", func() {
			rm, err := service.CreateRoom(ctx, RoomDTO{Name: "Boardroom", Capacity: 12})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			updated, err := service.UpdateRoom(ctx, rm.ID, RoomDTO{Name: "Boardroom", Capacity: 14})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Capacity).To(gomega.Equal(14))
		})

		ginkgo.It("should reject renaming onto another room", func() {
			_, err := service.CreateRoom(ctx, RoomDTO{Name: "Boardroom"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			rm, err := service.CreateRoom(ctx, RoomDTO{Name: "Fishbowl"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.UpdateRoom(ctx, rm.ID, RoomDTO{Name: "Boardroom"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoomNameExists))
		})
	})

	ginkgo.Describe("DeleteRoom", func() {
		ginkgo.It("should delete a room with no upcoming bookings", func() {
			rm, err := service.CreateRoom(ctx, RoomDTO{Name: "Boardroom"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.DeleteRoom(ctx, rm.ID)).To(gomega.Succeed())

			_, err = service.GetRoom(ctx, rm.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoomNotFound))
		})

		ginkgo.It("should refuse to delete a room with bookings ahead", func() {
			rm, err := service.CreateRoom(ctx, RoomDTO{Name: "Boardroom"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			bookings.upcoming[rm.ID] = true

			gomega.Expect(service.DeleteRoom(ctx, rm.ID)).To(gomega.MatchError(internal.ErrRoomInUse))
		})

		ginkgo.It("should report a missing room", func() {
			gomega.Expect(service.DeleteRoom(ctx, 404)).To(gomega.MatchError(internal.ErrRoomNotFound))
		})
	})
})
