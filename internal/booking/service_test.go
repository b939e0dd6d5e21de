package booking

import (
	"context"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/core/events"
	"github.com/frahmantamala/office-calendar/pkg/logger"
)

func TestBooking(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Booking Module Suite")
}

// In-memory repository applying the same half-open overlap rule the SQL
// implementation runs on the stored columns.
type mockBookingRepository struct {
	bookings map[int64]*Booking
	nextID   int64
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{bookings: make(map[int64]*Booking), nextID: 1}
}

func (m *mockBookingRepository) conflict(roomID int64, date, start, end string, ignoreID int64) bool {
	for _, b := range m.bookings {
		if b.RoomID != roomID || b.Date != date || b.ID == ignoreID {
			continue
		}
		if Overlaps(b.StartTime, b.EndTime, start, end) {
			return true
		}
	}
	return false
}

func (m *mockBookingRepository) Create(_ context.Context, b *Booking) error {
	if m.conflict(b.RoomID, b.Date, b.StartTime, b.EndTime, 0) {
		return internal.ErrRoomNotAvailable
	}
	b.ID = m.nextID
	m.nextID++
	stored := *b
	m.bookings[b.ID] = &stored
	return nil
}

func (m *mockBookingRepository) Update(_ context.Context, b *Booking) error {
	if _, ok := m.bookings[b.ID]; !ok {
		return internal.ErrBookingNotFound
	}
	if m.conflict(b.RoomID, b.Date, b.StartTime, b.EndTime, b.ID) {
		return internal.ErrRoomNotAvailable
	}
	stored := *b
	m.bookings[b.ID] = &stored
	return nil
}

func (m *mockBookingRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.bookings[id]; !ok {
		return internal.ErrBookingNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *mockBookingRepository) GetByID(_ context.Context, id int64) (*Booking, error) {
	if b, ok := m.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, internal.ErrBookingNotFound
}

func (m *mockBookingRepository) HasConflict(_ context.Context, roomID int64, date, start, end string, ignoreID int64) (bool, error) {
	return m.conflict(roomID, date, start, end, ignoreID), nil
}

func (m *mockBookingRepository) List(_ context.Context, filter ListFilter, limit, offset int) ([]*Booking, error) {
	var out []*Booking
	for _, b := range m.bookings {
		if filter.RoomID != 0 && b.RoomID != filter.RoomID {
			continue
		}
		if filter.Date != "" && b.Date != filter.Date {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockBookingRepository) HasUpcomingForRoom(_ context.Context, roomID int64, fromDate string) (bool, error) {
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.Date >= fromDate {
			return true, nil
		}
	}
	return false, nil
}

type mockRoomDirectory struct {
	rooms map[int64]bool
}

func (m *mockRoomDirectory) RoomExists(_ context.Context, roomID int64) (bool, error) {
	return m.rooms[roomID], nil
}

var _ = ginkgo.Describe("BookingService", func() {
	var (
		service *Service
		repo    *mockBookingRepository
		ctx     context.Context
	)

	futureDate := time.Now().AddDate(1, 0, 0).Format(DateLayout)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMockBookingRepository()
		rooms := &mockRoomDirectory{rooms: map[int64]bool{1: true, 2: true}}
		bus := events.NewEventBus(logger.L())
		service = NewService(repo, rooms, bus, logger.L())
	})

	create := func(roomID int64, start, end string) (*Booking, error) {
		return service.CreateBooking(ctx, 7, CreateBookingDTO{
			RoomID:    roomID,
			Date:      futureDate,
			StartTime: start,
			EndTime:   end,
			Purpose:   "sync",
		})
	}

	ginkgo.Describe("CreateBooking", func() {
		ginkgo.It("should accept a booking in a free room", func() {
			b, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(b.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(b.EmployeeID).To(gomega.Equal(int64(7)))
		})

		ginkgo.It("should reject an overlapping booking in the same room", func() {
			_, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = create(1, "10:30", "11:30")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoomNotAvailable))
		})

		ginkgo.It("should accept a booking sharing only a boundary", func() {
			_, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// [11:00,12:00) starts exactly where the first ends.
			_, err = create(1, "11:00", "12:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should accept the same slot in a different room", func() {
			_, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = create(2, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should accept a fully enclosed free gap", func() {
			_, err := create(1, "08:00", "09:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = create(1, "12:00", "13:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = create(1, "09:00", "12:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should reject an enclosing interval", func() {
			_, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = create(1, "09:00", "12:00")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoomNotAvailable))
		})

		ginkgo.It("should reject end before or equal to start", func() {
			_, err := create(1, "11:00", "10:00")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidTimeRange))

			_, err = create(1, "10:00", "10:00")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidTimeRange))
		})

		ginkgo.It("should reject malformed dates and times", func() {
			_, err := service.CreateBooking(ctx, 7, CreateBookingDTO{
				RoomID: 1, Date: "08-11-2025", StartTime: "10:00", EndTime: "11:00",
			})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))

			_, err = service.CreateBooking(ctx, 7, CreateBookingDTO{
				RoomID: 1, Date: futureDate, StartTime: "9:00", EndTime: "11:00",
			})
			appErr, ok = internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})

		ginkgo.It("should reject a booking for an unknown room", func() {
			_, err := create(99, "10:00", "11:00")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoomNotFound))
		})
	})

	ginkgo.Describe("UpdateBooking", func() {
		ginkgo.It("should allow re-saving the same slot without self-conflict", func() {
			b, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			updated, err := service.UpdateBooking(ctx, b.ID, UpdateBookingDTO{
				RoomID:    1,
				Date:      futureDate,
				StartTime: "10:00",
				EndTime:   "11:00",
				Purpose:   "still the same sync",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Purpose).To(gomega.Equal("still the same sync"))
		})

		ginkgo.It("should reject a move onto another booking", func() {
			_, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			b, err := create(1, "12:00", "13:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.UpdateBooking(ctx, b.ID, UpdateBookingDTO{
				RoomID:    1,
				Date:      futureDate,
				StartTime: "10:30",
				EndTime:   "11:30",
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoomNotAvailable))
		})

		ginkgo.It("should report a missing booking as not found", func() {
			_, err := service.UpdateBooking(ctx, 404, UpdateBookingDTO{
				RoomID: 1, Date: futureDate, StartTime: "10:00", EndTime: "11:00",
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrBookingNotFound))
		})

		ginkgo.It("should refuse to move an event-owned booking", func() {
			b, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			eventID := int64(5)
			repo.bookings[b.ID].EventID = &eventID

			_, err = service.UpdateBooking(ctx, b.ID, UpdateBookingDTO{
				RoomID:    2,
				Date:      futureDate,
				StartTime: "12:00",
				EndTime:   "13:00",
			})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))

			kept, err := service.GetBooking(ctx, b.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(kept.RoomID).To(gomega.Equal(int64(1)))
			gomega.Expect(kept.StartTime).To(gomega.Equal("10:00"))
		})
	})

	ginkgo.Describe("DeleteBooking", func() {
		ginkgo.It("should delete a standalone booking", func() {
			b, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.DeleteBooking(ctx, b.ID)).To(gomega.Succeed())

			_, err = service.GetBooking(ctx, b.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrBookingNotFound))
		})

		ginkgo.It("should refuse to delete an event-owned booking", func() {
			b, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			eventID := int64(5)
			repo.bookings[b.ID].EventID = &eventID

			err = service.DeleteBooking(ctx, b.ID)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})
	})

	ginkgo.Describe("HasConflict", func() {
		ginkgo.It("should honor the ignore id", func() {
			b, err := create(1, "10:00", "11:00")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			conflict, err := service.HasConflict(ctx, 1, futureDate, "10:00", "11:00", 0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(conflict).To(gomega.BeTrue())

			conflict, err = service.HasConflict(ctx, 1, futureDate, "10:00", "11:00", b.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(conflict).To(gomega.BeFalse())
		})
	})
})

var _ = ginkgo.Describe("Overlap predicate", func() {
	ginkgo.DescribeTable("Overlaps",
		func(aStart, aEnd, bStart, bEnd string, expected bool) {
			gomega.Expect(Overlaps(aStart, aEnd, bStart, bEnd)).To(gomega.Equal(expected))
			gomega.Expect(Overlaps(bStart, bEnd, aStart, aEnd)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("identical", "10:00", "11:00", "10:00", "11:00", true),
		ginkgo.Entry("partial overlap", "10:00", "11:00", "10:30", "11:30", true),
		ginkgo.Entry("enclosing", "09:00", "12:00", "10:00", "11:00", true),
		ginkgo.Entry("shared boundary", "10:00", "11:00", "11:00", "12:00", false),
		ginkgo.Entry("disjoint", "08:00", "09:00", "10:00", "11:00", false),
	)

	ginkgo.It("should bound business hours inclusively", func() {
		gomega.Expect(WithinBusinessHours("08:00", "18:00")).To(gomega.BeTrue())
		gomega.Expect(WithinBusinessHours("07:59", "09:00")).To(gomega.BeFalse())
		gomega.Expect(WithinBusinessHours("17:00", "18:01")).To(gomega.BeFalse())
	})

	ginkgo.It("should detect past moments", func() {
		now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
		gomega.Expect(InPast("2026-08-31", "11:00", now)).To(gomega.BeTrue())
		gomega.Expect(InPast("2026-08-31", "13:00", now)).To(gomega.BeFalse())
		gomega.Expect(InPast("2026-09-01", "08:00", now)).To(gomega.BeFalse())
	})
})
