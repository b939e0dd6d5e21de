package postgres_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/booking"
	"github.com/frahmantamala/office-calendar/internal/event"
	eventPostgres "github.com/frahmantamala/office-calendar/internal/event/postgres"
)

func TestEventPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Event Postgres Suite")
}

// Minimal employees table for the attendee-name join.
type testEmployee struct {
	ID        int64  `gorm:"primaryKey"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
}

func (testEmployee) TableName() string {
	return "employees"
}

var _ = Describe("Event Repository", func() {
	var (
		db   *gorm.DB
		repo *eventPostgres.EventRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&event.Event{}, &event.Participation{}, &booking.Booking{}, &testEmployee{})).To(Succeed())

		ctx = context.Background()
		repo = eventPostgres.NewEventRepository(db)
	})

	makeEvent := func(roomID int64, date, start, end string) *event.Event {
		return &event.Event{
			Title:     "planning",
			Date:      date,
			StartTime: start,
			EndTime:   end,
			RoomID:    roomID,
			CreatorID: 1,
		}
	}

	countBookings := func() int64 {
		var n int64
		Expect(db.Model(&booking.Booking{}).Count(&n).Error).To(Succeed())
		return n
	}

	Describe("CreateWithBooking", func() {
		It("should insert the event and its booking together", func() {
			ev := makeEvent(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.CreateWithBooking(ctx, ev)).To(Succeed())
			Expect(ev.ID).To(BeNumerically(">", 0))
			Expect(ev.BookingID).To(BeNumerically(">", 0))

			var b booking.Booking
			Expect(db.First(&b, ev.BookingID).Error).To(Succeed())
			Expect(*b.EventID).To(Equal(ev.ID))
			Expect(b.RoomID).To(Equal(ev.RoomID))
			Expect(b.Purpose).To(Equal(ev.Title))
		})

		It("should roll back the event when the slot is taken", func() {
			Expect(repo.CreateWithBooking(ctx, makeEvent(1, "2027-03-01", "10:00", "11:00"))).To(Succeed())

			err := repo.CreateWithBooking(ctx, makeEvent(1, "2027-03-01", "10:30", "11:30"))
			Expect(err).To(MatchError(internal.ErrRoomNotAvailable))

			var n int64
			Expect(db.Model(&event.Event{}).Count(&n).Error).To(Succeed())
			Expect(n).To(Equal(int64(1)))
			Expect(countBookings()).To(Equal(int64(1)))
		})

		It("should conflict with a standalone booking in the same slot", func() {
			standalone := &booking.Booking{
				RoomID: 1, EmployeeID: 2, Date: "2027-03-01", StartTime: "10:00", EndTime: "11:00",
			}
			Expect(db.Create(standalone).Error).To(Succeed())

			err := repo.CreateWithBooking(ctx, makeEvent(1, "2027-03-01", "10:30", "11:30"))
			Expect(err).To(MatchError(internal.ErrRoomNotAvailable))
		})
	})

	Describe("UpdateWithBooking", func() {
		It("should move the linked booking in lock-step", func() {
			ev := makeEvent(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.CreateWithBooking(ctx, ev)).To(Succeed())

			ev.RoomID = 2
			ev.StartTime = "14:00"
			ev.EndTime = "15:00"
			Expect(repo.UpdateWithBooking(ctx, ev)).To(Succeed())

			var b booking.Booking
			Expect(db.Where("event_id = ?", ev.ID).First(&b).Error).To(Succeed())
			Expect(b.RoomID).To(Equal(int64(2)))
			Expect(b.StartTime).To(Equal("14:00"))
			Expect(countBookings()).To(Equal(int64(1)))
		})

		It("should not self-conflict when keeping the slot", func() {
			ev := makeEvent(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.CreateWithBooking(ctx, ev)).To(Succeed())

			ev.Title = "planning, part two"
			Expect(repo.UpdateWithBooking(ctx, ev)).To(Succeed())
		})

		It("should reject moving onto another reservation", func() {
			Expect(repo.CreateWithBooking(ctx, makeEvent(1, "2027-03-01", "10:00", "11:00"))).To(Succeed())
			ev := makeEvent(1, "2027-03-01", "12:00", "13:00")
			Expect(repo.CreateWithBooking(ctx, ev)).To(Succeed())

			ev.StartTime = "10:30"
			ev.EndTime = "11:30"
			Expect(repo.UpdateWithBooking(ctx, ev)).To(MatchError(internal.ErrRoomNotAvailable))
		})

		It("should recreate a booking that went missing", func() {
			ev := makeEvent(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.CreateWithBooking(ctx, ev)).To(Succeed())
			Expect(db.Where("event_id = ?", ev.ID).Delete(&booking.Booking{}).Error).To(Succeed())

			Expect(repo.UpdateWithBooking(ctx, ev)).To(Succeed())
			Expect(countBookings()).To(Equal(int64(1)))
		})
	})

	Describe("DeleteWithBooking", func() {
		It("should remove the event, its booking and its participations", func() {
			ev := makeEvent(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.CreateWithBooking(ctx, ev)).To(Succeed())
			_, err := repo.Attend(ctx, ev.ID, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.DeleteWithBooking(ctx, ev.ID)).To(Succeed())

			Expect(countBookings()).To(Equal(int64(0)))
			var n int64
			Expect(db.Model(&event.Participation{}).Count(&n).Error).To(Succeed())
			Expect(n).To(Equal(int64(0)))
		})

		It("should delete cleanly when the booking is already gone", func() {
			ev := makeEvent(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.CreateWithBooking(ctx, ev)).To(Succeed())
			Expect(db.Where("event_id = ?", ev.ID).Delete(&booking.Booking{}).Error).To(Succeed())

			Expect(repo.DeleteWithBooking(ctx, ev.ID)).To(Succeed())
		})

		It("should not touch other events' bookings", func() {
			ev1 := makeEvent(1, "2027-03-01", "10:00", "11:00")
			ev2 := makeEvent(1, "2027-03-01", "12:00", "13:00")
			Expect(repo.CreateWithBooking(ctx, ev1)).To(Succeed())
			Expect(repo.CreateWithBooking(ctx, ev2)).To(Succeed())

			Expect(repo.DeleteWithBooking(ctx, ev1.ID)).To(Succeed())
			Expect(countBookings()).To(Equal(int64(1)))
		})

		It("should report a missing event", func() {
			Expect(repo.DeleteWithBooking(ctx, 404)).To(MatchError(internal.ErrEventNotFound))
		})
	})

	Describe("Attendance", func() {
		var ev *event.Event

		BeforeEach(func() {
			ev = makeEvent(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.CreateWithBooking(ctx, ev)).To(Succeed())

			Expect(db.Create(&testEmployee{ID: 1, FirstName: "Ada", LastName: "Byron"}).Error).To(Succeed())
			Expect(db.Create(&testEmployee{ID: 2, FirstName: "Alan", LastName: "Archer"}).Error).To(Succeed())
		})

		It("should insert exactly one row for repeated attends", func() {
			changed, err := repo.Attend(ctx, ev.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())

			changed, err = repo.Attend(ctx, ev.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())

			var n int64
			Expect(db.Model(&event.Participation{}).Count(&n).Error).To(Succeed())
			Expect(n).To(Equal(int64(1)))
		})

		It("should distinguish removal from no-op on unattend", func() {
			changed, err := repo.Unattend(ctx, ev.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())

			_, err = repo.Attend(ctx, ev.ID, 1)
			Expect(err).NotTo(HaveOccurred())

			changed, err = repo.Unattend(ctx, ev.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())
		})

		It("should list attendee names ordered by last then first name", func() {
			_, err := repo.Attend(ctx, ev.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.Attend(ctx, ev.ID, 2)
			Expect(err).NotTo(HaveOccurred())

			names, err := repo.AttendeeNames(ctx, ev.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"Alan Archer", "Ada Byron"}))
		})

		It("should return an empty list for an event without attendees", func() {
			names, err := repo.AttendeeNames(ctx, ev.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(BeEmpty())
		})
	})
})
