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
	bookingPostgres "github.com/frahmantamala/office-calendar/internal/booking/postgres"
)

func TestBookingPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Booking Postgres Suite")
}

var _ = Describe("Booking Repository", func() {
	var (
		db   *gorm.DB
		repo *bookingPostgres.BookingRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&booking.Booking{})).To(Succeed())

		ctx = context.Background()
		repo = bookingPostgres.NewBookingRepository(db)
	})

	makeBooking := func(roomID int64, date, start, end string) *booking.Booking {
		return &booking.Booking{
			RoomID:     roomID,
			EmployeeID: 1,
			Date:       date,
			StartTime:  start,
			EndTime:    end,
			Purpose:    "standup",
		}
	}

	Describe("Create", func() {
		It("should insert a booking into a free slot", func() {
			b := makeBooking(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.Create(ctx, b)).To(Succeed())
			Expect(b.ID).To(BeNumerically(">", 0))
		})

		It("should reject an overlapping slot in the same room and date", func() {
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-01", "10:00", "11:00"))).To(Succeed())

			err := repo.Create(ctx, makeBooking(1, "2027-03-01", "10:30", "11:30"))
			Expect(err).To(MatchError(internal.ErrRoomNotAvailable))
		})

		It("should accept a shared boundary", func() {
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-01", "10:00", "11:00"))).To(Succeed())
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-01", "11:00", "12:00"))).To(Succeed())
		})

		It("should scope the conflict to room and date", func() {
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-01", "10:00", "11:00"))).To(Succeed())

			Expect(repo.Create(ctx, makeBooking(2, "2027-03-01", "10:00", "11:00"))).To(Succeed())
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-02", "10:00", "11:00"))).To(Succeed())
		})
	})

	Describe("Update", func() {
		It("should exclude the booking's own row from the conflict check", func() {
			b := makeBooking(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.Create(ctx, b)).To(Succeed())

			b.Purpose = "retro"
			Expect(repo.Update(ctx, b)).To(Succeed())

			loaded, err := repo.GetByID(ctx, b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Purpose).To(Equal("retro"))
		})

		It("should reject moving onto another booking", func() {
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-01", "10:00", "11:00"))).To(Succeed())
			b := makeBooking(1, "2027-03-01", "12:00", "13:00")
			Expect(repo.Create(ctx, b)).To(Succeed())

			b.StartTime = "10:30"
			b.EndTime = "11:30"
			Expect(repo.Update(ctx, b)).To(MatchError(internal.ErrRoomNotAvailable))
		})
	})

	Describe("HasConflict", func() {
		It("should honor the ignore id", func() {
			b := makeBooking(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.Create(ctx, b)).To(Succeed())

			conflict, err := repo.HasConflict(ctx, 1, "2027-03-01", "10:00", "11:00", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(conflict).To(BeTrue())

			conflict, err = repo.HasConflict(ctx, 1, "2027-03-01", "10:00", "11:00", b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(conflict).To(BeFalse())
		})
	})

	Describe("Delete", func() {
		It("should remove the booking", func() {
			b := makeBooking(1, "2027-03-01", "10:00", "11:00")
			Expect(repo.Create(ctx, b)).To(Succeed())

			Expect(repo.Delete(ctx, b.ID)).To(Succeed())

			_, err := repo.GetByID(ctx, b.ID)
			Expect(err).To(MatchError(internal.ErrBookingNotFound))
		})

		It("should report a missing booking", func() {
			Expect(repo.Delete(ctx, 404)).To(MatchError(internal.ErrBookingNotFound))
		})
	})

	Describe("List", func() {
		It("should filter by room and date and order by date then start", func() {
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-02", "09:00", "10:00"))).To(Succeed())
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-01", "14:00", "15:00"))).To(Succeed())
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-01", "10:00", "11:00"))).To(Succeed())
			Expect(repo.Create(ctx, makeBooking(2, "2027-03-01", "10:00", "11:00"))).To(Succeed())

			all, err := repo.List(ctx, booking.ListFilter{RoomID: 1}, 50, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].StartTime).To(Equal("10:00"))
			Expect(all[1].StartTime).To(Equal("14:00"))
			Expect(all[2].Date).To(Equal("2027-03-02"))

			day, err := repo.List(ctx, booking.ListFilter{RoomID: 1, Date: "2027-03-01"}, 50, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(day).To(HaveLen(2))
		})
	})

	Describe("HasUpcomingForRoom", func() {
		It("should see bookings from the cutoff date onward", func() {
			Expect(repo.Create(ctx, makeBooking(1, "2027-03-01", "10:00", "11:00"))).To(Succeed())

			upcoming, err := repo.HasUpcomingForRoom(ctx, 1, "2027-03-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(upcoming).To(BeTrue())

			upcoming, err = repo.HasUpcomingForRoom(ctx, 1, "2027-03-02")
			Expect(err).NotTo(HaveOccurred())
			Expect(upcoming).To(BeFalse())
		})
	})
})
