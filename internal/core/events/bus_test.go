package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/office-calendar/pkg/logger"
)

func TestEvents(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Events Module Suite")
}

var _ = ginkgo.Describe("EventBus", func() {
	var bus *EventBus

	ginkgo.BeforeEach(func() {
		bus = NewEventBus(logger.L())
	})

	ginkgo.It("should deliver published events to all subscribers of the type", func() {
		var delivered int32
		handler := func(_ context.Context, _ Event) error {
			atomic.AddInt32(&delivered, 1)
			return nil
		}
		bus.Subscribe(TypeBookingChanged, handler)
		bus.Subscribe(TypeBookingChanged, handler)
		bus.Subscribe(TypeRoomChanged, handler)

		bus.Publish(context.Background(), NewBookingChangedEvent(ActionCreated, 1, 2, "2027-03-01"))

		gomega.Eventually(func() int32 {
			return atomic.LoadInt32(&delivered)
		}).Should(gomega.Equal(int32(2)))
	})

	ginkgo.It("should not propagate handler failures to the publisher", func() {
		bus.Subscribe(TypeRoomChanged, func(_ context.Context, _ Event) error {
			return errors.New("subscriber broke")
		})

		// Publish is fire-and-forget; this must not panic or block.
		bus.Publish(context.Background(), NewRoomChangedEvent(ActionDeleted, 1))
	})

	ginkgo.It("should run sync handlers in order and stop at the first failure", func() {
		var order []string
		bus.Subscribe(TypeAttendanceChanged, func(_ context.Context, _ Event) error {
			order = append(order, "first")
			return errors.New("halt")
		})
		bus.Subscribe(TypeAttendanceChanged, func(_ context.Context, _ Event) error {
			order = append(order, "second")
			return nil
		})

		err := bus.PublishSync(context.Background(), NewAttendanceChangedEvent(1, nil))
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(order).To(gomega.Equal([]string{"first"}))
	})

	ginkgo.It("should carry the payload through the Event interface", func() {
		ev := NewBookingChangedEvent(ActionUpdated, 7, 3, "2027-03-01")
		gomega.Expect(ev.EventType()).To(gomega.Equal(TypeBookingChanged))
		gomega.Expect(ev.EventID()).NotTo(gomega.BeEmpty())

		payload, ok := ev.Payload().(map[string]interface{})
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(payload["action"]).To(gomega.Equal(ActionUpdated))
		gomega.Expect(payload["booking_id"]).To(gomega.Equal(int64(7)))
	})
})
