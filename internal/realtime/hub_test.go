package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/office-calendar/internal/core/events"
	"github.com/frahmantamala/office-calendar/pkg/logger"
)

func TestRealtime(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Realtime Module Suite")
}

var _ = ginkgo.Describe("Hub", func() {
	var (
		hub    *Hub
		cancel context.CancelFunc
	)

	// connect registers a bare client. The read/write pumps are not started,
	// so frames can be observed directly on the send channel.
	connect := func(employeeID int64) *Client {
		c := &Client{
			hub:        hub,
			send:       make(chan []byte, sendBufferSize),
			employeeID: employeeID,
		}
		gomega.Expect(hub.Register(c)).To(gomega.BeTrue())
		return c
	}

	ginkgo.BeforeEach(func() {
		hub = NewHub(logger.L())
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		go hub.Run(ctx)
	})

	ginkgo.AfterEach(func() {
		cancel()
	})

	ginkgo.It("should fan a broadcast out to every connected client", func() {
		first := connect(1)
		second := connect(2)

		hub.Broadcast(Message{Name: MsgRoomChanged, Data: map[string]interface{}{"room_id": 3}})

		for _, c := range []*Client{first, second} {
			var frame []byte
			gomega.Eventually(c.send).Should(gomega.Receive(&frame))

			var msg Message
			gomega.Expect(json.Unmarshal(frame, &msg)).To(gomega.Succeed())
			gomega.Expect(msg.Name).To(gomega.Equal(MsgRoomChanged))
		}
	})

	ginkgo.It("should stop delivering to an unregistered client", func() {
		c := connect(1)
		hub.Unregister(c)

		// The hub closes the send channel on unregister.
		gomega.Eventually(c.send).Should(gomega.BeClosed())
	})

	ginkgo.It("should turn away registrations once stopped", func() {
		cancel()

		c := &Client{
			hub:        hub,
			send:       make(chan []byte, sendBufferSize),
			employeeID: 1,
		}
		gomega.Eventually(func() bool {
			return hub.Register(c)
		}).Should(gomega.BeFalse())

		// Unregister on a stopped hub must return rather than block.
		hub.Unregister(c)
	})

	ginkgo.It("should translate bus events into named frames", func() {
		bus := events.NewEventBus(logger.L())
		hub.SubscribeTo(bus)

		c := connect(1)

		bus.Publish(context.Background(), events.NewAttendanceChangedEvent(9, []string{"Ada Byron"}))

		var frame []byte
		gomega.Eventually(c.send, 2*time.Second).Should(gomega.Receive(&frame))

		var msg Message
		gomega.Expect(json.Unmarshal(frame, &msg)).To(gomega.Succeed())
		gomega.Expect(msg.Name).To(gomega.Equal(MsgAttendanceChanged))

		payload, ok := msg.Data.(map[string]interface{})
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(payload["attendees"]).To(gomega.ContainElement("Ada Byron"))
	})

	ginkgo.It("should drop a client whose send buffer is full instead of blocking", func() {
		c := connect(1)

		for i := 0; i < sendBufferSize+8; i++ {
			hub.Broadcast(Message{Name: MsgBookingChanged, Data: map[string]interface{}{"n": i}})
		}

		gomega.Eventually(c.send).Should(gomega.BeClosed())
	})
})
