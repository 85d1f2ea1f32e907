package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Deliver(evt Event) {
	s.events = append(s.events, evt)
}

func TestHubPublishToJoinedConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := &recordingSink{}
	b := &recordingSink{}

	hub.Register("conn-a", a)
	hub.Register("conn-b", b)
	hub.Join("conn-a", ActivityRoom("w1"))
	hub.Join("conn-b", ActivityRoom("w1"))

	hub.Publish(ActivityRoom("w1"), "booking:created", map[string]any{"bookingId": "b1"})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
	assert.Equal(t, "booking:created", a.events[0].Name)
	assert.Equal(t, ActivityRoom("w1"), a.events[0].Room)
}

func TestHubPublishPreservesCallOrderWithinRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sink := &recordingSink{}

	hub.Register("conn", sink)
	hub.Join("conn", ActivityRoom("w1"))

	hub.Publish(ActivityRoom("w1"), "booking:created", nil)
	hub.Publish(ActivityRoom("w1"), "activity:occupancy-changed", nil)

	assert.Equal(t, []string{"booking:created", "activity:occupancy-changed"},
		[]string{sink.events[0].Name, sink.events[1].Name})
}

func TestHubEmptyRoomDropsEvent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sink := &recordingSink{}

	hub.Register("conn", sink)
	hub.Join("conn", ConversationRoom("c1"))

	hub.Publish(ActivityRoom("elsewhere"), "booking:created", nil)

	assert.Empty(t, sink.events)
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sink := &recordingSink{}

	hub.Register("conn", sink)
	hub.Join("conn", ActivityRoom("w1"))
	hub.Leave("conn", ActivityRoom("w1"))

	hub.Publish(ActivityRoom("w1"), "booking:created", nil)

	assert.Empty(t, sink.events)
}

func TestHubUnregisterRemovesFromAllRooms(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sink := &recordingSink{}

	hub.Register("conn", sink)
	hub.Join("conn", ActivityRoom("w1"))
	hub.Join("conn", ConversationRoom("c1"))
	hub.Unregister("conn")

	hub.Publish(ActivityRoom("w1"), "booking:created", nil)
	hub.Publish(ConversationRoom("c1"), "chat:message", nil)

	assert.Empty(t, sink.events)
}

func TestHubJoinWithoutRegisterIsIgnored(t *testing.T) {
	hub := NewHub(zap.NewNop())

	hub.Join("ghost", ActivityRoom("w1"))
	// Publishing must not panic with a member that has no sink.
	hub.Publish(ActivityRoom("w1"), "booking:created", nil)
}
