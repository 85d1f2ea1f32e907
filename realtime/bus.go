// Package realtime provides the non-durable live channel: an in-process
// publish/subscribe hub keyed by room name, plus a websocket gateway that
// attaches client connections to rooms. Delivery is best-effort: an event
// published to an empty room is simply lost on this channel. Durability is
// the push dispatcher's job.
package realtime

import "fmt"

// Room name builders. One room per activity and one per conversation.
func ActivityRoom(activityID string) string {
	return fmt.Sprintf("activity:%s", activityID)
}

func ConversationRoom(conversationID string) string {
	return fmt.Sprintf("conversation:%s", conversationID)
}

// Event is one published state change.
type Event struct {
	Room    string `json:"room"`
	Name    string `json:"event"`
	Payload any    `json:"data"`
}

// Bus is the producer-facing side of the live channel. Booking and chat
// services depend on this interface, not on a concrete hub, so tests can
// substitute a recording fake.
type Bus interface {
	Publish(room, name string, payload any)
}

// Sink receives events for one connection. Implementations must not block:
// a slow consumer is the consumer's problem, not the publisher's.
type Sink interface {
	Deliver(evt Event)
}
