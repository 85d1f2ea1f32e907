package models

// Notification is the payload handed to the push dispatcher. Data carries
// event-specific fields (booking ID, activity ID, conversation ID).
type Notification struct {
	Type  string            `json:"type"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// ReminderPayload is the queued task payload for a scheduled activity
// reminder push.
type ReminderPayload struct {
	UserID     string `json:"userId"`
	BookingID  string `json:"bookingId"`
	ActivityID string `json:"activityId"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	FireDate   string `json:"fireDate"`
}
