// Package notify publishes schedule changes and event reminders to the
// message broker consumed by the push-notification gateway.
package notify

// HandoffEvent is published when a committed schedule change moves room
// ownership between staff members on a date. Consumers use it to alert both
// sides of the hand-off without querying the primary database.
type HandoffEvent struct {
	Date        string   `json:"date"`
	Rooms       []string `json:"rooms"`
	FromStaffID string   `json:"from_staff_id,omitempty"`
	ToStaffID   string   `json:"to_staff_id,omitempty"`
	CommittedAt string   `json:"committed_at"`
}

// ReminderEvent is published shortly before an event starts, routed to the
// staff member who owns the event at its start time.
type ReminderEvent struct {
	EventID  string `json:"event_id"`
	Title    string `json:"title"`
	RoomName string `json:"room_name"`
	Date     string `json:"date"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	OwnerID  string `json:"owner_id"`
}
