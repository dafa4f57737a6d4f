package models

// Event names published on the revenue-events channel.
const (
	EventBookingConfirmed    = "booking-confirmed"
	EventBookingExpired      = "booking-expired"
	EventNotificationCreated = "notification-created"
)

type Notification struct {
	ID        string `json:"id" bson:"id"`
	Kind      string `json:"kind" bson:"kind"`
	Message   string `json:"message" bson:"message"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

// RevenueEvent is the wire payload for lifecycle/governance events.
type RevenueEvent struct {
	Name         string        `json:"name"`
	Booking      *Booking      `json:"booking,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
	EmittedAt    int64         `json:"emittedAt"`
}
