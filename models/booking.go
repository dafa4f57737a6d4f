package models

// Booking statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

type Booking struct {
	ID               string  `json:"id" bson:"id"`
	UserID           string  `json:"userId,omitempty" bson:"userId,omitempty"`
	EventDate        string  `json:"eventDate" bson:"eventDate"` // YYYY-MM-DD
	Location         string  `json:"location,omitempty" bson:"location,omitempty"`
	EventType        string  `json:"eventType,omitempty" bson:"eventType,omitempty"`
	Status           string  `json:"status" bson:"status"`
	Total            float64 `json:"total" bson:"total"`
	Currency         string  `json:"currency" bson:"currency"`
	DepositAmount    float64 `json:"depositAmount" bson:"depositAmount"`
	DepositExpiresAt int64   `json:"depositExpiresAt" bson:"depositExpiresAt"`
	DepositPaid      bool    `json:"depositPaid" bson:"depositPaid"`
	PaymentIntentID  string  `json:"paymentIntentId,omitempty" bson:"paymentIntentId,omitempty"`
	AuditLogID       string  `json:"auditLogId,omitempty" bson:"auditLogId,omitempty"`
	ExtraNotes       string  `json:"extraNotes,omitempty" bson:"extraNotes,omitempty"`
	CreatedAt        int64   `json:"createdAt" bson:"createdAt"`
}
