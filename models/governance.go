package models

// Governance setting keys
const (
	SettingKillSwitch         = "revenue_kill_switch"
	SettingDepositPercent     = "booking_deposit_percent"
	SettingDepositExpiryHours = "booking_deposit_expiry_hours"
)

// GovernanceSetting is a key/value pair; every change is attributed.
type GovernanceSetting struct {
	Key       string `json:"key" bson:"key"`
	Value     string `json:"value" bson:"value"`
	ActorID   string `json:"actorId,omitempty" bson:"actorId,omitempty"`
	Reason    string `json:"reason,omitempty" bson:"reason,omitempty"`
	UpdatedAt int64  `json:"updatedAt" bson:"updatedAt"`
}

type GovernanceLogEntry struct {
	ID        string `json:"id" bson:"id"`
	Action    string `json:"action" bson:"action"`
	ActorID   string `json:"actorId,omitempty" bson:"actorId,omitempty"`
	Reason    string `json:"reason,omitempty" bson:"reason,omitempty"`
	Details   string `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

// Incident types and severities
const (
	IncidentManualOverride = "manual_override"
	IncidentPricingDrift   = "pricing_drift"

	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

type RevenueIncident struct {
	ID        string                 `json:"id" bson:"id"`
	Type      string                 `json:"type" bson:"type"`
	Severity  string                 `json:"severity" bson:"severity"`
	Message   string                 `json:"message" bson:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt int64                  `json:"createdAt" bson:"createdAt"`
}
