package models

// RuleType identifies what a pricing rule reacts to.
type RuleType string

const (
	RuleBaseRate      RuleType = "base_rate"
	RuleWeekendUplift RuleType = "weekend_uplift"
	RuleShortNotice   RuleType = "short_notice"
	RuleLocationBand  RuleType = "location_band"
)

// Strategy is how a rule's value is applied to the running total.
type Strategy string

const (
	StrategyFixed      Strategy = "fixed"
	StrategyPercentage Strategy = "percentage"
)

// PricingRule is admin-authored configuration, read-only to the engine.
type PricingRule struct {
	ID            string   `json:"id" bson:"id"`
	RuleType      RuleType `json:"ruleType" bson:"ruleType"`
	Strategy      Strategy `json:"strategy" bson:"strategy"`
	Value         float64  `json:"value" bson:"value"`
	MinTotal      *float64 `json:"minTotal,omitempty" bson:"minTotal,omitempty"`
	MaxMultiplier *float64 `json:"maxMultiplier,omitempty" bson:"maxMultiplier,omitempty"`
	IsActive      bool     `json:"isActive" bson:"isActive"`
	CreatedAt     int64    `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

type QuoteBreakdownLine struct {
	Label  string  `json:"label" bson:"label"`
	Amount float64 `json:"amount" bson:"amount"`
}

// Quote is the result of one pricing computation. Never mutated, never
// persisted beyond its audit entry.
type Quote struct {
	Total            float64              `json:"total"`
	DepositAmount    float64              `json:"depositAmount"`
	DepositExpiresAt int64                `json:"depositExpiresAt"`
	Currency         string               `json:"currency"`
	Breakdown        []QuoteBreakdownLine `json:"breakdown"`
	AuditLogID       string               `json:"auditLogId,omitempty"`
}

// Conversion statuses for a pricing audit entry.
const (
	ConversionQuoteServed = "quote_served"
	ConversionDepositPaid = "deposit_paid"
	ConversionExpired     = "expired"
)

// PricingAuditEntry is the append-only record of what was quoted and why.
type PricingAuditEntry struct {
	ID               string               `json:"id" bson:"id"`
	BookingID        string               `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	BaseRate         float64              `json:"baseRate" bson:"baseRate"`
	FinalTotal       float64              `json:"finalTotal" bson:"finalTotal"`
	RulesApplied     []string             `json:"rulesApplied" bson:"rulesApplied"`
	Breakdown        []QuoteBreakdownLine `json:"breakdown" bson:"breakdown"`
	GeoContext       string               `json:"geoContext,omitempty" bson:"geoContext,omitempty"`
	ConversionStatus string               `json:"conversionStatus" bson:"conversionStatus"`
	CreatedAt        int64                `json:"createdAt" bson:"createdAt"`
}
