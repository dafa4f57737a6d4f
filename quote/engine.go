package quote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"limelight/models"
	"limelight/utils"
)

var (
	ErrRevenueSuspended = errors.New("revenue operations are suspended")
	ErrInvalidEventDate = errors.New("invalid event date")
)

const (
	defaultBaseRate       = 350.0
	defaultDepositPercent = 25.0
	defaultExpiryHours    = 24.0
	shortNoticeDays       = 14
	defaultCurrency       = "GBP"
)

// Cities that trigger the location_band rule.
var tierOneCities = map[string]bool{
	"london":     true,
	"manchester": true,
	"birmingham": true,
	"dubai":      true,
	"ibiza":      true,
}

type QuoteRequest struct {
	EventDate string `json:"eventDate"` // YYYY-MM-DD
	Location  string `json:"location"`
	EventType string `json:"eventType"`
}

// RuleStore supplies the ordered set of active pricing rules.
type RuleStore interface {
	ActiveRules(ctx context.Context) ([]models.PricingRule, error)
}

// SettingsReader is the read side of the governance settings store.
type SettingsReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Gate is the revenue kill-switch check consulted before any computation.
type Gate interface {
	IsRevenueOperational(ctx context.Context) (bool, error)
}

// AuditStore appends pricing audit entries.
type AuditStore interface {
	Insert(ctx context.Context, entry *models.PricingAuditEntry) error
}

// Engine prices a booking request. Stateless between calls; every quote
// reads rules and settings fresh.
type Engine struct {
	rules    RuleStore
	settings SettingsReader
	gate     Gate
	audit    AuditStore
}

func NewEngine(rules RuleStore, settings SettingsReader, gate Gate, audit AuditStore) *Engine {
	return &Engine{
		rules:    rules,
		settings: settings,
		gate:     gate,
		audit:    audit,
	}
}

// CalculateQuote applies the pricing rules in fixed order with guardrails
// and writes one audit entry. Rules compound sequentially: each rule's
// percentage and cap are evaluated against the running total left by the
// rules before it. When override is non-nil the kill-switch gate and the
// rule store are both bypassed (admin what-if pricing).
func (e *Engine) CalculateQuote(ctx context.Context, req QuoteRequest, bookingID string, override []models.PricingRule) (*models.Quote, error) {
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEventDate, req.EventDate)
	}

	rules := override
	if rules == nil {
		operational, err := e.gate.IsRevenueOperational(ctx)
		if err != nil {
			// Fail closed: quoting blind on the financial gate is worse
			// than refusing service.
			return nil, fmt.Errorf("kill switch check failed: %w", err)
		}
		if !operational {
			return nil, ErrRevenueSuspended
		}
		rules, err = e.rules.ActiveRules(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading pricing rules: %w", err)
		}
	}

	var breakdown []models.QuoteBreakdownLine
	var applied []string

	// 1. Base rate, with a hard-coded fallback when no rule is configured.
	total := defaultBaseRate
	baseID := "base_rate:default"
	if r := findRule(rules, models.RuleBaseRate); r != nil {
		total = r.Value
		baseID = r.ID
	}
	baseRate := total
	breakdown = append(breakdown, models.QuoteBreakdownLine{Label: "Base Rate", Amount: total})
	applied = append(applied, baseID)

	// 2. Short-notice premium.
	if daysUntilEvent(eventDate) < shortNoticeDays {
		total = e.applyRule(rules, models.RuleShortNotice, "Short Notice Premium (<14 days)", total, &breakdown, &applied)
	}

	// 3. Weekend/peak uplift (Fri, Sat, Sun). Runs after the short-notice
	// premium, so its floor and cap see the already-uplifted total.
	if wd := eventDate.Weekday(); wd == time.Friday || wd == time.Saturday || wd == time.Sunday {
		total = e.applyRule(rules, models.RuleWeekendUplift, "Weekend/Peak Date Uplift", total, &breakdown, &applied)
	}

	// 4. Location tiering on the city before the first comma.
	if city := utils.CityFromLocation(req.Location); tierOneCities[city] {
		total = e.applyRule(rules, models.RuleLocationBand, strings.ToUpper(city), total, &breakdown, &applied)
	}

	if total < 0 {
		log.Printf("[QuoteEngine] HIGH SEVERITY: guardrails produced negative total %.2f for %+v", total, req)
	}

	// 5. Deposit from governance settings, with documented defaults.
	percent := e.settingFloat(ctx, models.SettingDepositPercent, defaultDepositPercent)
	expiryHours := e.settingFloat(ctx, models.SettingDepositExpiryHours, defaultExpiryHours)
	deposit := math.Round(total * percent / 100)
	expiresAt := time.Now().Add(time.Duration(expiryHours * float64(time.Hour))).Unix()

	// 6. Audit, best-effort: the quote is already computed and the caller
	// needs it even when the audit trail write fails.
	entry := &models.PricingAuditEntry{
		ID:               utils.GetUUID(),
		BookingID:        bookingID,
		BaseRate:         baseRate,
		FinalTotal:       total,
		RulesApplied:     applied,
		Breakdown:        breakdown,
		GeoContext:       req.Location,
		ConversionStatus: models.ConversionQuoteServed,
		CreatedAt:        time.Now().Unix(),
	}
	auditID := entry.ID
	if err := e.audit.Insert(ctx, entry); err != nil {
		log.Printf("[QuoteEngine] HIGH SEVERITY: audit write failed for quote (booking %q): %v", bookingID, err)
		auditID = ""
	}

	return &models.Quote{
		Total:            total,
		DepositAmount:    deposit,
		DepositExpiresAt: expiresAt,
		Currency:         defaultCurrency,
		Breakdown:        breakdown,
		AuditLogID:       auditID,
	}, nil
}

// applyRule runs the guardrail procedure against the running total:
// skip below the floor, round percentage amounts, clamp to the cap.
func (e *Engine) applyRule(rules []models.PricingRule, ruleType models.RuleType, label string, total float64, breakdown *[]models.QuoteBreakdownLine, applied *[]string) float64 {
	r := findRule(rules, ruleType)
	if r == nil {
		return total
	}
	if r.MinTotal != nil && total < *r.MinTotal {
		return total
	}

	var amount float64
	switch r.Strategy {
	case models.StrategyFixed:
		amount = r.Value
	case models.StrategyPercentage:
		amount = math.Round(total * r.Value / 100)
		if r.MaxMultiplier != nil {
			// The rule alone cannot push the total above total*maxMultiplier.
			if capAmount := total * (*r.MaxMultiplier - 1); amount > capAmount {
				amount = capAmount
			}
		}
	default:
		log.Printf("[QuoteEngine] rule %s has unknown strategy %q; skipping", r.ID, r.Strategy)
		return total
	}

	*breakdown = append(*breakdown, models.QuoteBreakdownLine{Label: label, Amount: amount})
	*applied = append(*applied, r.ID)
	return total + amount
}

func findRule(rules []models.PricingRule, ruleType models.RuleType) *models.PricingRule {
	for i := range rules {
		if rules[i].RuleType == ruleType && rules[i].IsActive {
			return &rules[i]
		}
	}
	return nil
}

func daysUntilEvent(eventDate time.Time) int {
	return int(time.Until(eventDate).Hours() / 24)
}

func (e *Engine) settingFloat(ctx context.Context, key string, fallback float64) float64 {
	value, found, err := e.settings.Get(ctx, key)
	if err != nil {
		log.Printf("[QuoteEngine] settings read failed for %s, using default %.0f: %v", key, fallback, err)
		return fallback
	}
	if !found {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("[QuoteEngine] bad value %q for setting %s, using default %.0f", value, key, fallback)
		return fallback
	}
	return parsed
}
