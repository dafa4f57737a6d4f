package governance

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"limelight/models"
	"limelight/mq"
	"limelight/utils"
)

// SettingsStore persists attributed governance settings.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value, actorID, reason string) error
}

// LogStore appends governance log entries.
type LogStore interface {
	Append(ctx context.Context, entry models.GovernanceLogEntry) error
}

// IncidentStore opens revenue incidents for human review.
type IncidentStore interface {
	Open(ctx context.Context, incident models.RevenueIncident) error
}

// ExpiryHandler is what the hygiene sweep needs from the revenue
// lifecycle. Satisfied by lifecycle.Service.
type ExpiryHandler interface {
	FindExpired(ctx context.Context, now int64) ([]models.Booking, error)
	HandleExpiry(ctx context.Context, bookingID string) error
}

// Service is the governance layer: kill switch, deposit hygiene,
// anomaly logging.
type Service struct {
	settings  SettingsStore
	govlog    LogStore
	incidents IncidentStore
	lifecycle ExpiryHandler
	publisher mq.Publisher
}

func NewService(settings SettingsStore, govlog LogStore, incidents IncidentStore, lifecycle ExpiryHandler, publisher mq.Publisher) *Service {
	return &Service{
		settings:  settings,
		govlog:    govlog,
		incidents: incidents,
		lifecycle: lifecycle,
		publisher: publisher,
	}
}

// SetLifecycle wires the expiry handler after construction. The quote
// gate depends on governance and the lifecycle depends on the quote
// engine, so the hygiene dependency is attached last at startup.
func (s *Service) SetLifecycle(lifecycle ExpiryHandler) {
	s.lifecycle = lifecycle
}

// ToggleRevenueKillSwitch writes the kill-switch setting, appends a
// governance log entry, and opens a high-severity incident when
// activating. Returns the resulting status string.
func (s *Service) ToggleRevenueKillSwitch(ctx context.Context, active bool, actorID, reason string) (string, error) {
	value := strconv.FormatBool(active)
	if err := s.settings.Set(ctx, models.SettingKillSwitch, value, actorID, reason); err != nil {
		return "", fmt.Errorf("writing kill switch setting: %w", err)
	}

	if err := s.govlog.Append(ctx, models.GovernanceLogEntry{
		ID:        utils.GetUUID(),
		Action:    "kill_switch_toggled",
		ActorID:   actorID,
		Reason:    reason,
		Details:   "active=" + value,
		CreatedAt: time.Now().Unix(),
	}); err != nil {
		log.Printf("[Governance] governance log append failed: %v", err)
	}

	status := "inactive"
	if active {
		status = "active"
		if err := s.incidents.Open(ctx, models.RevenueIncident{
			ID:        utils.GetUUID(),
			Type:      models.IncidentManualOverride,
			Severity:  models.SeverityHigh,
			Message:   "Revenue kill switch activated: " + reason,
			Metadata:  map[string]interface{}{"actorId": actorID},
			CreatedAt: time.Now().Unix(),
		}); err != nil {
			log.Printf("[Governance] incident open failed: %v", err)
		}
		s.publisher.NotificationCreated(ctx, models.Notification{
			ID:        utils.GetUUID(),
			Kind:      "kill_switch",
			Message:   fmt.Sprintf("Revenue kill switch activated by %s: %s", actorID, reason),
			CreatedAt: time.Now().Unix(),
		})
	}

	return status, nil
}

// IsRevenueOperational is the gate on the quoting hot path. Fail-open
// when the key was never set, fail-closed when the settings store is
// unreachable.
func (s *Service) IsRevenueOperational(ctx context.Context) (bool, error) {
	value, found, err := s.settings.Get(ctx, models.SettingKillSwitch)
	if err != nil {
		return false, fmt.Errorf("settings store unreachable: %w", err)
	}
	if !found {
		return true, nil
	}
	return value != "true", nil
}

// RunDepositHygiene cancels pending unpaid bookings past their deposit
// deadline, which releases their dates back to public availability.
// Returns the number of bookings expired.
func (s *Service) RunDepositHygiene(ctx context.Context) (int, error) {
	stale, err := s.lifecycle.FindExpired(ctx, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("scanning for expired holds: %w", err)
	}

	count := 0
	for _, b := range stale {
		if err := s.lifecycle.HandleExpiry(ctx, b.ID); err != nil {
			log.Printf("[Hygiene] expiry failed for booking %s: %v", b.ID, err)
			continue
		}
		count++
	}

	if err := s.govlog.Append(ctx, models.GovernanceLogEntry{
		ID:        utils.GetUUID(),
		Action:    "deposit_hygiene",
		Details:   fmt.Sprintf("expired %d stale holds", count),
		CreatedAt: time.Now().Unix(),
	}); err != nil {
		log.Printf("[Hygiene] governance log append failed: %v", err)
	}

	if count > 0 {
		s.publisher.NotificationCreated(ctx, models.Notification{
			ID:        utils.GetUUID(),
			Kind:      "deposit_hygiene",
			Message:   fmt.Sprintf("Deposit hygiene cancelled %d unpaid booking(s)", count),
			CreatedAt: time.Now().Unix(),
		})
	}

	return count, nil
}

// LogPricingAnomaly opens a pricing_drift incident. Called by operators
// and monitors when quotes look statistically wrong, never by the quote
// engine itself.
func (s *Service) LogPricingAnomaly(ctx context.Context, message, severity string, metadata map[string]interface{}) error {
	if severity == "" {
		severity = models.SeverityMedium
	}
	return s.incidents.Open(ctx, models.RevenueIncident{
		ID:        utils.GetUUID(),
		Type:      models.IncidentPricingDrift,
		Severity:  severity,
		Message:   message,
		Metadata:  metadata,
		CreatedAt: time.Now().Unix(),
	})
}
