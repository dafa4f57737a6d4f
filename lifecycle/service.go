package lifecycle

import (
	"context"
	"log"
	"strings"

	"limelight/models"
	"limelight/mq"
	"limelight/quote"
)

const expiryNote = "[System] Auto-cancelled: deposit not received before expiry"

// BookingStore is the persistence port for bookings. Get returns
// (nil, nil) for an unknown id; conditional updates return (nil, nil)
// when the precondition no longer holds.
type BookingStore interface {
	Get(ctx context.Context, id string) (*models.Booking, error)
	Insert(ctx context.Context, b *models.Booking) error
	Confirm(ctx context.Context, id, paymentIntentID string) (*models.Booking, error)
	Cancel(ctx context.Context, id, extraNotes string) (*models.Booking, error)
	FindExpired(ctx context.Context, now int64) ([]models.Booking, error)
	List(ctx context.Context, status, date string) ([]models.Booking, error)
}

// AuditUpdater flips a pricing audit entry's conversion status once the
// booking outcome is known.
type AuditUpdater interface {
	UpdateStatus(ctx context.Context, auditID, status string) error
}

// Service is the booking state machine: pending -> {confirmed, cancelled}.
type Service struct {
	bookings  BookingStore
	audit     AuditUpdater
	publisher mq.Publisher
	engine    *quote.Engine
}

func NewService(bookings BookingStore, audit AuditUpdater, publisher mq.Publisher, engine *quote.Engine) *Service {
	return &Service{
		bookings:  bookings,
		audit:     audit,
		publisher: publisher,
		engine:    engine,
	}
}

// ConfirmDeposit flips a booking to confirmed exactly once. Idempotent:
// payment providers retry webhooks, so a repeat call is a no-op, and an
// unknown booking is logged and swallowed rather than surfaced.
func (s *Service) ConfirmDeposit(ctx context.Context, bookingID, paymentIntentID string) (*models.Booking, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		log.Printf("[Lifecycle] ConfirmDeposit: unknown booking %s; ignoring", bookingID)
		return nil, nil
	}
	if b.Status == models.StatusConfirmed && b.DepositPaid {
		log.Printf("[Lifecycle] ConfirmDeposit: booking %s already confirmed; no-op", bookingID)
		return b, nil
	}

	updated, err := s.bookings.Confirm(ctx, bookingID, paymentIntentID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		log.Printf("[Lifecycle] ConfirmDeposit: booking %s vanished mid-update", bookingID)
		return b, nil
	}

	if updated.AuditLogID != "" {
		if err := s.audit.UpdateStatus(ctx, updated.AuditLogID, models.ConversionDepositPaid); err != nil {
			log.Printf("[Lifecycle] audit status update failed for booking %s: %v", bookingID, err)
		}
	}

	s.publisher.BookingConfirmed(ctx, *updated)
	broadcastStatus(*updated)
	return updated, nil
}

// HandleExpiry cancels a pending unpaid booking and releases its date.
// Only acts when status is still pending and the deposit is unpaid; this
// guards against racing a just-completed payment.
func (s *Service) HandleExpiry(ctx context.Context, bookingID string) error {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if b == nil {
		log.Printf("[Lifecycle] HandleExpiry: unknown booking %s; ignoring", bookingID)
		return nil
	}
	if b.Status != models.StatusPending || b.DepositPaid {
		return nil
	}

	notes := strings.TrimSpace(b.ExtraNotes + "\n" + expiryNote)
	updated, err := s.bookings.Cancel(ctx, bookingID, notes)
	if err != nil {
		return err
	}
	if updated == nil {
		// Lost the race with a payment; the conditional update declined.
		return nil
	}

	if updated.AuditLogID != "" {
		if err := s.audit.UpdateStatus(ctx, updated.AuditLogID, models.ConversionExpired); err != nil {
			log.Printf("[Lifecycle] audit status update failed for booking %s: %v", bookingID, err)
		}
	}

	s.publisher.BookingExpired(ctx, *updated)
	broadcastStatus(*updated)
	return nil
}

// FindExpired lists pending unpaid bookings past their deposit deadline.
// Used by the governance hygiene sweep.
func (s *Service) FindExpired(ctx context.Context, now int64) ([]models.Booking, error) {
	return s.bookings.FindExpired(ctx, now)
}
