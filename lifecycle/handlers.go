package lifecycle

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"limelight/globals"
	"limelight/models"
	"limelight/quote"
	"limelight/utils"

	"github.com/julienschmidt/httprouter"
)

func genID() string {
	return utils.GenerateRandomDigitString(22)
}

// HandleCreateBooking prices the request and creates a pending booking
// holding that quote. The booking id is minted first so the audit entry
// carries it.
func (s *Service) HandleCreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req quote.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	bookingID := genID()

	q, err := s.engine.CalculateQuote(r.Context(), req, bookingID, nil)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrRevenueSuspended):
			utils.RespondWithError(w, http.StatusServiceUnavailable, "quoting temporarily unavailable")
		case errors.Is(err, quote.ErrInvalidEventDate):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[Lifecycle] CreateBooking: quote failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	b := &models.Booking{
		ID:               bookingID,
		UserID:           userID,
		EventDate:        req.EventDate,
		Location:         req.Location,
		EventType:        req.EventType,
		Status:           models.StatusPending,
		Total:            q.Total,
		Currency:         q.Currency,
		DepositAmount:    q.DepositAmount,
		DepositExpiresAt: q.DepositExpiresAt,
		AuditLogID:       q.AuditLogID,
		CreatedAt:        time.Now().Unix(),
	}

	if err := s.bookings.Insert(r.Context(), b); err != nil {
		log.Printf("[Lifecycle] CreateBooking: insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "booking": b, "quote": q})
}

func (s *Service) HandleGetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")
	if bookingID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	b, err := s.bookings.Get(r.Context(), bookingID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if b == nil {
		utils.RespondWithError(w, http.StatusNotFound, "not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"booking": b})
}

func (s *Service) HandleListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := r.URL.Query().Get("status")
	date := r.URL.Query().Get("date")

	bookings, err := s.bookings.List(r.Context(), status, date)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": bookings})
}

// HandlePaymentWebhook is the payment provider callback. Signature
// verification happens upstream; an unknown booking id is not an error
// here because providers retry on stale references.
func (s *Service) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		BookingID       string `json:"bookingId"`
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if body.BookingID == "" {
		http.Error(w, "missing bookingId", http.StatusBadRequest)
		return
	}

	updated, err := s.ConfirmDeposit(r.Context(), body.BookingID, body.PaymentIntentID)
	if err != nil {
		log.Printf("[Lifecycle] webhook: confirm failed for booking %s: %v", body.BookingID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "booking": updated})
}
