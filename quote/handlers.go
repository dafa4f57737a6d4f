package quote

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"limelight/models"
	"limelight/utils"

	"github.com/julienschmidt/httprouter"
)

// HandleCalculateQuote prices a booking request for the public site.
func (e *Engine) HandleCalculateQuote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	q, err := e.CalculateQuote(r.Context(), req, "", nil)
	if err != nil {
		respondQuoteError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"quote": q})
}

// HandlePreviewQuote prices a request against a caller-supplied rule set,
// bypassing the stored rules. Admin-only what-if pricing.
func (e *Engine) HandlePreviewQuote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Request QuoteRequest         `json:"request"`
		Rules   []models.PricingRule `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(body.Rules) == 0 {
		http.Error(w, "rules are required for a preview", http.StatusBadRequest)
		return
	}

	q, err := e.CalculateQuote(r.Context(), body.Request, "", body.Rules)
	if err != nil {
		respondQuoteError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"quote": q})
}

func respondQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRevenueSuspended):
		utils.RespondWithError(w, http.StatusServiceUnavailable, "quoting temporarily unavailable")
	case errors.Is(err, ErrInvalidEventDate):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[QuoteEngine] quote failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal error")
	}
}
