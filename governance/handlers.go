package governance

import (
	"encoding/json"
	"log"
	"net/http"

	"limelight/globals"
	"limelight/utils"

	"github.com/julienschmidt/httprouter"
)

func (s *Service) HandleToggleKillSwitch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Active bool   `json:"active"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	actorID, _ := r.Context().Value(globals.UserIDKey).(string)

	status, err := s.ToggleRevenueKillSwitch(r.Context(), body.Active, actorID, body.Reason)
	if err != nil {
		log.Printf("[Governance] kill switch toggle failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": status})
}

func (s *Service) HandleRevenueStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	operational, err := s.IsRevenueOperational(r.Context())
	if err != nil {
		log.Printf("[Governance] operational check failed: %v", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "settings store unreachable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"operational": operational})
}

func (s *Service) HandleRunHygiene(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	count, err := s.RunDepositHygiene(r.Context())
	if err != nil {
		log.Printf("[Hygiene] sweep failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"expiredCount": count})
}

func (s *Service) HandleLogAnomaly(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Message  string                 `json:"message"`
		Severity string                 `json:"severity"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if body.Message == "" {
		http.Error(w, "missing message", http.StatusBadRequest)
		return
	}

	if err := s.LogPricingAnomaly(r.Context(), body.Message, body.Severity, body.Metadata); err != nil {
		log.Printf("[Governance] anomaly log failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
