package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/notification"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/weighin"
	"github.com/bigeaze08-web/candy-group-app-v3/middleware"
	"github.com/bigeaze08-web/candy-group-app-v3/services"
)

type WeighInHandler struct {
	weighInService      *services.WeighInService
	notificationService *services.NotificationService
	window              challenge.Window
}

func NewWeighInHandler(weighInService *services.WeighInService, notificationService *services.NotificationService, window challenge.Window) *WeighInHandler {
	return &WeighInHandler{
		weighInService:      weighInService,
		notificationService: notificationService,
		window:              window,
	}
}

// GetDates lists the Mon/Fri dates the weigh-in picker offers.
func (h *WeighInHandler) GetDates(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.window.WeighInDates())
}

// Record upserts one weigh-in for a participant on a date.
func (h *WeighInHandler) Record(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, ok := middleware.GetSession(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req weighin.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ParticipantID == uuid.Nil {
		respondWithError(w, http.StatusBadRequest, "participant_id is required")
		return
	}

	date, err := challenge.ParseDay(req.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.weighInService.Record(ctx, req.ParticipantID, date, req.WeightKg, req.WaistCm, session.ClerkID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		title := "Weigh-in recorded"
		body := fmt.Sprintf("Your measurements for %s are in. Check the leaderboard!", date.Format("Mon, Jan 2"))
		if err := h.notificationService.Notify(ctx, []uuid.UUID{req.ParticipantID}, notification.NotificationWeighInRecorded, title, body); err != nil {
			log.Printf("WeighIn: failed to notify participant: %v", err)
		}
	}()

	respondWithJSON(w, http.StatusCreated, entry)
}
