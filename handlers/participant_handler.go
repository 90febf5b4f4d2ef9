package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/participant"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/weighin"
	"github.com/bigeaze08-web/candy-group-app-v3/middleware"
	"github.com/bigeaze08-web/candy-group-app-v3/services"
)

type ParticipantHandler struct {
	participantService *services.ParticipantService
	weighInService     *services.WeighInService
	attendanceService  *services.AttendanceService
}

func NewParticipantHandler(participantService *services.ParticipantService, weighInService *services.WeighInService, attendanceService *services.AttendanceService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
		weighInService:     weighInService,
		attendanceService:  attendanceService,
	}
}

// GetRoster is the public participants page: names only, ordered.
func (h *ParticipantHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	roster, err := h.participantService.Roster(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error loading participants")
		return
	}

	respondWithJSON(w, http.StatusOK, roster)
}

func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, ok := middleware.GetSession(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req participant.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Email comes from the Clerk account, not the form.
	email := ""
	if u, err := clerkuser.Get(ctx, session.ClerkID); err != nil {
		log.Printf("Register: could not load Clerk user %s: %v", session.ClerkID, err)
	} else if u.PrimaryEmailAddressID != nil {
		for _, e := range u.EmailAddresses {
			if e.ID == *u.PrimaryEmailAddressID {
				email = e.EmailAddress
			}
		}
	}

	p, err := h.participantService.Register(ctx, session.ClerkID, email, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, p)
}

type profileResponse struct {
	Participant     *participant.Participant `json:"participant"`
	WeighIns        []*weighin.WeighIn       `json:"weigh_ins"`
	AttendanceCount int                      `json:"attendance_count"`
}

// GetMe returns the caller's participant row, their weigh-in history, and
// their in-window attendance count.
func (h *ParticipantHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, ok := middleware.GetSession(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	p, err := h.participantService.GetByClerkID(ctx, session.ClerkID)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			respondWithError(w, http.StatusNotFound, "Not registered for the challenge")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error loading profile")
		return
	}

	history, err := h.weighInService.History(ctx, p.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error loading weigh-in history")
		return
	}

	count, err := h.attendanceService.CountInWindow(ctx, p.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error loading attendance")
		return
	}

	respondWithJSON(w, http.StatusOK, profileResponse{
		Participant:     p,
		WeighIns:        history,
		AttendanceCount: count,
	})
}

func (h *ParticipantHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, ok := middleware.GetSession(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req participant.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.participantService.UpdateByClerkID(ctx, session.ClerkID, &req)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			respondWithError(w, http.StatusNotFound, "Not registered for the challenge")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

// DeleteParticipant removes a participant and their records. Admin only.
func (h *ParticipantHandler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid participant id")
		return
	}

	if err := h.participantService.Delete(ctx, id); err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			respondWithError(w, http.StatusNotFound, "Participant not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Participant removed"})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
