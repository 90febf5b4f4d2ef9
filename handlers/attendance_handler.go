package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/attendance"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/notification"
	"github.com/bigeaze08-web/candy-group-app-v3/middleware"
	"github.com/bigeaze08-web/candy-group-app-v3/services"
)

type AttendanceHandler struct {
	attendanceService   *services.AttendanceService
	notificationService *services.NotificationService
	window              challenge.Window
}

func NewAttendanceHandler(attendanceService *services.AttendanceService, notificationService *services.NotificationService, window challenge.Window) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService:   attendanceService,
		notificationService: notificationService,
		window:              window,
	}
}

// GetDates lists the Mon-Fri dates the attendance picker offers.
func (h *AttendanceHandler) GetDates(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.window.AttendanceDates())
}

// GetRoster shows every participant with their present flag for ?date=.
func (h *AttendanceHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'date' is required")
		return
	}
	date, err := challenge.ParseDay(dateParam)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	roster, err := h.attendanceService.Roster(ctx, date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error loading attendance roster")
		return
	}

	respondWithJSON(w, http.StatusOK, roster)
}

// Mark saves attendance for one date. Mirrors the old mark_attendance RPC:
// responds with how many participants were newly saved.
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, ok := middleware.GetSession(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req attendance.MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	date, err := challenge.ParseDay(req.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.attendanceService.Mark(ctx, date, req.ParticipantIDs, session.ClerkID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		title := "Attendance recorded"
		body := fmt.Sprintf("You were marked present on %s.", date.Format("Mon, Jan 2"))
		if err := h.notificationService.Notify(ctx, req.ParticipantIDs, notification.NotificationAttendanceMarked, title, body); err != nil {
			log.Printf("Attendance: failed to notify participants: %v", err)
		}
	}()

	respondWithJSON(w, http.StatusOK, attendance.MarkResponse{
		Date:  date.Format("2006-01-02"),
		Saved: saved,
	})
}
