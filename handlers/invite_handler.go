package handlers

import (
	"net/http"

	"github.com/bigeaze08-web/candy-group-app-v3/services"
)

type InviteHandler struct {
	inviteService *services.InviteService
}

func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
	}
}

// RegistrationQR returns the registration page QR code for printing.
func (h *InviteHandler) RegistrationQR(w http.ResponseWriter, r *http.Request) {
	qr, err := h.inviteService.RegistrationQR()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, qr)
}
