package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	clerktypes "github.com/bigeaze08-web/candy-group-app-v3/internal/types/clerk"
	"github.com/bigeaze08-web/candy-group-app-v3/services"
)

// WebhookHandler keeps participant rows in sync with the Clerk account
// lifecycle. Registration creates the row; the webhook only has to propagate
// email changes and account deletion.
type WebhookHandler struct {
	participantService *services.ParticipantService
}

func NewWebhookHandler(participantService *services.ParticipantService) *WebhookHandler {
	return &WebhookHandler{
		participantService: participantService,
	}
}

func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		http.Error(w, "Error reading body", http.StatusBadRequest)
		return
	}

	if !verifyWebhookSignature(r, body) {
		log.Println("Invalid webhook signature")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event clerktypes.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		http.Error(w, "Error parsing webhook", http.StatusBadRequest)
		return
	}

	log.Printf("Received webhook event: %s", event.Type)

	ctx := r.Context()
	switch event.Type {
	case "user.updated":
		var data clerktypes.UserData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			log.Printf("Error parsing user.updated data: %v", err)
			http.Error(w, "Error parsing webhook", http.StatusBadRequest)
			return
		}
		if email := data.PrimaryEmail(); email != "" {
			if err := h.participantService.UpdateEmailByClerkID(ctx, data.ID, email); err != nil {
				log.Printf("Error handling user.updated: %v", err)
				http.Error(w, "Error processing webhook", http.StatusInternalServerError)
				return
			}
		}

	case "user.deleted":
		var data clerktypes.UserData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			log.Printf("Error parsing user.deleted data: %v", err)
			http.Error(w, "Error parsing webhook", http.StatusBadRequest)
			return
		}
		if err := h.participantService.DeleteByClerkID(ctx, data.ID); err != nil {
			log.Printf("Error handling user.deleted: %v", err)
			http.Error(w, "Error processing webhook", http.StatusInternalServerError)
			return
		}

	default:
		// user.created included: the participant row is created at
		// registration, not account creation.
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"received": true}`))
}

func verifyWebhookSignature(r *http.Request, body []byte) bool {
	webhookSecret := os.Getenv("CLERK_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Println("CLERK_WEBHOOK_SECRET not set, skipping signature verification")
		return true
	}

	svixID := r.Header.Get("svix-id")
	svixTimestamp := r.Header.Get("svix-timestamp")
	svixSignature := r.Header.Get("svix-signature")

	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		log.Println("Missing webhook signature headers")
		return false
	}

	signedContent := fmt.Sprintf("%s.%s.%s", svixID, svixTimestamp, string(body))

	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(signedContent))
	expectedSignature := hex.EncodeToString(mac.Sum(nil))

	providedSignature := ""
	if len(svixSignature) > 3 && svixSignature[:3] == "v1," {
		providedSignature = svixSignature[3:]
	}

	return hmac.Equal([]byte(expectedSignature), []byte(providedSignature))
}
