package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/skip2/go-qrcode"
)

// InviteService produces the registration QR code admins print for the
// kickoff session.
type InviteService struct{}

func NewInviteService() *InviteService {
	return &InviteService{}
}

type RegistrationQRResponse struct {
	URL          string `json:"url"`
	QrCodeBase64 string `json:"qr_code_base64"`
}

// RegistrationQR encodes the public registration page as a QR PNG.
func (s *InviteService) RegistrationQR() (*RegistrationQRResponse, error) {
	appURL := os.Getenv("PUBLIC_APP_URL")
	if appURL == "" {
		return nil, fmt.Errorf("PUBLIC_APP_URL environment variable is not set")
	}
	registerURL := strings.TrimRight(appURL, "/") + "/register"

	pngBytes, err := qrcode.Encode(registerURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR png: %w", err)
	}

	return &RegistrationQRResponse{
		URL:          registerURL,
		QrCodeBase64: base64.StdEncoding.EncodeToString(pngBytes),
	}, nil
}
