package admin

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/studentreg/web/internal/services/web/backend"
)

// QRCodeSize is the edge length of exported QR images in pixels.
const QRCodeSize = 256

type qrPayload struct {
	ID                 backend.UserID `json:"id"`
	RegistrationNumber string         `json:"registrationNumber"`
	Name               string         `json:"name"`
	Email              string         `json:"email"`
	Role               string         `json:"role"`
	DateOfBirth        string         `json:"dateOfBirth"`
}

// QRCodeContent is the JSON document a user's QR code encodes.
func QRCodeContent(user backend.User) (string, error) {
	raw, err := json.Marshal(qrPayload{
		ID:                 user.ID,
		RegistrationNumber: user.RegistrationNumber,
		Name:               user.FirstName + " " + user.LastName,
		Email:              user.Email,
		Role:               user.Role,
		DateOfBirth:        user.DateOfBirth,
	})
	if err != nil {
		return "", fmt.Errorf("encode qr payload: %w", err)
	}
	return string(raw), nil
}

// QRCodePNG renders a user's QR code.
func QRCodePNG(user backend.User) ([]byte, error) {
	content, err := QRCodeContent(user)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(content, qrcode.Medium, QRCodeSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}
