package tool

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// RenderQR renders content as a terminal-printable QR code.
func RenderQR(content string) (string, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return q.ToSmallString(false), nil
}
