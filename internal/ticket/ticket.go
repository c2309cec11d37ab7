package ticket

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const size = 256

// Link is the public page of a registration.
func Link(frontendURL, registrationID string) string {
	return strings.TrimRight(frontendURL, "/") + "/registrations/" + registrationID
}

// QRCode renders the registration link as a PNG.
func QRCode(frontendURL, registrationID string) ([]byte, error) {
	png, err := qrcode.Encode(Link(frontendURL, registrationID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode ticket %s: %w", registrationID, err)
	}
	return png, nil
}
