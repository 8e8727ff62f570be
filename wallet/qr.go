package wallet

import (
	"github.com/skip2/go-qrcode"
)

// SaveAddressQR writes a PNG QR code of an address, sized for sharing with
// other wallet apps.
func SaveAddressQR(address, path string) error {
	return qrcode.WriteFile(address, qrcode.Medium, 256, path)
}
