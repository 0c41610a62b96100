// Package payment renders the UPI payment code shown to a patient. Nothing
// here talks to a payment gateway: the patient pays out of band and the
// appointment is marked paid on their word.
package payment

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type Request struct {
	PayeeVPA      string
	PayeeName     string
	Amount        int64
	Currency      string
	AppointmentID string
}

// UPIURI builds the upi://pay link encoded into the QR code.
func UPIURI(r Request) string {
	q := url.Values{}
	q.Set("pa", r.PayeeVPA)
	q.Set("pn", r.PayeeName)
	q.Set("am", strconv.FormatInt(r.Amount, 10))
	q.Set("cu", r.Currency)
	q.Set("tn", "Appointment-"+r.AppointmentID)
	return "upi://pay?" + q.Encode()
}

// QRDataURL returns the UPI link as a base64 PNG data URL.
func QRDataURL(r Request) (string, error) {
	png, err := qrcode.Encode(UPIURI(r), qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("encoding payment qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
