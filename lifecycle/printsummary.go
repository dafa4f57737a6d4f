package lifecycle

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"limelight/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func hmacSecret() []byte {
	if s := os.Getenv("SUMMARY_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("your-very-secret-key")
}

// signedPayload returns bookingID|eventDate|timestamp|signature, so the
// QR on a printed summary can be verified against tampering.
func signedPayload(bookingID, eventDate string) string {
	data := fmt.Sprintf("%s|%s|%d", bookingID, eventDate, time.Now().Unix())
	h := hmac.New(sha256.New, hmacSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// HandlePrintSummary renders a booking's quote summary as a PDF with a
// QR code linking back to the booking.
func (s *Service) HandlePrintSummary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")

	tokenString := r.Header.Get("Authorization")
	claims, err := middleware.ValidateJWT(tokenString)
	if err != nil {
		log.Printf("JWT validation error: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	b, err := s.bookings.Get(r.Context(), bookingID)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if b == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	qrPNG, err := qrcode.Encode(signedPayload(b.ID, b.EventDate), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Quote Summary")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Booking ID: %s", b.ID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Prepared for: %s", claims.Username))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Event Date: %s", b.EventDate))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Location: %s", b.Location))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", b.Status))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f %s", b.Total, b.Currency))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Deposit Due: %.2f %s", b.DepositAmount, b.Currency))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Deposit Expires: %s", time.Unix(b.DepositExpiresAt, 0).Format(time.RFC1123)))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{
		ImageType: "PNG",
	}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=quote-"+b.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
