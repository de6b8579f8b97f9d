package services

import (
	"fmt"

	"restaurant-pos/models"

	"github.com/skip2/go-qrcode"
)

// BillQRPayload is the text encoded into a bill's QR code
func BillQRPayload(bill *models.Bill) string {
	return fmt.Sprintf("POS-BILL;id=%d;order=%d;total=%s;status=%s",
		bill.ID, bill.OrderID, bill.Total.StringFixed(2), bill.PaymentStatus)
}

// BillQRCode renders the bill payload as a 256px PNG
func BillQRCode(bill *models.Bill) ([]byte, error) {
	return qrcode.Encode(BillQRPayload(bill), qrcode.Medium, 256)
}
