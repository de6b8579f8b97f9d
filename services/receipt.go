package services

import (
	"fmt"
	"io"
	"strings"

	"restaurant-pos/models"

	"github.com/shopspring/decimal"
)

const receiptWidth = 50

// WriteReceipt renders a fixed-width customer receipt. order should be loaded with its items.
func WriteReceipt(w io.Writer, bill *models.Bill, order *models.Order) error {
	heavy := strings.Repeat("=", receiptWidth)
	light := strings.Repeat("-", receiptWidth)

	table := fmt.Sprintf("%d", order.TableID)
	if order.Table != nil {
		table = fmt.Sprintf("%d", order.Table.Number)
	}

	var b strings.Builder
	fmt.Fprintln(&b, heavy)
	fmt.Fprintln(&b, "              RESTAURANT BILL")
	fmt.Fprintln(&b, heavy)
	fmt.Fprintf(&b, "Bill ID: %d\n", bill.ID)
	fmt.Fprintf(&b, "Order ID: %d\n", order.ID)
	fmt.Fprintf(&b, "Table: %s\n", table)
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Date: %s\n", bill.BillTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, light)

	for _, it := range order.Items {
		fmt.Fprintf(&b, "%-25s %2dx$%6s = $%8s\n",
			it.Name, it.Quantity, it.Price.StringFixed(2), it.LineTotal().StringFixed(2))
	}

	fmt.Fprintln(&b, light)
	fmt.Fprintf(&b, "%-35s $%8s\n", "Subtotal:", bill.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "%-35s $%8s\n", "Tax ("+chargedRate(bill).Shift(2).String()+"%):", bill.Tax.StringFixed(2))
	fmt.Fprintln(&b, heavy)
	fmt.Fprintf(&b, "%-35s $%8s\n", "TOTAL:", bill.Total.StringFixed(2))
	fmt.Fprintln(&b, heavy)
	fmt.Fprintf(&b, "Payment Status: %s\n", bill.PaymentStatus)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Thank you for dining with us!")
	fmt.Fprintln(&b, heavy)

	_, err := io.WriteString(w, b.String())
	return err
}

// chargedRate is the rate stored on the bill. Bills issued before the rate was stored fall back
// to tax / subtotal.
func chargedRate(bill *models.Bill) decimal.Decimal {
	if !bill.TaxRate.IsZero() || bill.Subtotal.IsZero() {
		return bill.TaxRate
	}
	return bill.Tax.DivRound(bill.Subtotal, 4)
}
