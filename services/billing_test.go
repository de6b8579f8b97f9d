package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"restaurant-pos/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBill(t *testing.T) {
	rate := price("0.08")
	tests := []struct {
		subtotal  string
		wantTax   string
		wantTotal string
	}{
		{"30.00", "2.40", "32.40"},
		{"19.99", "1.60", "21.59"},
		{"10.005", "0.80", "10.805"},
		{"0.06", "0.00", "0.06"},
		{"0.07", "0.01", "0.08"}, // 0.0056 rounds up
		{"0", "0.00", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.subtotal, func(t *testing.T) {
			tax, total := ComputeBill(price(tt.subtotal), rate)
			assert.Equal(t, tt.wantTax, tax.StringFixed(2))
			assert.True(t, price(tt.wantTotal).Equal(total), "total %s", total)
		})
	}
}

func TestComputeBill_RoundsHalfUp(t *testing.T) {
	// 0.5625 × 0.08 = 0.045
	tax, _ := ComputeBill(price("0.5625"), price("0.08"))
	assert.Equal(t, "0.05", tax.StringFixed(2))
}

// completedOrder opens, fills and completes an order worth subtotal
func completedOrder(t *testing.T, svc *Services, tableNumber int, subtotal string) *models.Order {
	t.Helper()
	ctx := context.Background()
	table := mustTable(t, svc, tableNumber)
	item := mustMenuItem(t, svc, "Dish "+subtotal, subtotal)
	order, err := svc.Orders.CreateOrder(ctx, staffSess, table.ID, "Ivy")
	require.NoError(t, err)
	_, err = svc.Orders.AddItemToOrder(ctx, staffSess, order.ID, item.ID, 1)
	require.NoError(t, err)
	order, err = svc.Orders.UpdateOrderStatus(ctx, staffSess, order.ID, models.StatusCompleted)
	require.NoError(t, err)
	return order
}

func TestBillingService_GenerateBill(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Billing.GenerateBill(ctx, staffSess, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	open := mustTable(t, svc, 10)
	pending, err := svc.Orders.CreateOrder(ctx, staffSess, open.ID, "Jack")
	require.NoError(t, err)
	_, err = svc.Billing.GenerateBill(ctx, staffSess, pending.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	order := completedOrder(t, svc, 11, "19.99")
	bill, err := svc.Billing.GenerateBill(ctx, staffSess, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "19.99", bill.Subtotal.StringFixed(2))
	assert.Equal(t, "1.60", bill.Tax.StringFixed(2))
	assert.Equal(t, "21.59", bill.Total.StringFixed(2))
	assert.Nil(t, bill.PaidAt)

	_, err = svc.Billing.GenerateBill(ctx, staffSess, order.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	byOrder, err := svc.Billing.GetBillForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, byOrder.ID)

	_, err = svc.Billing.GetBillForOrder(ctx, pending.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBillingService_CancelledOrderCannotBeBilled(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	table := mustTable(t, svc, 4)
	order, err := svc.Orders.CreateOrder(ctx, staffSess, table.ID, "Kim")
	require.NoError(t, err)
	_, err = svc.Orders.UpdateOrderStatus(ctx, staffSess, order.ID, models.StatusCancelled)
	require.NoError(t, err)

	_, err = svc.Billing.GenerateBill(ctx, staffSess, order.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBillingService_MarkBillPaidIsIdempotent(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	order := completedOrder(t, svc, 5, "30.00")
	bill, err := svc.Billing.GenerateBill(ctx, staffSess, order.ID)
	require.NoError(t, err)

	_, err = svc.Billing.MarkBillPaid(ctx, staffSess, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	paid, err := svc.Billing.MarkBillPaid(ctx, staffSess, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PaidAt)
	firstPaidAt := *paid.PaidAt

	again, err := svc.Billing.MarkBillPaid(ctx, staffSess, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, again.PaymentStatus)
	require.NotNil(t, again.PaidAt)
	assert.WithinDuration(t, firstPaidAt, *again.PaidAt, time.Second)

	stored, err := svc.Billing.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, "32.40", stored.Total.StringFixed(2))
}

func TestWriteReceipt(t *testing.T) {
	billTime := time.Date(2024, 3, 9, 18, 30, 5, 0, time.UTC)
	order := &models.Order{
		ID:           12,
		TableID:      3,
		Table:        &models.Table{ID: 3, Number: 8},
		CustomerName: "Alice",
		Items: []models.OrderItem{
			{Name: "Burger", Quantity: 2, Price: price("12.50")},
			{Name: "Fries", Quantity: 1, Price: price("5")},
		},
	}
	bill := &models.Bill{
		ID:            4,
		OrderID:       12,
		Subtotal:      price("30"),
		TaxRate:       price("0.08"),
		Tax:           price("2.4"),
		Total:         price("32.4"),
		PaymentStatus: models.PaymentPending,
		BillTime:      billTime,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReceipt(&buf, bill, order))
	out := buf.String()

	assert.Contains(t, out, "RESTAURANT BILL")
	assert.Contains(t, out, "Bill ID: 4\n")
	assert.Contains(t, out, "Order ID: 12\n")
	assert.Contains(t, out, "Table: 8\n")
	assert.Contains(t, out, "Customer: Alice\n")
	assert.Contains(t, out, "Date: 2024-03-09 18:30:05\n")
	assert.Contains(t, out, "Burger"+strings.Repeat(" ", 19)+"  2x$ 12.50 = $   25.00\n")
	assert.Contains(t, out, "Fries"+strings.Repeat(" ", 20)+"  1x$  5.00 = $    5.00\n")
	assert.Contains(t, out, "Subtotal:"+strings.Repeat(" ", 26)+" $   30.00\n")
	assert.Contains(t, out, "Tax (8%):"+strings.Repeat(" ", 26)+" $    2.40\n")
	assert.Contains(t, out, "TOTAL:"+strings.Repeat(" ", 29)+" $   32.40\n")
	assert.Contains(t, out, "Payment Status: PENDING\n")
	assert.True(t, strings.HasSuffix(out, "Thank you for dining with us!\n"+strings.Repeat("=", 50)+"\n"))
}

func TestWriteReceipt_PrintsRateTheBillWasChargedAt(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	order := completedOrder(t, svc, 12, "30.00")
	bill, err := svc.Billing.GenerateBill(ctx, staffSess, order.ID)
	require.NoError(t, err)

	// the configured rate changes after the bill was issued
	later := New(db, svc.Billing.log, price("0.10"))
	stored, err := later.Billing.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.08", stored.TaxRate.String())
	full, err := later.Orders.GetOrderWithItems(ctx, order.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReceipt(&buf, stored, full))
	assert.Contains(t, buf.String(), "Tax (8%):")
	assert.Contains(t, buf.String(), "$    2.40\n")

	// bills stored without a rate derive it from tax and subtotal
	legacy := &models.Bill{Subtotal: price("30"), Tax: price("2.4"), Total: price("32.4")}
	buf.Reset()
	require.NoError(t, WriteReceipt(&buf, legacy, full))
	assert.Contains(t, buf.String(), "Tax (8%):")
}

func TestBillQRCode(t *testing.T) {
	bill := &models.Bill{ID: 4, OrderID: 12, Total: price("32.4"), PaymentStatus: models.PaymentPaid}
	assert.Equal(t, "POS-BILL;id=4;order=12;total=32.40;status=PAID", BillQRPayload(bill))

	png, err := BillQRCode(bill)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}
