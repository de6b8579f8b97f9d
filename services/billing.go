package services

import (
	"context"
	"fmt"
	"time"

	"restaurant-pos/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillingService struct {
	base
	taxRate decimal.Decimal
}

// ComputeBill returns the tax and total for a subtotal. Tax is rounded half-up to cents.
func ComputeBill(subtotal, rate decimal.Decimal) (tax, total decimal.Decimal) {
	tax = subtotal.Mul(rate).Round(2)
	total = subtotal.Add(tax)
	return tax, total
}

// GenerateBill issues the single bill for a completed order
func (s *BillingService) GenerateBill(ctx context.Context, sess Session, orderID uint) (*models.Bill, error) {
	var bill models.Bill
	err := s.inTx(ctx, "generate_bill", func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return lookupErr(err, "order", orderID)
		}
		if order.Status != models.StatusCompleted {
			return invalidState("order %d is %s; only COMPLETED orders can be billed", order.ID, order.Status)
		}

		var existing int64
		if err := tx.Model(&models.Bill{}).Where("order_id = ?", orderID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return invalidState("order %d already has a bill", order.ID)
		}

		subtotal := order.TotalAmount
		tax, total := ComputeBill(subtotal, s.taxRate)
		bill = models.Bill{
			OrderID:       order.ID,
			Subtotal:      subtotal,
			TaxRate:       s.taxRate,
			Tax:           tax,
			Total:         total,
			PaymentStatus: models.PaymentPending,
		}
		return tx.Omit("Order").Create(&bill).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("generate_bill", RequestIDFrom(ctx),
		fmt.Sprintf("bill %d for order %d: total %s by %s", bill.ID, orderID, bill.Total.StringFixed(2), sess.Username))
	return &bill, nil
}

// GetBillForOrder returns the bill issued for an order
func (s *BillingService) GetBillForOrder(ctx context.Context, orderID uint) (*models.Bill, error) {
	var bill models.Bill
	err := s.conn(ctx).Where("order_id = ?", orderID).First(&bill).Error
	if err != nil {
		return nil, s.storeErr(ctx, "get_bill_for_order", lookupErr(err, "bill for order", orderID))
	}
	return &bill, nil
}

func (s *BillingService) GetBill(ctx context.Context, billID uint) (*models.Bill, error) {
	var bill models.Bill
	if err := s.find(ctx, "get_bill", "bill", &bill, billID); err != nil {
		return nil, err
	}
	return &bill, nil
}

// MarkBillPaid records payment. Paying an already paid bill is a no-op.
func (s *BillingService) MarkBillPaid(ctx context.Context, sess Session, billID uint) (*models.Bill, error) {
	var bill models.Bill
	err := s.inTx(ctx, "mark_bill_paid", func(tx *gorm.DB) error {
		if err := tx.First(&bill, billID).Error; err != nil {
			return lookupErr(err, "bill", billID)
		}
		if bill.PaymentStatus == models.PaymentPaid {
			return nil
		}
		now := time.Now()
		err := tx.Model(&bill).Updates(map[string]any{
			"payment_status": models.PaymentPaid,
			"paid_at":        now,
		}).Error
		if err != nil {
			return err
		}
		bill.PaymentStatus = models.PaymentPaid
		bill.PaidAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("mark_bill_paid", RequestIDFrom(ctx), fmt.Sprintf("bill %d paid, recorded by %s", billID, sess.Username))
	return &bill, nil
}
