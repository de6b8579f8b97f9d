package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

type Bill struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderID       uint            `json:"order_id" gorm:"uniqueIndex;not null"`
	Order         *Order          `json:"-" gorm:"foreignKey:OrderID"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	TaxRate       decimal.Decimal `json:"tax_rate" gorm:"type:decimal(5,4);not null;default:0"` // rate charged at generation
	Tax           decimal.Decimal `json:"tax" gorm:"type:decimal(10,2);not null"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"size:10;not null;default:'PENDING'"`
	BillTime      time.Time       `json:"bill_time" gorm:"autoCreateTime"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&MenuItem{},
		&Table{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&Bill{},
	}
}
