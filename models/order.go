package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of a dine-in order
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPreparing OrderStatus = "PREPARING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in display order
var OrderStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusCompleted, StatusCancelled}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the order is finished and its table can be released
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Order struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	TableID       uint                 `json:"table_id" gorm:"not null;index"`
	Table         *Table               `json:"table,omitempty" gorm:"foreignKey:TableID"`
	CustomerName  string               `json:"customer_name" gorm:"size:100"`
	Status        OrderStatus          `json:"status" gorm:"size:10;not null;default:'PENDING';index"`
	TotalAmount   decimal.Decimal      `json:"total_amount" gorm:"type:decimal(10,2);not null;default:0"`
	OrderTime     time.Time            `json:"order_time" gorm:"autoCreateTime"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null;index"`
	MenuItem   *MenuItem       `json:"-" gorm:"foreignKey:MenuItemID;constraint:OnDelete:RESTRICT"`
	Name       string          `json:"name" gorm:"size:100;not null"` // snapshot name
	Quantity   int             `json:"quantity" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
}

// LineTotal is price × quantity for this line
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status" gorm:"size:10"`
	ToStatus   OrderStatus `json:"to_status" gorm:"size:10;not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
