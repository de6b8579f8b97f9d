package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Category    string          `json:"category" gorm:"size:50;not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Available   bool            `json:"available" gorm:"not null;default:true"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableStatus is the occupancy state of a dining table
type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
	TableReserved  TableStatus = "RESERVED"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}

type Table struct {
	ID       uint        `json:"id" gorm:"primaryKey"`
	Number   int         `json:"table_number" gorm:"column:table_number;uniqueIndex;not null"`
	Capacity int         `json:"capacity" gorm:"not null"`
	Status   TableStatus `json:"status" gorm:"size:10;not null;default:'AVAILABLE'"`
}
