// Package services holds the order/billing lifecycle rules and the menu, table and user
// collaborators they depend on. Every call opens a context-scoped gorm handle; calls that write
// more than one row run in a single transaction.
package services

import (
	"context"
	"fmt"

	"restaurant-pos/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Services struct {
	Users   *UserService
	Menu    *MenuService
	Tables  *TableService
	Orders  *OrderService
	Billing *BillingService
}

// New wires every service onto the same database handle
func New(db *gorm.DB, log *logger.Logger, taxRate decimal.Decimal) *Services {
	b := base{db: db, log: log}
	return &Services{
		Users:   &UserService{base: b},
		Menu:    &MenuService{base: b},
		Tables:  &TableService{base: b},
		Orders:  &OrderService{base: b},
		Billing: &BillingService{base: b, taxRate: taxRate},
	}
}

type base struct {
	db  *gorm.DB
	log *logger.Logger
}

func (b base) conn(ctx context.Context) *gorm.DB {
	return b.db.WithContext(ctx)
}

// storeErr logs a failed store call and reports it as ErrPersistence. Service errors and missing
// rows are passed through untouched.
func (b base) storeErr(ctx context.Context, action string, err error) error {
	if err == nil || isServiceErr(err) {
		return err
	}
	b.log.Error(action, RequestIDFrom(ctx), "store call failed", err)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, action, err)
}

// inTx runs fn in one transaction and maps whatever it returns through storeErr
func (b base) inTx(ctx context.Context, action string, fn func(tx *gorm.DB) error) error {
	return b.storeErr(ctx, action, b.conn(ctx).Transaction(fn))
}

// find loads one row by primary key
func (b base) find(ctx context.Context, action, what string, dest any, id uint) error {
	err := b.conn(ctx).First(dest, id).Error
	return b.storeErr(ctx, action, lookupErr(err, what, id))
}
