package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"restaurant-pos/models"
	"restaurant-pos/statemachine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService struct {
	base
}

// OrderFilter narrows ListOrders; zero value lists everything
type OrderFilter struct {
	Status models.OrderStatus
}

// OrderSummary is the dashboard view over all orders
type OrderSummary struct {
	Counts  map[models.OrderStatus]int
	Active  int
	Revenue decimal.Decimal // sum of paid bills
}

// CreateOrder opens a PENDING order on a table and marks the table OCCUPIED
func (s *OrderService) CreateOrder(ctx context.Context, sess Session, tableID uint, customerName string) (*models.Order, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, invalidInput("customer name is required")
	}
	if utf8.RuneCountInString(customerName) > 100 {
		return nil, invalidInput("customer name must be at most 100 characters")
	}

	order := models.Order{
		TableID:      tableID,
		CustomerName: customerName,
		Status:       models.StatusPending,
		TotalAmount:  decimal.Zero,
	}
	err := s.inTx(ctx, "create_order", func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			return lookupErr(err, "table", tableID)
		}
		if table.Status == models.TableOccupied {
			return invalidState("table %d is already occupied", table.Number)
		}

		if err := tx.Omit("Table", "Items", "StatusHistory").Create(&order).Error; err != nil {
			return err
		}
		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: sess.UserID,
			Note:      "Order opened for " + customerName,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		return tx.Model(&table).Update("status", models.TableOccupied).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("create_order", RequestIDFrom(ctx), fmt.Sprintf("order %d opened on table %d by %s", order.ID, tableID, sess.Username))
	return &order, nil
}

// AddItemToOrder appends a line with the menu item's current name and price, then recomputes
// the order total. Both writes commit together.
func (s *OrderService) AddItemToOrder(ctx context.Context, sess Session, orderID, menuItemID uint, quantity int) (*models.Order, error) {
	if quantity < 1 {
		return nil, invalidInput("quantity must be at least 1")
	}
	if quantity > maxQuantity {
		return nil, invalidInput("quantity must be at most %d", maxQuantity)
	}

	err := s.inTx(ctx, "add_order_item", func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return lookupErr(err, "order", orderID)
		}
		if order.Status.Terminal() {
			return invalidState("order %d is %s and cannot take more items", order.ID, order.Status)
		}

		var item models.MenuItem
		if err := tx.First(&item, menuItemID).Error; err != nil {
			return lookupErr(err, "menu item", menuItemID)
		}
		if !item.Available {
			return invalidState("menu item %q is not available", item.Name)
		}

		line := models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   quantity,
			Price:      item.Price,
		}
		if err := tx.Omit("MenuItem").Create(&line).Error; err != nil {
			return err
		}
		total, err := recomputeTotal(tx, order.ID)
		if err != nil {
			return err
		}
		if total.GreaterThan(maxAmount) {
			return invalidInput("order total %s would exceed %s", total.StringFixed(2), maxAmount.StringFixed(2))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrderWithItems(ctx, orderID)
}

// maxQuantity caps a single order line
const maxQuantity = 999

// recomputeTotal sums price × quantity over every line of the order and stores it
func recomputeTotal(tx *gorm.DB, orderID uint) (decimal.Decimal, error) {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	err := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("total_amount", total).Error
	return total, err
}

// UpdateOrderStatus moves an order along the state machine. Finishing an order (COMPLETED or
// CANCELLED) frees its table in the same transaction.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, sess Session, orderID uint, next models.OrderStatus) (*models.Order, error) {
	next = models.OrderStatus(strings.ToUpper(strings.TrimSpace(string(next))))
	if !next.Valid() {
		return nil, invalidInput("unknown order status %q", next)
	}
	actor := statemachine.ActorFor(sess.Role)

	err := s.inTx(ctx, "update_order_status", func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return lookupErr(err, "order", orderID)
		}
		if err := statemachine.CanTransition(order.Status, next, actor); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}

		prev := order.Status
		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}

		note := ""
		if statemachine.IsOverride(prev, next) {
			note = "[ADMIN OVERRIDE] by " + sess.Username
		}
		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   next,
			ChangedBy:  sess.UserID,
			Note:       note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if next.Terminal() {
			return tx.Model(&models.Table{}).Where("id = ?", order.TableID).
				Update("status", models.TableAvailable).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("update_order_status", RequestIDFrom(ctx), fmt.Sprintf("order %d → %s by %s", orderID, next, sess.Username))
	return s.GetOrderWithItems(ctx, orderID)
}

// GetOrderWithItems loads an order with its table, its lines in insertion order and its
// status history
func (s *OrderService) GetOrderWithItems(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.conn(ctx).
		Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order, orderID).Error
	if err != nil {
		return nil, s.storeErr(ctx, "get_order", lookupErr(err, "order", orderID))
	}
	return &order, nil
}

// ListOrders returns orders newest first, with their tables
func (s *OrderService) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.conn(ctx).Preload("Table").Order("order_time desc").Order("id desc")
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, invalidInput("unknown order status %q", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, s.storeErr(ctx, "list_orders", err)
	}
	return orders, nil
}

// Summary counts orders per status and totals the revenue of paid bills
func (s *OrderService) Summary(ctx context.Context) (*OrderSummary, error) {
	var rows []struct {
		Status models.OrderStatus
		N      int
	}
	err := s.conn(ctx).Model(&models.Order{}).Select("status, count(*) as n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, s.storeErr(ctx, "order_summary", err)
	}

	var paid []decimal.Decimal
	err = s.conn(ctx).Model(&models.Bill{}).Where("payment_status = ?", models.PaymentPaid).Pluck("total", &paid).Error
	if err != nil {
		return nil, s.storeErr(ctx, "order_summary", err)
	}

	summary := &OrderSummary{Counts: map[models.OrderStatus]int{}, Revenue: decimal.Zero}
	for _, r := range rows {
		summary.Counts[r.Status] = r.N
		if !r.Status.Terminal() {
			summary.Active += r.N
		}
	}
	for _, t := range paid {
		summary.Revenue = summary.Revenue.Add(t)
	}
	return summary, nil
}

// History returns the status changes of an order, oldest first
func (s *OrderService) History(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	var order models.Order
	if err := s.find(ctx, "order_history", "order", &order, orderID); err != nil {
		return nil, err
	}
	var history []models.OrderStatusHistory
	if err := s.conn(ctx).Where("order_id = ?", orderID).Order("id").Find(&history).Error; err != nil {
		return nil, s.storeErr(ctx, "order_history", err)
	}
	return history, nil
}
