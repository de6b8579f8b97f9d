package services

import (
	"context"
	"strings"

	"restaurant-pos/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxAmount is the largest value a decimal(10,2) money column holds
var maxAmount = decimal.RequireFromString("99999999.99")

type MenuService struct {
	base
}

type MenuItemInput struct {
	Name        string `validate:"required,max=100"`
	Category    string `validate:"required,max=50"`
	Price       decimal.Decimal
	Description string `validate:"max=1000"`
}

func (in *MenuItemInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateInput(in); err != nil {
		return err
	}
	if !in.Price.IsPositive() {
		return invalidInput("price must be greater than 0")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return invalidInput("price must have at most 2 decimal places")
	}
	if in.Price.GreaterThan(maxAmount) {
		return invalidInput("price must be at most %s", maxAmount.StringFixed(2))
	}
	return nil
}

// MenuFilter narrows List; zero value lists everything
type MenuFilter struct {
	Category      string
	AvailableOnly bool
}

// Add puts a new, available item on the menu
func (s *MenuService) Add(ctx context.Context, sess Session, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	item := models.MenuItem{
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Description: in.Description,
		Available:   true,
	}
	if err := s.conn(ctx).Create(&item).Error; err != nil {
		return nil, s.storeErr(ctx, "add_menu_item", err)
	}
	s.log.Info("add_menu_item", RequestIDFrom(ctx), "menu item "+item.Name+" added by "+sess.Username)
	return &item, nil
}

// Update rewrites name, category, price and description. Orders already placed keep the
// name and price they were taken at.
func (s *MenuService) Update(ctx context.Context, sess Session, id uint, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var item models.MenuItem
	if err := s.find(ctx, "update_menu_item", "menu item", &item, id); err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.Category = in.Category
	item.Price = in.Price
	item.Description = in.Description
	if err := s.conn(ctx).Save(&item).Error; err != nil {
		return nil, s.storeErr(ctx, "update_menu_item", err)
	}
	return &item, nil
}

// Delete removes an item that no order references. Referenced items must be marked
// unavailable instead.
func (s *MenuService) Delete(ctx context.Context, sess Session, id uint) error {
	return s.inTx(ctx, "delete_menu_item", func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, id).Error; err != nil {
			return lookupErr(err, "menu item", id)
		}
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("menu_item_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return invalidState("menu item %q is on %d order line(s); mark it unavailable instead", item.Name, refs)
		}
		return tx.Delete(&item).Error
	})
}

// SetAvailability flips whether the item can be ordered
func (s *MenuService) SetAvailability(ctx context.Context, sess Session, id uint, available bool) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.find(ctx, "set_menu_availability", "menu item", &item, id); err != nil {
		return nil, err
	}
	if err := s.conn(ctx).Model(&item).Update("available", available).Error; err != nil {
		return nil, s.storeErr(ctx, "set_menu_availability", err)
	}
	item.Available = available
	return &item, nil
}

func (s *MenuService) Get(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.find(ctx, "get_menu_item", "menu item", &item, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns menu items sorted by category then name
func (s *MenuService) List(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	q := s.conn(ctx).Order("category").Order("name").Order("id")
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	if f.AvailableOnly {
		q = q.Where("available = ?", true)
	}
	var items []models.MenuItem
	if err := q.Find(&items).Error; err != nil {
		return nil, s.storeErr(ctx, "list_menu_items", err)
	}
	return items, nil
}

// Categories lists distinct categories in alphabetical order
func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	err := s.conn(ctx).Model(&models.MenuItem{}).Distinct().Order("category").Pluck("category", &cats).Error
	if err != nil {
		return nil, s.storeErr(ctx, "list_categories", err)
	}
	return cats, nil
}
