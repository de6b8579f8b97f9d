package services

import (
	"context"

	"restaurant-pos/models"

	"gorm.io/gorm"
)

type TableService struct {
	base
}

type TableInput struct {
	Number   int `validate:"min=1"`
	Capacity int `validate:"min=1,max=50"`
}

// Add registers a table with a unique number
func (s *TableService) Add(ctx context.Context, sess Session, in TableInput) (*models.Table, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	table := models.Table{Number: in.Number, Capacity: in.Capacity, Status: models.TableAvailable}
	err := s.inTx(ctx, "add_table", func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Table{}).Where("table_number = ?", in.Number).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return invalidState("table number %d already exists", in.Number)
		}
		return tx.Create(&table).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("add_table", RequestIDFrom(ctx), "table added by "+sess.Username)
	return &table, nil
}

func (s *TableService) Get(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := s.find(ctx, "get_table", "table", &table, id); err != nil {
		return nil, err
	}
	return &table, nil
}

// List returns every table ordered by number
func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.conn(ctx).Order("table_number").Find(&tables).Error; err != nil {
		return nil, s.storeErr(ctx, "list_tables", err)
	}
	return tables, nil
}

// ListAvailable returns tables that can take a new order right now
func (s *TableService) ListAvailable(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.conn(ctx).Where("status = ?", models.TableAvailable).Order("table_number").Find(&tables).Error
	if err != nil {
		return nil, s.storeErr(ctx, "list_available_tables", err)
	}
	return tables, nil
}

// SetStatus moves a table between AVAILABLE and RESERVED. OCCUPIED follows orders and cannot be
// set by hand, and a table with an active order cannot be changed at all.
func (s *TableService) SetStatus(ctx context.Context, sess Session, id uint, status models.TableStatus) (*models.Table, error) {
	if !status.Valid() {
		return nil, invalidInput("unknown table status %q", status)
	}
	if status == models.TableOccupied {
		return nil, invalidInput("tables become OCCUPIED by creating an order")
	}

	var table models.Table
	err := s.inTx(ctx, "set_table_status", func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			return lookupErr(err, "table", id)
		}
		var active int64
		err := tx.Model(&models.Order{}).
			Where("table_id = ? AND status IN ?", id, []models.OrderStatus{models.StatusPending, models.StatusPreparing}).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return invalidState("table %d has an active order", table.Number)
		}
		table.Status = status
		return tx.Model(&table).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}
