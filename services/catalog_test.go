package services

import (
	"context"
	"testing"

	"restaurant-pos/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuService_AddValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		in      MenuItemInput
		wantErr error
	}{
		{name: "success", in: MenuItemInput{Name: " Tea ", Category: "Drinks", Price: price("2.50")}},
		{name: "error_missing_name", in: MenuItemInput{Category: "Drinks", Price: price("2.50")}, wantErr: ErrInvalidInput},
		{name: "error_missing_category", in: MenuItemInput{Name: "Tea", Price: price("2.50")}, wantErr: ErrInvalidInput},
		{name: "error_zero_price", in: MenuItemInput{Name: "Tea", Category: "Drinks", Price: price("0")}, wantErr: ErrInvalidInput},
		{name: "error_negative_price", in: MenuItemInput{Name: "Tea", Category: "Drinks", Price: price("-1")}, wantErr: ErrInvalidInput},
		{name: "error_sub_cent_price", in: MenuItemInput{Name: "Tea", Category: "Drinks", Price: price("2.505")}, wantErr: ErrInvalidInput},
		{name: "error_price_too_large", in: MenuItemInput{Name: "Tea", Category: "Drinks", Price: price("100000000")}, wantErr: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := svc.Menu.Add(ctx, adminSess, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Tea", item.Name)
			assert.True(t, item.Available)
		})
	}
}

func TestMenuService_ListAndCategories(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Menu.Add(ctx, adminSess, MenuItemInput{Name: "Soda", Category: "Drinks", Price: price("1.50")})
	require.NoError(t, err)
	cake, err := svc.Menu.Add(ctx, adminSess, MenuItemInput{Name: "Cake", Category: "Desserts", Price: price("4.00")})
	require.NoError(t, err)
	_, err = svc.Menu.Add(ctx, adminSess, MenuItemInput{Name: "Beer", Category: "Drinks", Price: price("5.00")})
	require.NoError(t, err)
	_, err = svc.Menu.SetAvailability(ctx, adminSess, cake.ID, false)
	require.NoError(t, err)

	all, err := svc.Menu.List(ctx, MenuFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Cake", "Beer", "Soda"}, []string{all[0].Name, all[1].Name, all[2].Name})

	available, err := svc.Menu.List(ctx, MenuFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, available, 2)

	drinks, err := svc.Menu.List(ctx, MenuFilter{Category: "Drinks"})
	require.NoError(t, err)
	assert.Len(t, drinks, 2)

	cats, err := svc.Menu.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Desserts", "Drinks"}, cats)
}

func TestMenuService_Delete(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	table := mustTable(t, svc, 1)
	used := mustMenuItem(t, svc, "Steak", "22.00")
	unused := mustMenuItem(t, svc, "Salad", "7.00")

	order, err := svc.Orders.CreateOrder(ctx, staffSess, table.ID, "Liam")
	require.NoError(t, err)
	_, err = svc.Orders.AddItemToOrder(ctx, staffSess, order.ID, used.ID, 1)
	require.NoError(t, err)

	err = svc.Menu.Delete(ctx, adminSess, used.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, svc.Menu.Delete(ctx, adminSess, unused.ID))
	_, err = svc.Menu.Get(ctx, unused.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Menu.Delete(ctx, adminSess, unused.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTableService_Add(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	table, err := svc.Tables.Add(ctx, adminSess, TableInput{Number: 5, Capacity: 6})
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status)

	_, err = svc.Tables.Add(ctx, adminSess, TableInput{Number: 5, Capacity: 2})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Tables.Add(ctx, adminSess, TableInput{Number: 0, Capacity: 2})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Tables.Add(ctx, adminSess, TableInput{Number: 6, Capacity: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Tables.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTableService_SetStatus(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	free := mustTable(t, svc, 1)
	busy := mustTable(t, svc, 2)
	_, err := svc.Orders.CreateOrder(ctx, staffSess, busy.ID, "Mia")
	require.NoError(t, err)

	_, err = svc.Tables.SetStatus(ctx, staffSess, free.ID, "BROKEN")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Tables.SetStatus(ctx, staffSess, free.ID, models.TableOccupied)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Tables.SetStatus(ctx, staffSess, busy.ID, models.TableAvailable)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Tables.SetStatus(ctx, staffSess, 999, models.TableReserved)
	assert.ErrorIs(t, err, ErrNotFound)

	reserved, err := svc.Tables.SetStatus(ctx, staffSess, free.ID, models.TableReserved)
	require.NoError(t, err)
	assert.Equal(t, models.TableReserved, reserved.Status)

	available, err := svc.Tables.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)

	_, err = svc.Tables.SetStatus(ctx, staffSess, free.ID, models.TableAvailable)
	require.NoError(t, err)
	available, err = svc.Tables.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 1, available[0].Number)

	all, err := svc.Tables.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
