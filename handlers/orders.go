package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"restaurant-pos/models"
	"restaurant-pos/services"
	"restaurant-pos/statemachine"

	"github.com/gin-gonic/gin"
)

type CreateOrderForm struct {
	TableID      uint   `form:"table_id" binding:"required"`
	CustomerName string `form:"customer_name"`
}

type AddItemForm struct {
	MenuItemID uint `form:"menu_item_id" binding:"required"`
	Quantity   int  `form:"quantity"`
}

// OrdersPage lists orders newest first with the per-status summary
func (h *Handler) OrdersPage(c *gin.Context) {
	ctx := c.Request.Context()
	status := models.OrderStatus(strings.ToUpper(c.Query("status")))

	orders, err := h.svc.Orders.ListOrders(ctx, services.OrderFilter{Status: status})
	if err != nil {
		h.fail(c, "", err)
		return
	}
	summary, err := h.svc.Orders.Summary(ctx)
	if err != nil {
		h.fail(c, "", err)
		return
	}
	tables, err := h.svc.Tables.ListAvailable(ctx)
	if err != nil {
		h.fail(c, "", err)
		return
	}

	h.render(c, http.StatusOK, "orders.tmpl", "Orders", gin.H{
		"Orders":  orders,
		"Summary": summary,
		"Status":  status,
		"Tables":  tables,
	})
}

// CreateOrder opens an order on a table
func (h *Handler) CreateOrder(c *gin.Context) {
	var form CreateOrderForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, "/orders", fmt.Errorf("%w: choose a table", services.ErrInvalidInput))
		return
	}
	order, err := h.svc.Orders.CreateOrder(c.Request.Context(), session(c), form.TableID, form.CustomerName)
	if err != nil {
		h.fail(c, "/orders", err)
		return
	}
	done(c, fmt.Sprintf("/orders/%d", order.ID), fmt.Sprintf("Order %d created", order.ID))
}

// OrderPage shows one order with its items, history and the actions open to the caller
func (h *Handler) OrderPage(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	order, err := h.svc.Orders.GetOrderWithItems(ctx, id)
	if err != nil {
		h.fail(c, "", err)
		return
	}

	var bill *models.Bill
	if order.Status == models.StatusCompleted {
		bill, err = h.svc.Billing.GetBillForOrder(ctx, order.ID)
		if err != nil && !errors.Is(err, services.ErrNotFound) {
			h.fail(c, "", err)
			return
		}
	}

	canAdd := !order.Status.Terminal()
	var menu []models.MenuItem
	if canAdd {
		menu, err = h.svc.Menu.List(ctx, services.MenuFilter{AvailableOnly: true})
		if err != nil {
			h.fail(c, "", err)
			return
		}
	}

	h.render(c, http.StatusOK, "order.tmpl", fmt.Sprintf("Order %d", order.ID), gin.H{
		"Order":        order,
		"Bill":         bill,
		"CanAddItems":  canAdd,
		"MenuItems":    menu,
		"NextStatuses": statemachine.ValidTransitionsFrom(order.Status, statemachine.ActorFor(session(c).Role)),
	})
}

// AddOrderItem adds a menu item line to an open order
func (h *Handler) AddOrderItem(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	back := fmt.Sprintf("/orders/%d", id)

	var form AddItemForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, back, fmt.Errorf("%w: choose a menu item and a quantity", services.ErrInvalidInput))
		return
	}
	order, err := h.svc.Orders.AddItemToOrder(c.Request.Context(), session(c), id, form.MenuItemID, form.Quantity)
	if err != nil {
		h.fail(c, back, err)
		return
	}
	done(c, back, "Item added, total is now $"+order.TotalAmount.StringFixed(2))
}

// UpdateOrderStatus handles staff and admin state transitions
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	back := fmt.Sprintf("/orders/%d", id)

	next := models.OrderStatus(c.PostForm("status"))
	order, err := h.svc.Orders.UpdateOrderStatus(c.Request.Context(), session(c), id, next)
	if err != nil {
		h.fail(c, back, err)
		return
	}
	done(c, back, fmt.Sprintf("Order %d is now %s", order.ID, order.Status))
}
