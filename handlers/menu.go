package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"restaurant-pos/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type MenuItemForm struct {
	Name        string `form:"name"`
	Category    string `form:"category"`
	Price       string `form:"price"`
	Description string `form:"description"`
}

func (f MenuItemForm) input() (services.MenuItemInput, error) {
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return services.MenuItemInput{}, fmt.Errorf("%w: price %q is not a number", services.ErrInvalidInput, f.Price)
	}
	return services.MenuItemInput{
		Name:        f.Name,
		Category:    f.Category,
		Price:       price,
		Description: f.Description,
	}, nil
}

// MenuPage lists the menu with optional category and availability filters
func (h *Handler) MenuPage(c *gin.Context) {
	ctx := c.Request.Context()
	filter := services.MenuFilter{
		Category:      c.Query("category"),
		AvailableOnly: c.Query("available") == "1",
	}

	items, err := h.svc.Menu.List(ctx, filter)
	if err != nil {
		h.fail(c, "", err)
		return
	}
	categories, err := h.svc.Menu.Categories(ctx)
	if err != nil {
		h.fail(c, "", err)
		return
	}

	h.render(c, http.StatusOK, "menu.tmpl", "Menu", gin.H{
		"Items":         items,
		"Categories":    categories,
		"Category":      filter.Category,
		"AvailableOnly": filter.AvailableOnly,
	})
}

// AddMenuItem adds a new item to the menu
func (h *Handler) AddMenuItem(c *gin.Context) {
	var form MenuItemForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, "/menu", fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
		return
	}
	in, err := form.input()
	if err != nil {
		h.fail(c, "/menu", err)
		return
	}
	item, err := h.svc.Menu.Add(c.Request.Context(), session(c), in)
	if err != nil {
		h.fail(c, "/menu", err)
		return
	}
	done(c, "/menu", "Menu item "+item.Name+" added")
}

func (h *Handler) EditMenuItemPage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	item, err := h.svc.Menu.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "", err)
		return
	}
	h.render(c, http.StatusOK, "menu_edit.tmpl", "Edit "+item.Name, gin.H{"Item": item})
}

// UpdateMenuItem updates an existing menu item
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	back := fmt.Sprintf("/menu/%d/edit", id)

	var form MenuItemForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, back, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
		return
	}
	in, err := form.input()
	if err != nil {
		h.fail(c, back, err)
		return
	}
	item, err := h.svc.Menu.Update(c.Request.Context(), session(c), id, in)
	if err != nil {
		h.fail(c, back, err)
		return
	}
	done(c, "/menu", "Menu item "+item.Name+" updated")
}

// DeleteMenuItem removes a menu item no order refers to
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	if err := h.svc.Menu.Delete(c.Request.Context(), session(c), id); err != nil {
		h.fail(c, "/menu", err)
		return
	}
	done(c, "/menu", "Menu item deleted")
}

func (h *Handler) SetMenuAvailability(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	available, err := strconv.ParseBool(c.PostForm("available"))
	if err != nil {
		h.fail(c, "/menu", fmt.Errorf("%w: available must be true or false", services.ErrInvalidInput))
		return
	}
	item, err := h.svc.Menu.SetAvailability(c.Request.Context(), session(c), id, available)
	if err != nil {
		h.fail(c, "/menu", err)
		return
	}
	state := "unavailable"
	if item.Available {
		state = "available"
	}
	done(c, "/menu", item.Name+" is now "+state)
}
