package handlers

import (
	"fmt"
	"net/http"

	"restaurant-pos/models"
	"restaurant-pos/services"

	"github.com/gin-gonic/gin"
)

type TableForm struct {
	Number   int `form:"number" binding:"required"`
	Capacity int `form:"capacity" binding:"required"`
}

func (h *Handler) TablesPage(c *gin.Context) {
	tables, err := h.svc.Tables.List(c.Request.Context())
	if err != nil {
		h.fail(c, "", err)
		return
	}
	h.render(c, http.StatusOK, "tables.tmpl", "Tables", gin.H{"Tables": tables})
}

func (h *Handler) AddTable(c *gin.Context) {
	var form TableForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, "/tables", fmt.Errorf("%w: table number and capacity must be whole numbers", services.ErrInvalidInput))
		return
	}
	table, err := h.svc.Tables.Add(c.Request.Context(), session(c), services.TableInput{
		Number:   form.Number,
		Capacity: form.Capacity,
	})
	if err != nil {
		h.fail(c, "/tables", err)
		return
	}
	done(c, "/tables", fmt.Sprintf("Table %d added", table.Number))
}

// SetTableStatus reserves or releases a table
func (h *Handler) SetTableStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	status := models.TableStatus(c.PostForm("status"))
	table, err := h.svc.Tables.SetStatus(c.Request.Context(), session(c), id, status)
	if err != nil {
		h.fail(c, "/tables", err)
		return
	}
	done(c, "/tables", fmt.Sprintf("Table %d is now %s", table.Number, table.Status))
}
