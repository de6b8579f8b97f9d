package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"restaurant-pos/services"

	"github.com/gin-gonic/gin"
)

// GenerateBill bills a completed order and opens the bill page
func (h *Handler) GenerateBill(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	bill, err := h.svc.Billing.GenerateBill(c.Request.Context(), session(c), id)
	if err != nil {
		h.fail(c, fmt.Sprintf("/orders/%d", id), err)
		return
	}
	done(c, fmt.Sprintf("/bills/%d", bill.ID), "Bill generated, total $"+bill.Total.StringFixed(2))
}

// BillPage shows the printable receipt for a bill
func (h *Handler) BillPage(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	bill, err := h.svc.Billing.GetBill(ctx, id)
	if err != nil {
		h.fail(c, "", err)
		return
	}
	order, err := h.svc.Orders.GetOrderWithItems(ctx, bill.OrderID)
	if err != nil {
		h.fail(c, "", err)
		return
	}

	var receipt strings.Builder
	if err := services.WriteReceipt(&receipt, bill, order); err != nil {
		h.fail(c, "", err)
		return
	}
	h.render(c, http.StatusOK, "bill.tmpl", fmt.Sprintf("Bill %d", bill.ID), gin.H{
		"Bill":    bill,
		"Receipt": receipt.String(),
	})
}

func (h *Handler) MarkBillPaid(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.fail(c, "", err)
		return
	}
	back := fmt.Sprintf("/bills/%d", id)
	if _, err := h.svc.Billing.MarkBillPaid(c.Request.Context(), session(c), id); err != nil {
		h.fail(c, back, err)
		return
	}
	done(c, back, "Bill marked as paid")
}

// BillQR serves the bill's QR code as a PNG
func (h *Handler) BillQR(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	bill, err := h.svc.Billing.GetBill(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		c.Status(statusFor(err))
		return
	}
	png, err := services.BillQRCode(bill)
	if err != nil {
		c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
