package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UsersPage lists every account; admin only
func (h *Handler) UsersPage(c *gin.Context) {
	users, err := h.svc.Users.List(c.Request.Context(), session(c))
	if err != nil {
		h.fail(c, "", err)
		return
	}
	h.render(c, http.StatusOK, "users.tmpl", "Users", gin.H{"Users": users})
}
