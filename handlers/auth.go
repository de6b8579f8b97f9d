package handlers

import (
	"net/http"

	"restaurant-pos/middleware"
	"restaurant-pos/models"
	"restaurant-pos/services"

	"github.com/gin-gonic/gin"
)

type RegisterForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Role     string `form:"role"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) LoginPage(c *gin.Context) {
	if session(c).Authenticated() {
		c.Redirect(http.StatusSeeOther, "/orders")
		return
	}
	h.render(c, http.StatusOK, "login.tmpl", "Login", nil)
}

// Login checks the credentials and sets the session cookie
func (h *Handler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, withFlash("/login", "err", "Username and password are required"))
		return
	}

	user, err := h.svc.Users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		h.fail(c, "/login", err)
		return
	}

	token, err := h.issuer.GenerateToken(user)
	if err != nil {
		h.fail(c, "", err)
		return
	}
	middleware.SetSessionCookie(c, token, h.issuer.TTL())
	h.log.Info("login", services.RequestIDFrom(c.Request.Context()), user.Username+" logged in")
	done(c, "/orders", "Welcome, "+user.Username)
}

func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c)
	done(c, "/login", "Logged out successfully")
}

func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.tmpl", "Register User", nil)
}

// Register creates an account. Signed-in admins stay signed in; self-registration sends the
// new user to the login page.
func (h *Handler) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, withFlash("/register", "err", "Username and password are required"))
		return
	}
	if form.Role == "" {
		form.Role = string(models.RoleStaff)
	}

	sess := session(c)
	user, err := h.svc.Users.Register(c.Request.Context(), sess, services.RegisterInput{
		Username: form.Username,
		Password: form.Password,
		Role:     models.UserRole(form.Role),
	})
	if err != nil {
		h.fail(c, "/register", err)
		return
	}

	if sess.IsAdmin() {
		done(c, "/users", "User "+user.Username+" registered")
		return
	}
	done(c, "/login", "User registered successfully, please log in")
}
