package routes

import (
	"net/http"

	"restaurant-pos/handlers"
	"restaurant-pos/logger"
	"restaurant-pos/middleware"
	"restaurant-pos/models"
	"restaurant-pos/templates"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with templates, middleware and every route
func NewRouter(h *handlers.Handler, issuer *middleware.TokenIssuer, log *logger.Logger) (*gin.Engine, error) {
	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log), middleware.LoadSession(issuer))
	r.SetHTMLTemplate(tmpl)
	SetupRoutes(r, h)
	return r, nil
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	// ── Public routes ──────────────────────────────────────────────
	r.GET("/health", h.Health)
	r.GET("/state-machine", h.GetStateMachineInfo)
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/orders") })

	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/register", h.RegisterPage)
	r.POST("/register", h.Register)

	// ── Staff routes ───────────────────────────────────────────────
	staff := r.Group("/")
	staff.Use(middleware.AuthRequired())
	{
		// Menu management
		staff.GET("/menu", h.MenuPage)
		staff.POST("/menu", h.AddMenuItem)
		staff.GET("/menu/:id/edit", h.EditMenuItemPage)
		staff.POST("/menu/:id", h.UpdateMenuItem)
		staff.POST("/menu/:id/delete", h.DeleteMenuItem)
		staff.POST("/menu/:id/availability", h.SetMenuAvailability)

		// Table management
		staff.GET("/tables", h.TablesPage)
		staff.POST("/tables", h.AddTable)
		staff.POST("/tables/:id/status", h.SetTableStatus)

		// Order management
		staff.GET("/orders", h.OrdersPage)
		staff.POST("/orders", h.CreateOrder)
		staff.GET("/orders/:id", h.OrderPage)
		staff.POST("/orders/:id/items", h.AddOrderItem)
		staff.POST("/orders/:id/status", h.UpdateOrderStatus)
		staff.POST("/orders/:id/bill", h.GenerateBill)

		// Billing
		staff.GET("/bills/:id", h.BillPage)
		staff.POST("/bills/:id/pay", h.MarkBillPaid)
		staff.GET("/bills/:id/qr.png", h.BillQR)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", h.UsersPage)
	}
}
