package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/foodapp/storefront/internal/api/handler"
	"github.com/foodapp/storefront/internal/api/middleware"
	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// uploadBodyLimit caps the multipart body before it is parsed. The image
// itself is limited to 5 MB by the upload service.
const uploadBodyLimit = "6M"

// Deps is everything the router needs to build its handlers.
type Deps struct {
	Sessions      ports.SessionService
	Menu          ports.MenuService
	Carts         ports.CartService
	Checkout      ports.CheckoutService
	Orders        ports.OrderService
	Tracker       ports.OrderTracker
	Notifications ports.NotificationService
	AdminUsers    ports.AdminUserService
	Uploads       ports.UploadService

	// Health lists the dependencies checked by the readiness probe.
	Health []handler.Dependency

	// ImagesRoot is served at ImagesURL when images are stored on local disk.
	ImagesRoot string
	ImagesURL  string

	CORSOrigins    []string
	SessionRecheck time.Duration
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Probes, metrics, docs (no auth required) ---
	health := handler.NewHealthHandler(d.Health...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if d.ImagesRoot != "" {
		e.Static(d.ImagesURL, d.ImagesRoot)
	}

	e.Use(middleware.Authenticate(d.Sessions, d.Log, "/v1/auth/login", "/v1/auth/register"))

	signedIn := middleware.RequireRole(domain.RoleCustomer, domain.GuardFallback)
	staff := middleware.RequireRole(domain.RoleStaff, domain.GuardFallback)
	admin := middleware.RequireRole(domain.RoleAdmin, domain.GuardFallback)

	v1 := e.Group("/v1")

	// --- Auth ---
	auth := handler.NewAuthHandler(d.Sessions)
	v1.POST("/auth/register", auth.Register)
	v1.POST("/auth/login", auth.Login)
	v1.GET("/auth/guard", auth.Guard)
	v1.POST("/auth/logout", auth.Logout, signedIn)
	v1.GET("/auth/me", auth.Me, signedIn)
	v1.PUT("/auth/me", auth.UpdateMe, signedIn)

	// --- Menu ---
	menu := handler.NewMenuHandler(d.Menu)
	v1.GET("/menu/categories", menu.Categories)
	v1.GET("/menu/items", menu.Items)
	v1.GET("/menu/items/:id", menu.Item)

	// --- Cart & checkout ---
	cart := handler.NewCartHandler(d.Carts, d.Checkout)
	cg := v1.Group("/cart", signedIn)
	cg.GET("", cart.Get)
	cg.DELETE("", cart.Clear)
	cg.GET("/quote", cart.Quote)
	cg.POST("/items", cart.AddItem)
	cg.PUT("/items/:itemId", cart.UpdateItem)
	cg.DELETE("/items/:itemId", cart.RemoveItem)
	v1.POST("/checkout", cart.Checkout, signedIn)

	// --- Orders ---
	orders := handler.NewOrderHandler(d.Orders, d.Tracker, d.Sessions, d.SessionRecheck, d.Log)
	og := v1.Group("/orders", signedIn)
	og.GET("", orders.Mine)
	og.GET("/:id", orders.Get)
	og.POST("/:id/cancel", orders.Cancel)
	og.GET("/:id/track", orders.Track)

	notifications := handler.NewNotificationHandler(d.Notifications)
	ng := v1.Group("/notifications", signedIn)
	ng.GET("", notifications.List)
	ng.POST("/:id/read", notifications.MarkRead)

	// --- Staff ---
	sg := v1.Group("/staff", staff)
	sg.GET("/orders", orders.List)
	sg.PUT("/orders/:id/status", orders.UpdateStatus)

	// --- Admin menu editor ---
	ag := v1.Group("/admin/menu", admin)
	ag.POST("/items", menu.CreateItem)
	ag.PUT("/items/:id", menu.UpdateItem)
	ag.DELETE("/items/:id", menu.DeleteItem)
	ag.PATCH("/items/:id/availability", menu.SetAvailability)
	ag.POST("/categories", menu.CreateCategory)
	ag.PUT("/categories/:id", menu.UpdateCategory)
	ag.DELETE("/categories/:id", menu.DeleteCategory)

	// --- Admin proxy routes (envelope responses) ---
	users := handler.NewAdminUserHandler(d.AdminUsers, d.Log.With().Str("component", "admin").Logger())
	uploads := handler.NewUploadHandler(d.Uploads, d.Log.With().Str("component", "upload").Logger())
	api := e.Group("/api", admin)
	api.GET("/admin/users", users.List)
	api.PUT("/admin/block-user", users.BlockUser)
	api.POST("/admin/block-user", users.BlockUser)
	api.POST("/upload", uploads.Upload, echomiddleware.BodyLimit(uploadBodyLimit))

	return e
}
