package server

import (
	"context"
	"math"
	"net/http"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/config"
	"gallery-storefront/internal/handler"
	"gallery-storefront/internal/logger"
	"gallery-storefront/internal/middleware"
	"gallery-storefront/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth     service.AuthService
	Catalog  service.CatalogService
	Checkout service.CheckoutService
	Payment  service.PaymentService
	Admin    service.AdminService
	Chat     service.ChatService
	Contact  service.ContactService
	Profile  service.ProfileService
}

type Server struct {
	echo            *echo.Echo
	cfg             *config.Config
	authService     service.AuthService
	authHandler     *handler.AuthHandler
	catalogHandler  *handler.CatalogHandler
	checkoutHandler *handler.CheckoutHandler
	paymentHandler  *handler.PaymentHandler
	adminHandler    *handler.AdminHandler
	chatHandler     *handler.ChatHandler
	contactHandler  *handler.ContactHandler
	profileHandler  *handler.ProfileHandler
}

func NewServer(cfg *config.Config, services *Services, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = apperror.Handler(log)

	e.Use(echomw.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAccept, middleware.ClientIDHeader},
		ExposeHeaders: []string{middleware.ClientIDHeader},
	}))
	e.Use(middleware.ClientID())

	s := &Server{
		echo:            e,
		cfg:             cfg,
		authService:     services.Auth,
		authHandler:     handler.NewAuthHandler(services.Auth),
		catalogHandler:  handler.NewCatalogHandler(services.Catalog),
		checkoutHandler: handler.NewCheckoutHandler(services.Checkout),
		paymentHandler:  handler.NewPaymentHandler(services.Payment),
		adminHandler:    handler.NewAdminHandler(services.Admin),
		chatHandler:     handler.NewChatHandler(services.Chat),
		contactHandler:  handler.NewContactHandler(services.Contact),
		profileHandler:  handler.NewProfileHandler(services.Profile),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/admin-login", s.authHandler.AdminLogin)
	auth.POST("/signup", s.authHandler.Signup)
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/logout", s.authHandler.Logout)
	auth.GET("/me", s.authHandler.Me)

	// -------- catalog & checkout --------
	api.GET("/artworks", s.catalogHandler.ListArtworks)
	api.GET("/artworks/:id", s.catalogHandler.GetArtwork)
	api.POST("/artworks/:id/checkout", s.checkoutHandler.CheckoutArtwork)
	api.GET("/exhibitions", s.catalogHandler.ListExhibitions)
	api.GET("/exhibitions/:id", s.catalogHandler.GetExhibition)
	api.POST("/exhibitions/:id/checkout", s.checkoutHandler.CheckoutExhibition)
	api.GET("/checkout/pending", s.checkoutHandler.PendingOrder)
	api.DELETE("/checkout/pending", s.checkoutHandler.DiscardPendingOrder)

	// -------- payment --------
	pay := api.Group("/payment")
	pay.POST("", s.paymentHandler.Submit)
	pay.GET("/status", s.paymentHandler.Status)
	pay.POST("/retry", s.paymentHandler.TryAgain)
	pay.POST("/cancel", s.paymentHandler.Cancel)
	pay.GET("/history", s.paymentHandler.History)
	pay.GET("/history/:checkoutRequestId", s.paymentHandler.Attempt)

	// -------- profile --------
	api.GET("/profile/orders", s.profileHandler.Orders)
	api.GET("/profile/tickets", s.profileHandler.Tickets)
	api.GET("/confirmation", s.profileHandler.Confirmation)

	// -------- contact & chat --------
	api.POST("/contact", s.contactHandler.Submit)

	chat := api.Group("/chat")
	chat.GET("", s.chatHandler.Greeting)
	limited := chat.Group("", echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: chatLimiterStore(s.cfg.Chat.RateLimit),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return middleware.ClientIDFrom(c), nil
		},
	}))
	limited.POST("", s.chatHandler.Ask)
	limited.POST("/handoff", s.chatHandler.Handoff)

	// -------- admin --------
	admin := api.Group("/admin", middleware.RequireAdmin(s.authService))
	admin.GET("/artworks", s.adminHandler.ListArtworks)
	admin.POST("/artworks", s.adminHandler.CreateArtwork)
	admin.PUT("/artworks/:id", s.adminHandler.UpdateArtwork)
	admin.DELETE("/artworks/:id", s.adminHandler.DeleteArtwork)
	admin.GET("/exhibitions", s.adminHandler.ListExhibitions)
	admin.POST("/exhibitions", s.adminHandler.CreateExhibition)
	admin.PUT("/exhibitions/:id", s.adminHandler.UpdateExhibition)
	admin.DELETE("/exhibitions/:id", s.adminHandler.DeleteExhibition)
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.GET("/tickets", s.adminHandler.ListTickets)
	admin.GET("/messages", s.adminHandler.ListMessages)
	admin.PUT("/messages/:id", s.adminHandler.UpdateMessageStatus)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// chatLimiterStore allows perSecond requests per client with a burst of at
// least one, so a rate below 1/s still lets the first request through.
func chatLimiterStore(perSecond float64) echomw.RateLimiterStore {
	return echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(perSecond),
		Burst: max(1, int(math.Ceil(perSecond))),
	})
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
