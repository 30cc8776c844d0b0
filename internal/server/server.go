package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"orderflow/internal/config"
	"orderflow/internal/handler"
	authmw "orderflow/internal/middleware"
	"orderflow/internal/service"
)

type Server struct {
	echo              *echo.Echo
	jwtSecret         string
	paymentHandler    *handler.PaymentHandler
	mfsHandler        *handler.MFSHandler
	automationHandler *handler.AutomationHandler
}

func NewServer(
	cfg *config.Config,
	checkoutService service.CheckoutService,
	manualService service.ManualPaymentService,
	automationService service.AutomationService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:              e,
		jwtSecret:         cfg.Auth.JWTSecret,
		paymentHandler:    handler.NewPaymentHandler(checkoutService, cfg.Payment),
		mfsHandler:        handler.NewMFSHandler(manualService),
		automationHandler: handler.NewAutomationHandler(automationService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	admin := authmw.AdminAuth(s.jwtSecret)

	// -------- gateway rail --------
	payment := api.Group("/payment")
	payment.POST("/init", s.paymentHandler.Init)
	payment.POST("/success/:reference", s.paymentHandler.Success)
	payment.POST("/fail/:reference", s.paymentHandler.Fail)
	payment.POST("/cancel/:reference", s.paymentHandler.Cancel)

	// -------- manual rail --------
	mfs := api.Group("/mfs")
	mfs.POST("/init", s.mfsHandler.Init)
	mfs.GET("/orders", s.mfsHandler.ListOrders, admin)
	mfs.PATCH("/orders/:id", s.mfsHandler.Decide, admin)

	// -------- automation subscriptions --------
	automations := api.Group("/automations", admin)
	automations.GET("", s.automationHandler.List)
	automations.POST("", s.automationHandler.Create)
	automations.PUT("/:id", s.automationHandler.Update)
	automations.DELETE("/:id", s.automationHandler.Delete)
	automations.POST("/:id/test", s.automationHandler.Test)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
