package api

import (
	"github.com/dmarto21/finanzas-tracker/internal/api/handlers"
	"github.com/dmarto21/finanzas-tracker/internal/api/middleware"
	"github.com/dmarto21/finanzas-tracker/internal/config"
	"github.com/dmarto21/finanzas-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	services *service.Services
}

func NewServer(cfg *config.Config, services *service.Services) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:   router,
		config:   cfg,
		services: services,
	}

	server.setupRoutes()

	return server
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogger())

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(s.services.Auth, s.config)
	userHandler := handlers.NewUserHandler(s.services.User)
	categoryHandler := handlers.NewCategoryHandler(s.services.Category)
	instrumentHandler := handlers.NewInstrumentHandler(s.services.Instrument)
	periodHandler := handlers.NewPeriodHandler(s.services.Period)
	transactionHandler := handlers.NewTransactionHandler(s.services.Transaction)
	recurringHandler := handlers.NewRecurringHandler(s.services.Recurring)
	reportHandler := handlers.NewReportHandler(s.services.Report, s.services.Summary)

	// публичные эндпоинты аутентификации
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(s.services.Auth))
	{
		protected.POST("/auth/logout-all", authHandler.LogoutAll)

		// user
		protected.GET("/user", userHandler.GetCurrent)
		protected.PUT("/user", userHandler.Update)
		protected.DELETE("/user", userHandler.Delete)

		// categories
		categories := protected.Group("/categories")
		{
			categories.POST("", categoryHandler.Create)
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.GetByID)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		// payment instruments
		instruments := protected.Group("/instruments")
		{
			instruments.POST("", instrumentHandler.Create)
			instruments.GET("", instrumentHandler.List)
			instruments.GET("/:id", instrumentHandler.GetByID)
			instruments.PUT("/:id", instrumentHandler.Update)
			instruments.DELETE("/:id", instrumentHandler.Delete)
		}

		// periods
		periods := protected.Group("/periods")
		{
			periods.POST("", periodHandler.Create)
			periods.GET("", periodHandler.List)
			periods.GET("/search", periodHandler.FindByMonth)
			periods.GET("/:id", periodHandler.GetByID)
			periods.PUT("/:id", periodHandler.Update)
			periods.DELETE("/:id", periodHandler.Delete)
			periods.GET("/:id/balances", periodHandler.GetBalances)
			periods.POST("/:id/provision", recurringHandler.Provision)
			periods.GET("/:id/payments", recurringHandler.PaymentsForPeriod)
			periods.GET("/:id/summary", reportHandler.GetSummary)
		}

		// transactions
		transactions := protected.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.POST("/transfer", transactionHandler.Transfer)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		// recurring expenses and their payments
		recurring := protected.Group("/recurring-expenses")
		{
			recurring.POST("", recurringHandler.Create)
			recurring.GET("", recurringHandler.List)
			recurring.GET("/:id", recurringHandler.GetByID)
			recurring.PUT("/:id", recurringHandler.Update)
			recurring.DELETE("/:id", recurringHandler.Delete)
		}

		payments := protected.Group("/payments")
		{
			payments.GET("", recurringHandler.SearchPayments)
			payments.PUT("/:id", recurringHandler.UpdatePayment)
		}

		// monthly report
		protected.GET("/reports/monthly", reportHandler.Generate)
	}
}
