package server

import (
	"context"
	"net/http"

	"shutterbook/internal/auth"
	"shutterbook/internal/booking"
	"shutterbook/internal/config"
	"shutterbook/internal/email"
	"shutterbook/internal/events"
	"shutterbook/internal/plan"
	"shutterbook/internal/schedule"
	"shutterbook/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, publisher *events.Publisher) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userRepo := user.NewRepository(db)
	planRepo := plan.NewRepository(db)
	scheduleRepo := schedule.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	bookingService := booking.NewService(bookingRepo, planRepo, userRepo, emailService, publisher)

	userHandler := user.NewHandler(userService)
	planHandler := plan.NewHandler(planRepo)
	scheduleHandler := schedule.NewHandler(scheduleRepo)
	bookingHandler := booking.NewHandler(bookingService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	// Storefront browsing needs no account.
	router.GET("/plans", planHandler.ListPlans)
	router.GET("/plans/:planID", planHandler.GetPlan)
	router.GET("/schedule", scheduleHandler.ListSchedule)
	router.GET("/schedule/:date", scheduleHandler.GetDay)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.GET("/bookings/:bookingID", bookingHandler.GetBooking)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
		protected.PUT("/bookings/:bookingID/pay", bookingHandler.PayBooking)
	}

	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/schedule", scheduleHandler.DefineSlots)
		admin.DELETE("/schedule/slots/:slotID", scheduleHandler.DeleteSlot)
		admin.POST("/plans", planHandler.CreatePlan)
		admin.GET("/plans", planHandler.ListAllPlans)
		admin.PUT("/plans/:planID", planHandler.UpdatePlan)
		admin.DELETE("/plans/:planID", planHandler.DeletePlan)
		admin.GET("/bookings", bookingHandler.ListAllBookings)
		admin.GET("/users/:userID/bookings", bookingHandler.ListUserBookings)
		admin.PUT("/bookings/:bookingID/confirm", bookingHandler.ConfirmBooking)
		admin.PUT("/bookings/:bookingID/complete", bookingHandler.CompleteBooking)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
