package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bookline/booking-api/internal/audit"
	"github.com/bookline/booking-api/internal/config"
	"github.com/bookline/booking-api/internal/handlers"
	"github.com/bookline/booking-api/internal/infra/cache"
	infraRepo "github.com/bookline/booking-api/internal/infra/repository"
	"github.com/bookline/booking-api/internal/metrics"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/notify"
	ucBooking "github.com/bookline/booking-api/internal/usecase/booking"
	"github.com/bookline/booking-api/internal/verification"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) {

	// ======================================================
	// INFRA
	// ======================================================
	metrics.Register()

	bookingRepo := infraRepo.NewBookingGormRepository(db)
	slotCache := cache.NewSlotCache(rdb, cfg.SlotCacheTTL)
	events := notify.NewPublisher(rdb, log)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	gate := verification.NewGate(db, verification.LogSender{Log: log}, cfg.OtpWindow)

	var limiter verification.RateLimiter
	if rdb != nil {
		limiter = verification.NewRedisLimiter(rdb, "rl")
	} else {
		limiter = verification.NewMemoryLimiter()
	}

	// ======================================================
	// USE CASES
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo, slotCache)
	admitUC := ucBooking.NewAdmitPublicBooking(bookingRepo, gate, auditDispatcher, slotCache, events)
	createOwnerUC := ucBooking.NewCreateOwnerAppointment(bookingRepo, auditDispatcher, slotCache, events)
	rescheduleUC := ucBooking.NewRescheduleAppointment(bookingRepo, auditDispatcher, slotCache, events)
	statusUC := ucBooking.NewChangeAppointmentStatus(bookingRepo, auditDispatcher, slotCache, events)
	deleteUC := ucBooking.NewDeleteAppointment(bookingRepo, auditDispatcher, slotCache)
	listByDateUC := ucBooking.NewListAppointmentsByDate(bookingRepo)
	listByMonthUC := ucBooking.NewListAppointmentsByMonth(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	businessHandler := handlers.NewBusinessHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(db, slotCache)
	blocksHandler := handlers.NewUnavailableDatesHandler(db, slotCache)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createOwnerUC,
		rescheduleUC,
		statusUC,
		deleteUC,
		listByDateUC,
		listByMonthUC,
	)

	publicHandler := handlers.NewPublicHandler(db, availabilityUC, admitUC)
	verificationHandler := handlers.NewVerificationHandler(gate)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments",
				middleware.RateLimit(limiter, "booking", cfg.BookingRateLimit, cfg.RateLimitWindow, log),
				publicHandler.CreateAppointment,
			)

			publicAPI.POST("/verification/request",
				middleware.RateLimit(limiter, "otp-request", cfg.OtpRequestRateLimit, cfg.RateLimitWindow, log),
				verificationHandler.Request,
			)
			publicAPI.POST("/verification/confirm",
				middleware.RateLimit(limiter, "otp-verify", cfg.OtpVerifyRateLimit, cfg.RateLimitWindow, log),
				verificationHandler.Confirm,
			)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/business", businessHandler.GetMe)
			secured.PATCH("/me/business", businessHandler.UpdateMe)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/availability", availabilityHandler.Get)
			secured.PUT("/me/availability", availabilityHandler.Update)

			secured.GET("/me/unavailable-dates", blocksHandler.List)
			secured.POST("/me/unavailable-dates", blocksHandler.Create)
			secured.DELETE("/me/unavailable-dates/:id", blocksHandler.Delete)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Reschedule)
			secured.PATCH("/me/appointments/:id/status", appointmentHandler.ChangeStatus)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
