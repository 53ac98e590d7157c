package routes

import (
	"time"

	"barberbook-backend/config"
	"barberbook-backend/controllers"
	"barberbook-backend/services"
	"barberbook-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	sched := config.LoadSchedule()
	store := services.NewGormStore(config.DB)
	sender := services.NewTwilioSender()

	// Use the real Verify service only when it is configured; otherwise
	// the mock gateway returns codes directly so the flow stays usable.
	var gateway services.VerifyGateway
	if twilioGateway := services.NewTwilioVerifyGateway(); twilioGateway.Configured() {
		gateway = twilioGateway
	} else {
		gateway = services.NewMockVerifyGateway()
	}
	verifier := services.NewPhoneVerificationService(gateway)

	booking := &controllers.BookingController{
		Flows:        services.NewFlowManager(store, verifier, sched, time.Now),
		Orchestrator: services.NewGuestBookingOrchestrator(store, sender),
		Store:        store,
		Sched:        sched,
		Now:          time.Now,
	}
	calendar := &controllers.CalendarController{
		Store: store,
		Sched: sched,
		Now:   time.Now,
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public booking surface: browsing and the guest flow need no account
	public := r.Group("/public")
	public.Use(utils.OptionalAuthMiddleware())
	{
		public.GET("/barbers", controllers.GetBarbers)
		public.GET("/services", controllers.GetServices)
		public.GET("/availability", booking.GetAvailability)
		public.GET("/bookings/lookup", booking.LookupBooking)

		flows := public.Group("/booking-flows")
		{
			flows.POST("", booking.StartFlow)
			flows.GET("/:id", booking.GetFlow)
			flows.DELETE("/:id", booking.AbandonFlow)
			flows.POST("/:id/back", booking.FlowBack)
			flows.POST("/:id/barber", booking.FlowSelectBarber)
			flows.POST("/:id/service", booking.FlowSelectService)
			flows.POST("/:id/slot", booking.FlowSelectSlot)
			flows.POST("/:id/guest", booking.FlowGuestInfo)
			flows.POST("/:id/verify/send", booking.FlowSendCode)
			flows.POST("/:id/verify/check", booking.FlowCheckCode)
			flows.POST("/:id/notes", booking.FlowNotes)
			flows.POST("/:id/confirm", booking.FlowConfirm)
		}
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Barber routes
		barbers := api.Group("/barbers")
		{
			barbers.POST("", controllers.CreateBarber)
			barbers.GET("", controllers.GetBarbers)
			barbers.GET("/:id", controllers.GetBarber)
			barbers.PUT("/:id", controllers.UpdateBarber)
			barbers.DELETE("/:id", controllers.DeleteBarber)

			barbers.POST("/:id/holidays", controllers.CreateHoliday)
			barbers.GET("/:id/holidays", controllers.GetHolidays)
			barbers.DELETE("/:id/holidays/:holidayId", controllers.DeleteHoliday)
		}

		// Service routes
		servicesGroup := api.Group("/services")
		{
			servicesGroup.POST("", controllers.CreateService)
			servicesGroup.GET("", controllers.GetServices)
			servicesGroup.GET("/:id", controllers.GetService)
			servicesGroup.PUT("/:id", controllers.UpdateService)
			servicesGroup.DELETE("/:id", controllers.DeleteService)
		}

		// Calendar routes
		api.GET("/calendar", calendar.GetDay)
		api.POST("/calendar/blocks", calendar.CreateBlock)
		api.PUT("/bookings/:id/reschedule", calendar.RescheduleBooking)
		api.PUT("/bookings/:id/cancel", calendar.CancelBooking)
	}

	return r
}
