package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/config"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type RouterDeps struct {
	Config       *config.Config
	Auth         AuthService
	Accounts     AccountService
	Directory    DirectoryService
	Appointments AppointmentService
	Metrics      *metrics.Collector
	Log          *zap.Logger

	// MediaDir is served under /media when images are stored locally.
	MediaDir string
}

func NewRouter(d RouterDeps) *gin.Engine {
	cfg := d.Config
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Media.MaxUploadSize

	// Recovery sits inside Logger and Metrics so recovered panics are still
	// logged and counted as 500s.
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.Metrics(d.Metrics),
		middleware.Recovery(d.Log),
		cors.New(cors.Config{
			AllowOrigins:  cfg.CORS.AllowedOrigins,
			AllowMethods:  cfg.CORS.AllowedMethods,
			AllowHeaders:  cfg.CORS.AllowedHeaders,
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        cfg.CORS.MaxAge,
		}),
	)
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		global := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
		r.Use(global.Middleware())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	if d.MediaDir != "" {
		r.Static("/media", d.MediaDir)
	}

	authLimit := middleware.PerMinute(cfg.RateLimit.AuthRequestsPerMinute).Middleware()
	maxUpload := cfg.Media.MaxUploadSize

	users := NewUserHandler(d.Auth, d.Accounts, d.Appointments, maxUpload, d.Log)
	admin := NewAdminHandler(d.Auth, d.Directory, d.Appointments, maxUpload, d.Log)
	doctors := NewDoctorHandler(d.Auth, d.Directory, d.Appointments, d.Log)

	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/register", authLimit, users.Register)
		user.POST("/login", authLimit, users.Login)

		authed := user.Group("", middleware.RequireAccount(d.Auth))
		authed.GET("/get-profile", users.GetProfile)
		authed.POST("/update-profile", users.UpdateProfile)
		authed.POST("/book-appointment", users.BookAppointment)
		authed.GET("/appointments", users.ListAppointments)
		authed.POST("/appointments", users.ListAppointments)
		authed.POST("/cancel-appointment", users.CancelAppointment)
		authed.POST("/generate-qr", users.GeneratePaymentQR)
		authed.POST("/verify-payment", users.VerifyPayment)
	}

	adm := api.Group("/admin")
	{
		adm.POST("/login", authLimit, admin.Login)

		authed := adm.Group("", middleware.RequireOperator(d.Auth))
		authed.POST("/add-doctor", admin.AddPractitioner)
		authed.GET("/all-doctors", admin.ListPractitioners)
		authed.POST("/all-doctors", admin.ListPractitioners)
		authed.POST("/delete-doctor", admin.DeletePractitioner)
		authed.POST("/update-doctor", admin.UpdatePractitioner)
		authed.POST("/change-availability", admin.ChangeAvailability)
		authed.GET("/appointments", admin.ListAppointments)
		authed.GET("/appointment/:id", admin.GetAppointment)
		authed.POST("/update-appointment", admin.UpdateAppointmentStatus)
		authed.GET("/dashboard-stats", admin.DashboardStats)
	}

	doc := api.Group("/doctor")
	{
		doc.GET("/list", doctors.List)
		doc.POST("/login", authLimit, doctors.Login)

		authed := doc.Group("", middleware.RequirePractitioner(d.Auth))
		authed.GET("/appointments", doctors.Appointments)
		authed.POST("/complete-appointment", doctors.CompleteAppointment)
		authed.POST("/cancel-appointment", doctors.CancelAppointment)
		authed.GET("/dashboard", doctors.Dashboard)
		authed.GET("/profile", doctors.Profile)
		authed.POST("/update-profile", doctors.UpdateProfile)
	}

	return r
}
