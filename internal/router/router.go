package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/config"
	"github.com/healthtrack/healthtrack-api/internal/handlers"
	"github.com/healthtrack/healthtrack-api/internal/middleware"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
)

// Services are the dependencies the routes dispatch to
type Services struct {
	DB        handlers.HealthChecker
	Users     *service.UserService
	Auth      *service.AuthService
	Consents  *service.ConsentService
	Doctors   *service.DoctorService
	Records   *service.RecordService
	Emergency *service.EmergencyService
	Family    *service.FamilyService
	Audit     service.AuditRecorder
}

// SetupRouter configures all API routes
func SetupRouter(svc Services, corsCfg config.CORSConfig, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.CorrelationID(), middleware.RequestLogger(logger))
	if corsCfg.Enabled {
		router.Use(middleware.CORS(corsCfg))
	}

	healthHandler := handlers.NewHealthHandler(svc.DB)
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Auth)
	consentHandler := handlers.NewConsentHandler(svc.Consents)
	doctorHandler := handlers.NewDoctorHandler(svc.Doctors, svc.Consents)
	recordHandler := handlers.NewRecordHandler(svc.Records)
	familyHandler := handlers.NewFamilyHandler(svc.Family)
	emergencyHandler := handlers.NewEmergencyHandler(svc.Emergency)
	auditHandler := handlers.NewAuditHandler(svc.Audit, svc.Records)

	authenticate := middleware.Authenticate(svc.Auth, svc.Users, logger)
	doctorsOnly := middleware.RequireRoles(models.RoleDoctor)
	patientsOnly := middleware.RequireRoles(models.RolePatient)

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		// Public routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/emergency/:userId", emergencyHandler.GetPublic)
		api.POST("/audit/:recordId", auditHandler.Log)

		secured := api.Group("", authenticate)
		secured.GET("/me", authHandler.Me)
		secured.GET("/audit/:recordId", auditHandler.List)
		secured.POST("/emergency/:userId", emergencyHandler.Upsert)

		consent := secured.Group("/consent")
		{
			consent.POST("/request", doctorsOnly, consentHandler.RequestAccess)
			consent.GET("/pending", patientsOnly, consentHandler.ListPending)
			consent.PUT("/:consentId", patientsOnly, consentHandler.Respond)
			consent.GET("/:consentId/history", consentHandler.History)
		}

		doctor := secured.Group("/doctor", doctorsOnly)
		{
			doctor.GET("/stats", doctorHandler.Stats)
			doctor.GET("/patients", doctorHandler.SearchPatients)
			doctor.POST("/patients/:patientId/request-access", doctorHandler.RequestAccess)
			doctor.GET("/patients/:patientId/records", doctorHandler.PatientRecords)
		}

		users := secured.Group("/users/:userId")
		{
			users.GET("/records", recordHandler.List)
			users.POST("/records", recordHandler.Create)
			users.GET("/records/:recordId", recordHandler.Get)
			users.DELETE("/records/:recordId", recordHandler.Delete)

			users.GET("/family", familyHandler.List)
			users.POST("/family", familyHandler.Add)
			users.PATCH("/family/:memberId/toggle-emergency", familyHandler.ToggleEmergency)

			users.GET("/emergency", emergencyHandler.Get)
		}
	}

	return router
}
