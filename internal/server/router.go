package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/timetable-api/internal/handler"
	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/requestid"
)

// NewRouter builds the gin engine. Reads are public; mutations need an ADMIN or SUPERADMIN token and are audited.
func NewRouter(app *App) *gin.Engine {
	cfg := app.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(app.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.Metrics))

	metricsHandler := handler.NewMetricsHandler(app.Metrics, app.DB)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(app.Auth)
	catalogHandler := handler.NewCatalogHandler(app.Catalog)
	timetableHandler := handler.NewTimetableHandler(app.Timetable)
	conflictHandler := handler.NewConflictHandler(app.Conflicts)
	impactHandler := handler.NewImpactHandler(app.Impact)

	auditLog := app.Logger.Named("audit")
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(auditLog, action, resource)
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/metrics/summary", metricsHandler.Summary)

	authed := api.Group("", middleware.JWT(app.Auth))
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/token", middleware.RBAC(models.RoleSuperAdmin), audit("issue", "token"), authHandler.Issue)

	admin := api.Group("", middleware.JWT(app.Auth), middleware.RBAC(models.RoleAdmin, models.RoleSuperAdmin))

	api.GET("/faculties", catalogHandler.ListFaculties)
	api.GET("/faculties/:id", catalogHandler.GetFaculty)
	admin.POST("/faculties", audit("create", "faculty"), catalogHandler.CreateFaculty)
	admin.PUT("/faculties/:id", audit("update", "faculty"), catalogHandler.UpdateFaculty)
	admin.DELETE("/faculties/:id", audit("delete", "faculty"), catalogHandler.DeleteFaculty)

	api.GET("/courses", catalogHandler.ListCourses)
	api.GET("/courses/:id", catalogHandler.GetCourse)
	admin.POST("/courses", audit("create", "course"), catalogHandler.CreateCourse)
	admin.PUT("/courses/:id", audit("update", "course"), catalogHandler.UpdateCourse)
	admin.DELETE("/courses/:id", audit("delete", "course"), catalogHandler.DeleteCourse)

	api.GET("/sections", catalogHandler.ListSections)
	api.GET("/sections/:id", catalogHandler.GetSection)
	admin.POST("/sections", audit("create", "section"), catalogHandler.CreateSection)
	admin.PUT("/sections/:id", audit("update", "section"), catalogHandler.UpdateSection)
	admin.DELETE("/sections/:id", audit("delete", "section"), catalogHandler.DeleteSection)

	api.GET("/rooms", catalogHandler.ListRooms)
	api.GET("/rooms/:id", catalogHandler.GetRoom)
	admin.POST("/rooms", audit("create", "room"), catalogHandler.CreateRoom)
	admin.PUT("/rooms/:id", audit("update", "room"), catalogHandler.UpdateRoom)
	admin.DELETE("/rooms/:id", audit("delete", "room"), catalogHandler.DeleteRoom)

	api.GET("/timeslots", catalogHandler.ListTimeSlots)
	api.GET("/timeslots/:id", catalogHandler.GetTimeSlot)
	admin.POST("/timeslots", audit("create", "timeslot"), catalogHandler.CreateTimeSlot)
	admin.PUT("/timeslots/:id", audit("update", "timeslot"), catalogHandler.UpdateTimeSlot)
	admin.DELETE("/timeslots/:id", audit("delete", "timeslot"), catalogHandler.DeleteTimeSlot)

	api.GET("/availability", catalogHandler.ListAvailability)
	admin.PUT("/availability", audit("set", "availability"), catalogHandler.SetAvailability)
	admin.DELETE("/availability/:id", audit("delete", "availability"), catalogHandler.DeleteAvailability)

	api.GET("/timetable", timetableHandler.List)
	api.GET("/timetable/runs", timetableHandler.Runs)
	api.GET("/timetable/export", timetableHandler.Export)
	api.GET("/timetable/:id", timetableHandler.Get)
	admin.POST("/timetable/generate", audit("generate", "timetable"), timetableHandler.Generate)
	admin.DELETE("/timetable", audit("clear", "timetable"), timetableHandler.Clear)

	api.GET("/conflicts", conflictHandler.List)
	api.GET("/conflicts/export", conflictHandler.Export)
	api.GET("/conflicts/jobs/:id", conflictHandler.Job)
	admin.POST("/conflicts/detect", audit("detect", "conflicts"), conflictHandler.Detect)

	api.POST("/simulations/faculty-impact", impactHandler.FacultyImpact)
	api.POST("/simulations/room-shortage", impactHandler.RoomShortage)
	api.POST("/simulations/bulk-faculty", impactHandler.BulkFacultyImpact)

	return r
}
