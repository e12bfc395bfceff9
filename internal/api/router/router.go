package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"od-portal/backend/config"
	"od-portal/backend/internal/api/handler"
	"od-portal/backend/internal/api/middleware"
	"od-portal/backend/pkg/jwt"
	"od-portal/backend/pkg/redis"
)

// maxBodyBytes covers the largest accepted upload (ICS import)
const maxBodyBytes = 4 << 20

// Setup builds the gin engine
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "database": "up", "redis": "disabled"}
		code := http.StatusOK

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["status"], status["database"] = "degraded", "down"
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			status["redis"] = "up"
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "down"
			}
		}
		c.JSON(code, status)
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		staff := middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleTutor)
		admin := middleware.RoleAuth(jwt.RoleAdmin)
		student := middleware.RoleAuth(jwt.RoleStudent)

		// term calendar
		v1.GET("/batches", h.Calendar.ListBatches)
		batches := v1.Group("/batches/:batch/semesters")
		{
			batches.GET("", h.Calendar.Overview)
			batches.GET("/active", h.Calendar.GetActiveSemester)
			batches.GET("/:semester/range", h.Calendar.GetDateRange)
			batches.PUT("/:semester", admin, h.Calendar.UpdateSchedule)
		}

		// exception days
		exceptionDays := v1.Group("/exception-days")
		{
			exceptionDays.GET("", h.ExceptionDay.List)
			exceptionDays.GET("/check", h.ExceptionDay.Check)
			exceptionDays.GET("/calendar.ics", h.ExceptionDay.CalendarFeed)
			exceptionDays.POST("", admin, h.ExceptionDay.Create)
			exceptionDays.POST("/import", admin, h.ExceptionDay.Import)
			exceptionDays.DELETE("/:id", admin, h.ExceptionDay.Delete)
		}

		// leave / OD intake
		requests := v1.Group("/requests", student)
		{
			requests.POST("/leave", h.Request.CreateLeave)
			requests.POST("/od", h.Request.CreateOD)
			requests.GET("/me", h.Request.ListMine)
		}

		// attendance and reports
		v1.GET("/attendance/daily", staff, h.Attendance.Daily)
		v1.GET("/reports/attendance", staff,
			middleware.RateLimit(rdb, cfg.Report.RateLimit, cfg.Report.RateWindow),
			h.Report.Download)
	}

	return r
}
