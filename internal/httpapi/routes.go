package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onboarding-records/internal/session"
)

// NewRouter wires every route of the service.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))

	router.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	router.POST("/auth/login", h.handleLogin)
	router.GET("/forms/employee", h.handleEmployeeForm)

	authed := router.Group("/", h.requireAuth())
	authed.POST("/auth/logout", h.handleLogout)
	authed.GET("/session", h.handleGetSession)
	authed.POST("/session/navigate", h.handleNavigate)

	admin := authed.Group("/", requireRole(session.RoleAdmin))
	admin.GET("/employees", h.handleListEmployees)
	admin.POST("/employees", h.handleCreateEmployee)
	admin.GET("/employees/:ref", h.handleGetEmployee)
	admin.PATCH("/employees/:ref", h.handleUpdateEmployee)
	admin.DELETE("/employees/:ref", h.handleDeleteEmployee)
	admin.POST("/employees/:ref/notify", h.handleNotifyEmployee)
	admin.GET("/employees/:ref/attachment", h.handleGetAttachment)
	admin.GET("/employees/:ref/attachment/file", h.handleDownloadAttachment)
	admin.GET("/export/employees.xlsx", h.handleExportEmployees)
	admin.POST("/import/employees", h.handleImportEmployees)
	admin.GET("/settings", h.handleGetSettings)
	admin.PUT("/settings", h.handlePutSettings)

	employee := authed.Group("/me", requireRole(session.RoleEmployee))
	employee.GET("", h.handleGetMe)
	employee.POST("/attachment", h.handleUploadAttachment)

	return router
}
