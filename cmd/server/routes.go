package main

import (
	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/handlers"
	"github.com/nvallee/timetracker/backend/internal/middleware"
	"github.com/nvallee/timetracker/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	authLimiter := middleware.NewRateLimiter(5, 10)

	healthHandler := handlers.NewHealthHandler(svc.store)
	r.GET("/health", healthHandler.CheckHealth)

	authHandler := handlers.NewAuthHandler(svc.store, svc.cfg)
	userHandler := handlers.NewUserHandler(svc.store)
	projectHandler := handlers.NewProjectHandler(svc.store)
	taskHandler := handlers.NewTaskHandler(svc.store)
	timeEntryHandler := handlers.NewTimeEntryHandler(svc.store)
	employeeHandler := handlers.NewEmployeeHandler(svc.store)
	organizationHandler := handlers.NewOrganizationHandler(svc.store)
	dashboardHandler := handlers.NewDashboardHandler(svc.store)

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", authHandler.GetCurrentUser)
			protected.POST("/auth/logout", authHandler.Logout)

			// Admin user management
			protected.GET("/admin/users", userHandler.List)
			protected.GET("/admin/users/unlinked", userHandler.ListUnlinked)
			protected.PUT("/admin/users/:id/role", userHandler.UpdateRole)

			// Dashboard and reports
			protected.GET("/dashboard/stats", dashboardHandler.GetStats)
			protected.GET("/dashboard/breakdown", dashboardHandler.GetBreakdown)
			protected.GET("/dashboard/departments", dashboardHandler.GetDepartmentSummary)
			protected.GET("/dashboard/recent", dashboardHandler.GetRecentActivity)

			// Projects
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:id", projectHandler.GetByID)
			protected.POST("/projects", projectHandler.Create)
			protected.PUT("/projects/:id", projectHandler.Update)
			protected.DELETE("/projects/:id", projectHandler.Delete)
			protected.GET("/projects/:id/time-entries", projectHandler.TimeEntries)

			// Project assignments
			protected.GET("/projects/:id/employees", employeeHandler.ListForProject)
			protected.POST("/projects/:id/employees", employeeHandler.AssignToProject)
			protected.DELETE("/projects/:id/employees/:employeeId", employeeHandler.RemoveFromProject)

			// Tasks
			protected.GET("/tasks", taskHandler.List)
			protected.GET("/tasks/:id", taskHandler.GetByID)
			protected.POST("/tasks", taskHandler.Create)
			protected.PUT("/tasks/:id", taskHandler.Update)
			protected.DELETE("/tasks/:id", taskHandler.Delete)
			protected.POST("/tasks/:id/clone", taskHandler.Clone)

			// Time entries
			protected.GET("/time-entries", timeEntryHandler.List)
			protected.GET("/time-entries/:id", timeEntryHandler.GetByID)
			protected.POST("/time-entries", timeEntryHandler.Create)
			protected.PUT("/time-entries/:id", timeEntryHandler.Update)
			protected.DELETE("/time-entries/:id", timeEntryHandler.Delete)

			// Employees
			protected.GET("/employees", employeeHandler.List)
			protected.GET("/employees/:id", employeeHandler.GetByID)
			protected.POST("/employees", employeeHandler.Create)
			protected.PUT("/employees/:id", employeeHandler.Update)
			protected.DELETE("/employees/:id", employeeHandler.Delete)
			protected.POST("/employees/:id/link", employeeHandler.LinkUser)

			// Organizations and departments
			protected.GET("/organizations", organizationHandler.List)
			protected.GET("/organizations/:id", organizationHandler.GetByID)
			protected.POST("/organizations", organizationHandler.Create)
			protected.PUT("/organizations/:id", organizationHandler.Update)
			protected.DELETE("/organizations/:id", organizationHandler.Delete)
			protected.GET("/departments", organizationHandler.ListDepartments)
			protected.GET("/departments/:id", organizationHandler.GetDepartment)
			protected.POST("/departments", organizationHandler.CreateDepartment)
			protected.PUT("/departments/:id", organizationHandler.UpdateDepartment)
			protected.DELETE("/departments/:id", organizationHandler.DeleteDepartment)
			protected.PUT("/departments/:id/manager", organizationHandler.AssignManager)
		}
	}
}
