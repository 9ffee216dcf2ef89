package http

import (
	"github.com/gin-gonic/gin"

	"github.com/journiv/journiv-server/internal/middleware"
	"github.com/journiv/journiv-server/internal/service"
)

// WeatherRoutes handles weather route registration.
type WeatherRoutes struct {
	handler *WeatherHandler
}

// NewWeatherRoutes creates a new WeatherRoutes instance.
func NewWeatherRoutes(weatherService service.WeatherService) *WeatherRoutes {
	return &WeatherRoutes{
		handler: NewWeatherHandler(weatherService),
	}
}

// Register registers weather routes on the given (protected) group.
func (r *WeatherRoutes) Register(rg *gin.RouterGroup) {
	weather := rg.Group("/weather")
	{
		weather.POST("/fetch", r.handler.Fetch)
	}
}

// AdminRoutes handles admin route registration.
type AdminRoutes struct {
	handler *AdminHandler
}

// NewAdminRoutes creates a new AdminRoutes instance.
func NewAdminRoutes(adminService service.AdminService) *AdminRoutes {
	return &AdminRoutes{
		handler: NewAdminHandler(adminService),
	}
}

// Register registers admin routes on the given (protected) group.
// Every route additionally requires the admin role.
func (r *AdminRoutes) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/users", r.handler.ListUsers)
		admin.POST("/users", r.handler.CreateUser)
		admin.GET("/users/:id", r.handler.GetUser)
		admin.PUT("/users/:id", r.handler.UpdateUser)
		admin.DELETE("/users/:id", r.handler.DeleteUser)
	}
}
