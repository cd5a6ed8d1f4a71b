package v1

import (
	"github.com/gin-gonic/gin"

	"medistock/internal/infrastructure/http/v1/middleware"
)

// CatalogRoutes is the endpoint set every catalog handler provides.
type CatalogRoutes interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// registerCatalogRoutes wires standard CRUD routes for a catalog.
// Reads are open to any authenticated user; writes require one of
// the given roles.
func registerCatalogRoutes(group *gin.RouterGroup, h CatalogRoutes, writeRoles ...string) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	write := group.Group("")
	if len(writeRoles) > 0 {
		write.Use(middleware.RequireRole(writeRoles...))
	}
	write.POST("", h.Create)
	write.PUT("/:id", h.Update)
	write.DELETE("/:id", h.Delete)
	write.PATCH("/:id/deletion-mark", h.SetDeletionMark)
}
