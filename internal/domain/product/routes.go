package product

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	products := r.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.POST("", h.Create)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
}
