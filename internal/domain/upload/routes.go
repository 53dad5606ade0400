package upload

import "github.com/gin-gonic/gin"

// RegisterRoutes serves stored files read-only under /uploads.
// Directory listing is disabled; unknown names answer 404.
func RegisterRoutes(r gin.IRoutes, s *Storage) {
	r.Static(URLPrefix, s.Dir())
}
