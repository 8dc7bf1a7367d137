package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup is a set of API routes mounted under /api.
type RouteGroup interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

var (
	_ RouteGroup = (*ProductHandler)(nil)
	_ RouteGroup = (*HSCodeHandler)(nil)
	_ RouteGroup = (*PackingListHandler)(nil)
)

// apiRoutes returns the route groups of the configured services.
func apiRoutes(cfg *RouterConfig) []RouteGroup {
	var groups []RouteGroup
	if cfg.ProductService != nil {
		groups = append(groups, NewProductHandler(cfg.ProductService))
	}
	if cfg.HSCodeService != nil {
		groups = append(groups, NewHSCodeHandler(cfg.HSCodeService))
	}
	if cfg.PackingListService != nil {
		groups = append(groups, NewPackingListHandler(cfg.PackingListService))
	}
	return groups
}
