package common

// Request, Response, Mediator, and ContainerLogger are declared locally in
// mediator.go and logger.go; this file only re-exports the packages that
// don't have a local equivalent.

import (
	"github.com/nullpilot/voyager/internal/application/auth"
	"github.com/nullpilot/voyager/internal/application/ship/dtos"
)

// Ship DTO types - re-exported for convenience
type (
	RouteSegmentDTO = dtos.RouteSegmentDTO
	ShipRouteDTO    = dtos.ShipRouteDTO
)

// Auth functions - re-exported for convenience
var (
	WithPlayerToken        = auth.WithPlayerToken
	PlayerTokenFromContext = auth.PlayerTokenFromContext
	PlayerTokenMiddleware  = auth.PlayerTokenMiddleware
)

// Ship DTO functions - re-exported for convenience
var (
	RouteSegmentToDTO = dtos.RouteSegmentToDTO
)
