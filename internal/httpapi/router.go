// Package httpapi serves hostname resolution and readiness over HTTP.
package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HostnameResolver answers hostname lookups (e.g. *hostname.Resolver).
type HostnameResolver interface {
	Exists(ctx context.Context, hostname string) (bool, error)
	Resolve(ctx context.Context, hostname string) (string, error)
}

// ReadinessChecker reports whether the service dependencies are reachable (e.g. the health server).
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// NewRouter returns the gin engine. A nil resolver leaves the hostname routes unregistered.
func NewRouter(resolver HostnameResolver, ready ReadinessChecker, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(Logger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		if ready != nil {
			if err := ready.Ready(c.Request.Context()); err != nil {
				serviceUnavailable(c, "not ready")
				return
			}
		}
		ok(c, gin.H{"status": "ok"})
	})

	if resolver != nil {
		h := &hostnameHandler{resolver: resolver}
		v1 := router.Group("/v1/hostnames")
		v1.GET("/:hostname", h.Resolve)
		v1.GET("/:hostname/exists", h.Exists)
	}
	return router
}
