package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type hostnameHandler struct {
	resolver HostnameResolver
}

// Resolve returns {"hostname","url"} or 404 when the hostname is not registered.
func (h *hostnameHandler) Resolve(c *gin.Context) {
	hostname := strings.ToLower(strings.TrimSpace(c.Param("hostname")))
	target, err := h.resolver.Resolve(c.Request.Context(), hostname)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"hostname": hostname, "url": target})
}

// Exists returns {"hostname","exists"}.
func (h *hostnameHandler) Exists(c *gin.Context) {
	hostname := strings.ToLower(strings.TrimSpace(c.Param("hostname")))
	exists, err := h.resolver.Exists(c.Request.Context(), hostname)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"hostname": hostname, "exists": exists})
}
