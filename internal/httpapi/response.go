package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workspace-control-plane/internal/platform/errs"
)

// Body is the response envelope of every HTTP endpoint.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

func serviceUnavailable(c *gin.Context, msg string) {
	c.JSON(http.StatusServiceUnavailable, Body{Error: msg})
}

// fail writes err with the HTTP status of its kind. Unknown errors are reported as "internal error".
func fail(c *gin.Context, err error) {
	c.JSON(errs.HTTPStatus(err), Body{Error: errs.Message(err)})
}
