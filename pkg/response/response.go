package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MessageBody is the error shape for not-found, gone and server failures.
type MessageBody struct {
	Message string `json:"message"`
}

// ErrorsBody carries field violations keyed by JSON field path.
type ErrorsBody struct {
	Errors map[string]string `json:"errors"`
}

func JSON(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

func Message(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, MessageBody{Message: message})
}

func Errors(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorsBody{Errors: fields})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// InternalError hides err from the client; callers log it.
func InternalError(c *gin.Context) {
	Message(c, http.StatusInternalServerError, "internal server error")
}
