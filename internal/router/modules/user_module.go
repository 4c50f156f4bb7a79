package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-accounts-api/internal/interface/http"
)

// UserModule mounts the account CRUD routes under /api/users:
// GET /users, POST /users, GET|PUT|DELETE /users/:id
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("", m.Handler.List)
	users.POST("", m.Handler.Create)
	users.GET("/:id", m.Handler.Get)
	users.PUT("/:id", m.Handler.Update)
	users.DELETE("/:id", m.Handler.Delete)
}
