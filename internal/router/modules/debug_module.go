package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

// DebugModule exposes expvar metrics at /api/debug/vars.
type DebugModule struct {
	Middlewares []gin.HandlerFunc
}

func NewDebugModule(mw ...gin.HandlerFunc) *DebugModule { return &DebugModule{Middlewares: mw} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	handlers := append(append([]gin.HandlerFunc{}, m.Middlewares...), gin.WrapH(expvar.Handler()))
	rg.GET("/debug/vars", handlers...)
}
