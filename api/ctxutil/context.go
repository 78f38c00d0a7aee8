package ctxutil

import (
	"context"

	"rehoming/api/response"
	"rehoming/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID 把 gin 上的请求 ID 放进 request context，供应用层日志使用
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
