package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/tixera/tixera/internal/types"
)

const headerRequestID = "X-Request-ID"

// RequestIDMiddleware attaches a request id to the context and response
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(headerRequestID)
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Header(headerRequestID, requestID)

	c.Next()
}
