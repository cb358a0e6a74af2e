package handlers

import (
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	appLogger "github.com/cristianadrielbraun/qrdesigner/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger adds a request ID to the context and logs request/response info
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constant.HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		ctx := appLogger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(constant.HeaderRequestID, requestID)

		appLogger.CtxDebug(ctx, constant.MsgRequestReceived, appLogger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Data: map[string]interface{}{
				constant.DataMethod:     c.Request.Method,
				constant.DataPath:       c.Request.URL.Path,
				constant.DataRemoteAddr: c.ClientIP(),
				constant.DataUserAgent:  c.Request.UserAgent(),
			},
		})

		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		statusCode := c.Writer.Status()
		logFunc := appLogger.CtxInfo
		if statusCode >= 400 && statusCode < 500 {
			logFunc = appLogger.CtxWarn
		} else if statusCode >= 500 {
			logFunc = appLogger.CtxError
		}

		logFunc(ctx, constant.MsgRequestCompleted, appLogger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Data: map[string]interface{}{
				constant.DataStatus:  statusCode,
				constant.DataLatency: latency.String(),
				constant.DataMethod:  c.Request.Method,
				constant.DataPath:    c.Request.URL.Path,
				constant.DataSize:    c.Writer.Size(),
			},
		})
	}
}
