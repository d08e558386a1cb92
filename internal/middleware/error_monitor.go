package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sarfraz-web/bechdo.in/internal/errors"
	"go.uber.org/zap"
)

type ErrorMonitor struct {
	errorCounts map[errors.ErrorCode]int
	mu          sync.RWMutex
}

func NewErrorMonitor() *ErrorMonitor {
	return &ErrorMonitor{
		errorCounts: make(map[errors.ErrorCode]int),
	}
}

func (m *ErrorMonitor) RecordError(traced *errors.TracedError) {
	m.mu.Lock()
	m.errorCounts[traced.Code]++
	m.mu.Unlock()
}

func (m *ErrorMonitor) GetErrorCounts() map[errors.ErrorCode]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[errors.ErrorCode]int)
	for code, count := range m.errorCounts {
		counts[code] = count
	}
	return counts
}

func ErrorMonitorMiddleware(monitor *ErrorMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				traced := errors.NewTracedError(e.Err, errors.ErrorContext{
					UserID: c.GetInt("user_id"),
					Path:   c.Request.URL.Path,
					Method: c.Request.Method,
				})
				monitor.RecordError(traced)

				zap.L().Error("请求处理错误",
					zap.Int("error_code", int(traced.Code)),
					zap.String("error_message", traced.Message),
					zap.Error(traced.Err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method))
			}
		}
	}
}
