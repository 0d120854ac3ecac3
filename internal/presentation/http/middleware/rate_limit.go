package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/dto"
	"github.com/tillpoint/tillpoint-api/pkg/apperror"
	"golang.org/x/time/rate"
)

// RateLimit throttles requests per tenant. It must be mounted after Auth
// so the tenant id is on the context; requests without one are keyed by
// client IP. Limiters are kept for the process lifetime; the tenant
// cardinality is small enough that eviction is not worth it.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var limiters sync.Map

	return func(c *gin.Context) {
		key := c.ClientIP()
		if v, ok := c.Get(ContextTenantID); ok {
			if tenantID, ok := v.(uuid.UUID); ok {
				key = "tenant:" + tenantID.String()
			}
		}

		v, _ := limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(rps), burst))
		limiter := v.(*rate.Limiter)

		if !limiter.Allow() {
			dto.Error(c, &apperror.AppError{
				Code:    http.StatusTooManyRequests,
				Kind:    apperror.KindForbidden,
				Message: "Too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
