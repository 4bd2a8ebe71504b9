package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	contextKeyAddress   = "address"
	contextKeyRequestID = "request_id"

	headerRequestID = "X-Request-ID"
)

// AuthMiddleware validates bearer tokens and stores the caller address.
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: "Authorization header required",
				Code:  "UNAUTHENTICATED",
			})
			return
		}

		// "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: "Invalid authorization header format",
				Code:  "UNAUTHENTICATED",
			})
			return
		}

		claims, err := s.authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "Invalid or expired token",
				Code:    "UNAUTHENTICATED",
				Details: err.Error(),
			})
			return
		}

		c.Set(contextKeyAddress, claims.Address)
		c.Next()
	}
}

const (
	rateLimitMaxClients = 10000
	rateLimitClientTTL  = 10 * time.Minute
)

// clientLimiters hands out one token bucket per client IP. A bucket idle for ttl is
// dropped, and past size clients the least recently seen is evicted.
type clientLimiters struct {
	mu       sync.Mutex
	rps      int
	limiters *expirable.LRU[string, *rate.Limiter]
}

func newClientLimiters(rps, size int, ttl time.Duration) *clientLimiters {
	return &clientLimiters{
		rps:      rps,
		limiters: expirable.NewLRU[string, *rate.Limiter](size, nil, ttl),
	}
}

func (l *clientLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), l.rps*2)
	}
	l.limiters.Add(ip, limiter)
	return limiter
}

// RateLimitMiddleware limits each client IP to rps requests per second with a burst of
// twice that.
func RateLimitMiddleware(rps int) gin.HandlerFunc {
	return rateLimit(newClientLimiters(rps, rateLimitMaxClients, rateLimitClientTTL))
}

func rateLimit(limiters *clientLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Rate limit exceeded",
				Code:  "RATE_LIMIT",
			})
			return
		}

		c.Next()
	}
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if query := c.Request.URL.RawQuery; query != "" {
			path = path + "?" + query
		}

		c.Next()

		status := c.Writer.Status()
		keyvals := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
			"request_id", c.GetString(contextKeyRequestID),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", keyvals...)
		case status >= http.StatusBadRequest:
			logger.Info("request", keyvals...)
		default:
			logger.Debug("request", keyvals...)
		}
	}
}

// RequestIDMiddleware propagates X-Request-ID, generating one when absent.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(contextKeyRequestID, requestID)
		c.Writer.Header().Set(headerRequestID, requestID)
		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// RequestSizeLimitMiddleware caps request bodies at maxBytes.
func RequestSizeLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: "Request body too large",
				Code:  "PAYLOAD_TOO_LARGE",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
