package middleware

import (
	"net/http"
	"time"

	pkghttp "github.com/BradenHooton/searchdesk/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

const tooManyRequestsPage = `<!DOCTYPE html>
<html><head><title>Too Many Requests</title></head>
<body><h1>Too Many Requests</h1><p>Please wait a minute before trying again.</p></body></html>
`

// RateLimitByIP creates a middleware that rate limits requests by resolved client IP
func RateLimitByIP(config RateLimitConfig, ips *pkghttp.IPResolver) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyFuncs(ips.KeyByClientIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(tooManyRequestsPage))
		}),
	)
}
