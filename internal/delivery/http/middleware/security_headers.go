package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the baseline browser hardening headers. imageHosts
// are the origins logos and avatars are served from. The swagger UI is skipped because
// it needs inline scripts.
func SecurityHeadersMiddleware(imageHosts ...string) gin.HandlerFunc {
	imgSrc := "img-src 'self' data: https://*.supabase.co"
	for _, host := range imageHosts {
		if host = strings.TrimSpace(host); host != "" {
			imgSrc += " " + host
		}
	}
	csp := strings.Join([]string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		imgSrc,
		"font-src 'self'",
		"connect-src 'self' https://*.supabase.co wss:",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}, "; ")

	return func(c *gin.Context) {
		c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

		if !strings.Contains(c.Request.URL.Path, "/swagger/") {
			c.Header("Content-Security-Policy", csp)
		}

		// Authenticated responses carry account data.
		if c.GetHeader("Authorization") != "" {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
			c.Header("Pragma", "no-cache")
		}

		c.Next()
	}
}
