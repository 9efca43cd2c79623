package server

import (
	"log/slog"
	"net/http"

	"github.com/alkime/noteforge/internal/config"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// permissionsPolicy lets the embedded page use the microphone for browser
// recording and nothing else.
const permissionsPolicy = "microphone=(self), camera=(), geolocation=(), payment=()"

// setupSecurityMiddleware applies security headers to every response.
func setupSecurityMiddleware(router *gin.Engine, cfg *config.Config, logger *slog.Logger) {
	production := cfg.Env == config.EnvProduction

	// HSTS only behind TLS in production
	stsSeconds := int64(0)
	if production {
		stsSeconds = int64(cfg.HSTSMaxAge)
	}

	router.Use(secure.New(secure.Config{
		STSSeconds:            stsSeconds,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: config.BuildCSP(cfg.CSPMode),
	}))

	router.Use(func(c *gin.Context) {
		c.Header("Permissions-Policy", permissionsPolicy)
		c.Next()
	})

	logger.Debug("Configured security middleware",
		"hsts_enabled", production,
		"csp_mode", cfg.CSPMode,
	)
}

// envelopeBytes covers multipart part headers and the JSON wrapper around a
// data URI.
const envelopeBytes = 64 << 10

// wireBudget is the largest request body that can carry limit bytes of audio.
// A data URI inflates the audio to four bytes per three.
func wireBudget(limit int64) int64 {
	return limit/3*4 + 4 + envelopeBytes
}

// limitUploads rejects bodies that cannot fit limit bytes of audio before they
// are read and caps the reader for chunked uploads that carry no
// Content-Length. The decoded audio is checked against limit by the handler.
func (s *Server) limitUploads(limit int64) gin.HandlerFunc {
	budget := wireBudget(limit)

	return func(c *gin.Context) {
		if c.Request.ContentLength > budget {
			s.logger.Warn("upload rejected", "bytes", c.Request.ContentLength, "max_bytes", limit)
			s.tooLarge(c)
			c.Abort()

			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, budget)
		c.Next()
	}
}
