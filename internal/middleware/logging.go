package middleware

import (
	"net/http"
	"time"

	"github.com/rejdeboer/collab-server/internal/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// quietPaths are polled by probes and scrapers and only logged at debug level.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

func WithLogging(next http.Handler) http.Handler {
	l := logger.Get()
	hlogHandler := hlog.NewHandler(l)

	accessHandler := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		level := zerolog.InfoLevel
		if quietPaths[r.URL.Path] {
			level = zerolog.DebugLevel
		}

		hlog.FromRequest(r).WithLevel(level).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status_code", status).
			Int("size", size).
			Dur("elapsed_ms", duration).
			Msg("request handled")
	})

	remoteAddrHandler := hlog.RemoteAddrHandler("ip")
	userAgentHandler := hlog.UserAgentHandler("user_agent")
	requestIdHandler := hlog.RequestIDHandler("req_id", "Request-Id")

	return hlogHandler(accessHandler(remoteAddrHandler(userAgentHandler(requestIdHandler(next)))))
}
