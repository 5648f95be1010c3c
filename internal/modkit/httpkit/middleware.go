package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"campaigntracker/internal/platform/config"
	"campaigntracker/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins []string
	Timeout     time.Duration
	SlowLog     time.Duration
}

// StackFromConfig reads CORS_ORIGINS, REQUEST_TIMEOUT and SLOW_LOG from cfg
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		CORSOrigins: cfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		Timeout:     cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowLog:     cfg.MayDuration("SLOW_LOG", 500*time.Millisecond),
	}
}

// CommonStack returns the baseline middleware slice for the versioned api
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowLog}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(o.Timeout),
	}
}
