package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/logger"
	pnet "campaigntracker/internal/platform/net"
	phttp "campaigntracker/internal/platform/net/http"
)

// RecoverJSON converts panics into a JSON 500 envelope and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Str("stack", string(debug.Stack())).
				Str("path", r.URL.Path).
				Msg("panic recovered")

			status, env := phttp.ErrorEnvelope(perr.PanicErrf("panic recovered"), reqID)
			phttp.JSON(w, status, env)
		}()
		next.ServeHTTP(w, r)
	})
}
