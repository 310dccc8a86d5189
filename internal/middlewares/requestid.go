package middlewares

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/wfh-scheduler-web/internal/reqid"
)

// RequestID puts the inbound X-Request-ID, or a new one, into the request context and
// echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(reqid.Header)
		if rid == "" {
			rid = reqid.New()
		}
		w.Header().Set(reqid.Header, rid)
		ctx := reqid.WithRequestID(r.Context(), rid)
		log.WithContext(ctx).WithFields(log.Fields{
			"request_id": rid,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Debug("request received")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
