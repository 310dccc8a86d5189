package customhttp

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/syrilster/wfh-scheduler-web/internal/reqid"
)

type middleware func(next httpCommandFunc) httpCommandFunc

func chainMiddleware(m ...middleware) middleware {
	return func(final httpCommandFunc) httpCommandFunc {
		last := final
		for i := len(m) - 1; i >= 0; i-- {
			last = m[i](last)
		}

		return func(req *http.Request) (resp *http.Response, err error) {
			return last(req)
		}
	}
}

func requestIDMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			if rid := reqid.FromContext(req.Context()); rid != "" && req.Header.Get(reqid.Header) == "" {
				req.Header.Set(reqid.Header, rid)
			}
			return next(req)
		}
	}
}

func loggingMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			start := time.Now()
			resp, err = next(req)
			fields := log.Fields{
				"method":     req.Method,
				"url":        req.URL.String(),
				"request_id": req.Header.Get(reqid.Header),
				"elapsed":    time.Since(start).String(),
			}
			if err != nil {
				log.WithContext(req.Context()).WithFields(fields).WithError(err).Debug("backend call failed")
				return resp, err
			}
			fields["status"] = resp.StatusCode
			log.WithContext(req.Context()).WithFields(fields).Debug("backend call")
			return resp, nil
		}
	}
}

func rateLimitMiddleware(limiter *rate.Limiter) middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, err
			}
			return next(req)
		}
	}
}
