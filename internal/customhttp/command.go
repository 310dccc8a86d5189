package customhttp

import (
	"net/http"

	"golang.org/x/time/rate"
)

type HTTPCommand interface {
	Do(req *http.Request) (resp *http.Response, err error)
}

type httpCommandFunc func(req *http.Request) (resp *http.Response, err error)

func (h httpCommandFunc) Do(req *http.Request) (resp *http.Response, err error) {
	return h(req)
}

type HTTPCommandBuilder struct {
	client      HTTPCommand
	middlewares []middleware
}

func New(options ...func(*HTTPCommandBuilder)) *HTTPCommandBuilder {
	builder := &HTTPCommandBuilder{
		client: http.DefaultClient,
	}

	for _, option := range options {
		option(builder)
	}
	return builder
}

func (b *HTTPCommandBuilder) Build() HTTPCommand {
	mws := append([]middleware{requestIDMiddleware(), loggingMiddleware()}, b.middlewares...)
	mw := chainMiddleware(mws...)
	return mw(b.client.Do)
}

// WithHTTPClient allows the user to supply their own http.Client
func WithHTTPClient(client HTTPCommand) func(*HTTPCommandBuilder) {
	return func(builder *HTTPCommandBuilder) {
		builder.client = client
	}
}

// WithRateLimit makes every outbound call wait for a token. A zero limit leaves calls unthrottled.
func WithRateLimit(limit rate.Limit, burst int) func(*HTTPCommandBuilder) {
	return func(builder *HTTPCommandBuilder) {
		if limit <= 0 {
			return
		}
		builder.middlewares = append(builder.middlewares, rateLimitMiddleware(rate.NewLimiter(limit, burst)))
	}
}
