package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

// Server defines the server struct
type Server struct {
	router         *mux.Router
	allowedOrigins []string
	onShutdown     []func(ctx context.Context)
}

type ServerConfigOption func(server *Server)

// WithAllowedOrigins sets the CORS origins, "*" by default.
func WithAllowedOrigins(origins ...string) ServerConfigOption {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

//NewServer creates a new server
func NewServer(options ...ServerConfigOption) *Server {
	s := &Server{
		router:         mux.NewRouter().StrictSlash(true),
		allowedOrigins: []string{"*"},
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

func (s *Server) WithRoutes(basePath string, routes ...Route) *Server {
	sub := s.router.PathPrefix(basePath).Subrouter()
	for _, route := range routes {
		sub.HandleFunc(route.Path, route.Handler).Methods(route.Method)
		log.WithFields(map[string]interface{}{
			"method": route.Method,
			"path":   fmt.Sprintf("%s%s", basePath, route.Path),
		}).Infof("registered path")
	}
	return s
}

// WithMiddleware applies mw to every route.
func (s *Server) WithMiddleware(mw ...mux.MiddlewareFunc) *Server {
	s.router.Use(mw...)
	return s
}

// OnShutdown registers fn to run while the server shuts down.
func (s *Server) OnShutdown(fn func(ctx context.Context)) *Server {
	s.onShutdown = append(s.onShutdown, fn)
	return s
}

// Handler returns the full handler chain: recovery, access log, CORS, router.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedHeaders:   []string{"Access-Control-Allow-Origin", "Content-Type", "Origin", "Accept-Encoding", "Accept-Language", "Authorization", "X-Request-ID"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
	})
	handler := c.Handler(s.router)
	handler = handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), handler)
	handler = handlers.ProxyHeaders(handler)
	return handlers.RecoveryHandler(handlers.RecoveryLogger(log.StandardLogger()), handlers.PrintRecoveryStack(true))(handler)
}

//Start the server on the defined port and block until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string, port int) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%v", addr, port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, fn := range s.onShutdown {
			fn(shutdownCtx)
		}
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
