package internal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/wfh-scheduler-web/internal/config"
	"github.com/syrilster/wfh-scheduler-web/internal/jobs"
	"github.com/syrilster/wfh-scheduler-web/internal/middlewares"
	"github.com/syrilster/wfh-scheduler-web/internal/web"
	"github.com/syrilster/wfh-scheduler-web/internal/wfh"
)

//StatusRoute health check route
func StatusRoute(version string) (route config.Route) {
	route = config.Route{
		Path:    "/health",
		Method:  http.MethodGet,
		Handler: middlewares.RuntimeHealthCheck(version),
	}
	return route
}

type ServerConfig interface {
	Version() string
	BackendClient() wfh.ClientInterface
	TeamFetchConcurrency() int
	DecisionTimeout() time.Duration
	Location() *time.Location
	Today() time.Time
	AutoRejectSchedule() string
	CORSAllowedOrigins() []string
}

func SetupServer(cfg ServerConfig) (*config.Server, error) {
	basePath := fmt.Sprintf("/%v", cfg.Version())
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	service := NewService(cfg.BackendClient(), cfg.TeamFetchConcurrency(), cfg.Today, cfg.DecisionTimeout())

	server := config.NewServer(config.WithAllowedOrigins(cfg.CORSAllowedOrigins()...)).
		WithMiddleware(middlewares.RequestID).
		WithRoutes(
			"", append([]config.Route{StatusRoute(cfg.Version())}, PageRoutes(service, renderer)...)...,
		).
		WithRoutes(
			basePath,
			CalendarRoute(service),
		)

	if spec := cfg.AutoRejectSchedule(); spec != "" {
		scheduler := jobs.NewScheduler(cfg.BackendClient(), cfg.Location())
		if _, err := scheduler.ScheduleAutoReject(spec); err != nil {
			return nil, fmt.Errorf("invalid AUTO_REJECT_SCHEDULE %q: %w", spec, err)
		}
		scheduler.Start()
		server.OnShutdown(func(ctx context.Context) {
			log.Info("stopping scheduled jobs")
			scheduler.Stop(ctx)
		})
	}
	return server, nil
}
