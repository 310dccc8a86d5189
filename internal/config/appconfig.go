package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/syrilster/wfh-scheduler-web/internal/customhttp"
	"github.com/syrilster/wfh-scheduler-web/internal/wfh"
)

type ApplicationConfig struct {
	envValues *envConfig
	client    wfh.ClientInterface
	location  *time.Location
}

//Version returns application version
func (cfg *ApplicationConfig) Version() string {
	return cfg.envValues.Version
}

//ServerPort returns the port no to listen for requests
func (cfg *ApplicationConfig) ServerPort() int {
	return cfg.envValues.ServerPort
}

//BackendURL returns the base URL of the WFH backend
func (cfg *ApplicationConfig) BackendURL() string {
	return cfg.envValues.BackendURL
}

//BackendClient returns the WFH backend client
func (cfg *ApplicationConfig) BackendClient() wfh.ClientInterface {
	return cfg.client
}

//TeamFetchConcurrency bounds the concurrent team schedule fetches per week
func (cfg *ApplicationConfig) TeamFetchConcurrency() int {
	return cfg.envValues.TeamFetchConcurrency
}

//DecisionTimeout bounds a decision submission once it has started
func (cfg *ApplicationConfig) DecisionTimeout() time.Duration {
	return time.Duration(cfg.envValues.DecisionTimeoutSeconds) * time.Second
}

//Location is where "today" is evaluated
func (cfg *ApplicationConfig) Location() *time.Location {
	return cfg.location
}

//Today returns the current date in the configured location
func (cfg *ApplicationConfig) Today() time.Time {
	return time.Now().In(cfg.location)
}

//AutoRejectSchedule returns the cron spec of the auto-reject job, empty when disabled
func (cfg *ApplicationConfig) AutoRejectSchedule() string {
	return cfg.envValues.AutoRejectSchedule
}

//CORSAllowedOrigins returns the origins allowed to call the server
func (cfg *ApplicationConfig) CORSAllowedOrigins() []string {
	return cfg.envValues.CORSAllowedOrigins
}

//NewApplicationConfig loads config values from environment and initialises config
func NewApplicationConfig() (*ApplicationConfig, error) {
	envValues := NewEnvironmentConfig()
	configureLogging(envValues)

	if _, err := url.ParseRequestURI(envValues.BackendURL); err != nil {
		return nil, fmt.Errorf("invalid BACKEND_URL %q: %w", envValues.BackendURL, err)
	}
	location, err := time.LoadLocation(envValues.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", envValues.Timezone, err)
	}

	httpCommand := NewHTTPCommand(envValues)
	return &ApplicationConfig{
		envValues: envValues,
		client:    wfh.NewClient(envValues.BackendURL, httpCommand),
		location:  location,
	}, nil
}

// NewHTTPCommand returns the HTTP client used for backend calls
func NewHTTPCommand(envValues *envConfig) customhttp.HTTPCommand {
	httpCommand := customhttp.New(
		customhttp.WithHTTPClient(&http.Client{Timeout: time.Duration(envValues.BackendTimeoutSeconds) * time.Second}),
		customhttp.WithRateLimit(rate.Limit(envValues.BackendRateLimit), envValues.BackendRateBurst),
	).Build()

	return httpCommand
}

func configureLogging(envValues *envConfig) {
	log.SetOutput(os.Stdout)
	if strings.EqualFold(envValues.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(envValues.LogLevel)
	if err != nil {
		log.WithError(err).Warnf("unknown LOG_LEVEL %q, using info", envValues.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
