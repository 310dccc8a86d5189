package middlewares

import (
	"net/http"

	"github.com/syrilster/wfh-scheduler-web/internal/util"
)

type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

//RuntimeHealthCheck reports the server is up. It never calls the backend.
func RuntimeHealthCheck(version string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WithBodyAndStatus(HealthStatus{Status: "All OK", Version: version}, http.StatusOK, w)
	}
}
