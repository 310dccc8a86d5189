package wfh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/wfh-scheduler-web/internal/customhttp"
	"github.com/syrilster/wfh-scheduler-web/internal/model"
)

type ClientInterface interface {
	GetRequest(ctx context.Context, requestID string) (*model.RequestDetails, error)
	SubmitDecision(ctx context.Context, recurring bool, decision model.Decision) error
	GetManagers(ctx context.Context) (model.DepartmentManagers, error)
	GetTeamSchedule(ctx context.Context, managerID int, startDate string, endDate string) (*model.TeamSchedule, error)
	GetPendingRequests(ctx context.Context, staffID string) (*model.PendingRequests, error)
	AutoReject(ctx context.Context) (*model.AutoRejectResponse, error)
}

func NewClient(endpoint string, c customhttp.HTTPCommand) *client {
	return &client{
		URL:         endpoint,
		HTTPCommand: c,
	}
}

type client struct {
	URL         string
	HTTPCommand customhttp.HTTPCommand
}

func (c *client) GetRequest(ctx context.Context, requestID string) (*model.RequestDetails, error) {
	contextLogger := log.WithContext(ctx)
	contextLogger.Info("Fetching WFH request: ", requestID)

	response := &model.RequestDetails{}
	if err := c.call(ctx, "GetRequest", http.MethodGet, c.buildRequestEndpoint(requestID), nil, response); err != nil {
		return nil, err
	}
	return response, nil
}

// SubmitDecision posts the decision to the recurring endpoint when the request is a series.
func (c *client) SubmitDecision(ctx context.Context, recurring bool, decision model.Decision) error {
	contextLogger := log.WithContext(ctx)
	payload, err := json.Marshal(decision)
	if err != nil {
		return err
	}

	endpoint := c.buildApproveEndpoint()
	if recurring {
		endpoint = c.buildApproveRecurringEndpoint()
	}
	contextLogger.WithFields(log.Fields{
		"request_id": decision.RequestID,
		"status":     decision.DecisionStatus,
		"recurring":  recurring,
	}).Info("Submitting decision")

	return c.call(ctx, "SubmitDecision", http.MethodPost, endpoint, payload, nil)
}

func (c *client) GetManagers(ctx context.Context) (model.DepartmentManagers, error) {
	var response model.DepartmentManagers
	if err := c.call(ctx, "GetManagers", http.MethodGet, c.buildManagersEndpoint(), nil, &response); err != nil {
		return nil, err
	}
	if response == nil {
		response = model.DepartmentManagers{}
	}
	return response, nil
}

func (c *client) GetTeamSchedule(ctx context.Context, managerID int, startDate string, endDate string) (*model.TeamSchedule, error) {
	response := &model.TeamSchedule{}
	err := c.call(ctx, "GetTeamSchedule", http.MethodGet, c.buildTeamScheduleEndpoint(managerID, startDate, endDate), nil, response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) GetPendingRequests(ctx context.Context, staffID string) (*model.PendingRequests, error) {
	response := &model.PendingRequests{}
	if err := c.call(ctx, "GetPendingRequests", http.MethodGet, c.buildPendingEndpoint(staffID), nil, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) AutoReject(ctx context.Context) (*model.AutoRejectResponse, error) {
	response := &model.AutoRejectResponse{}
	if err := c.call(ctx, "AutoReject", http.MethodGet, c.buildAutoRejectEndpoint(), nil, response); err != nil {
		return nil, err
	}
	return response, nil
}

// call sends one request and decodes a 2xx body into out when out is non-nil.
func (c *client) call(ctx context.Context, name string, method string, endpoint string, payload []byte, out interface{}) error {
	contextLogger := log.WithContext(ctx)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpRequest, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	httpRequest.Header.Set("Accept", "application/json")
	if payload != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPCommand.Do(httpRequest)
	if err != nil {
		contextLogger.WithError(err).Errorf("there was an error calling the backend API (%s)", name)
		return err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			contextLogger.WithError(err).Warn("error closing backend response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		contextLogger.WithError(err).Errorf("error reading backend API resp body (%s)", name)
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		contextLogger.Infof("status returned from backend service (%s) %s", name, resp.Status)
		return newAPIError(name, resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		contextLogger.WithError(err).Errorf("there was an error un marshalling the backend API resp (%s)", name)
		return fmt.Errorf("there was an error un marshalling the backend API resp. %w", err)
	}
	return nil
}

func (c *client) buildRequestEndpoint(requestID string) string {
	return c.URL + "/api/request/" + url.PathEscape(requestID)
}

func (c *client) buildApproveEndpoint() string {
	return c.URL + "/api/approve"
}

func (c *client) buildApproveRecurringEndpoint() string {
	return c.URL + "/api/approve_recurring"
}

func (c *client) buildManagersEndpoint() string {
	return c.URL + "/api/managers"
}

func (c *client) buildTeamScheduleEndpoint(managerID int, startDate string, endDate string) string {
	query := url.Values{}
	query.Set("start_date", startDate)
	query.Set("end_date", endDate)
	return c.URL + "/api/manager/" + strconv.Itoa(managerID) + "/team_schedule?" + query.Encode()
}

func (c *client) buildPendingEndpoint(staffID string) string {
	return c.URL + "/api/" + url.PathEscape(staffID) + "/pending"
}

func (c *client) buildAutoRejectEndpoint() string {
	return c.URL + "/api/auto-reject"
}
