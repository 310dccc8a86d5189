package approval

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/wfh-scheduler-web/internal/model"
	"github.com/syrilster/wfh-scheduler-web/internal/wfh"
)

const (
	loadFailedMessage     = "Failed to fetch the request"
	decisionFailedMessage = "Failed to process the decision"
)

var ErrNotReady = errors.New("approval flow is not ready for a decision")

type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
	StateDecided
	StateError
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateDecided:
		return "decided"
	case StateError:
		return "error"
	default:
		return "loading"
	}
}

type Backend interface {
	GetRequest(ctx context.Context, requestID string) (*model.RequestDetails, error)
	SubmitDecision(ctx context.Context, recurring bool, decision model.Decision) error
}

// Flow drives one manager's decision on one request:
// loading -> ready -> submitting -> decided, or back to ready with Error set when the
// backend refuses the decision.
type Flow struct {
	client    Backend
	StaffID   string
	RequestID string

	State   State
	Details *model.RequestDetails
	Notes   string
	// ValidationError is set when the form was rejected locally.
	ValidationError string
	// Error is the load or submission failure shown to the manager.
	Error   string
	Decided string
}

func NewFlow(client Backend, staffID string, requestID string) *Flow {
	return &Flow{
		client:    client,
		StaffID:   staffID,
		RequestID: requestID,
		State:     StateLoading,
	}
}

// Load fetches the request. On failure the flow ends in StateError.
func (f *Flow) Load(ctx context.Context) error {
	details, err := f.client.GetRequest(ctx, f.RequestID)
	if err != nil {
		log.WithContext(ctx).WithError(err).WithField("request_id", f.RequestID).Error("failed to load request")
		f.State = StateError
		f.Error = wfh.MessageOr(err, loadFailedMessage)
		return err
	}
	f.Restore(details)
	return nil
}

// Restore makes the flow ready with details loaded earlier.
func (f *Flow) Restore(details *model.RequestDetails) {
	f.Details = details
	f.State = StateReady
	f.Error = ""
}

// Submit validates the form and posts the decision. Blank notes fail validation and
// nothing is sent. A refused decision leaves the flow ready so it can be retried.
func (f *Flow) Submit(ctx context.Context, status string, notes string) error {
	if f.State != StateReady || f.Details == nil {
		return ErrNotReady
	}
	if err := f.validate(status, notes); err != nil {
		return err
	}

	f.State = StateSubmitting
	decision := model.Decision{
		RequestID:      f.RequestID,
		DecisionStatus: status,
		DecisionNotes:  notes,
		ManagerID:      f.StaffID,
	}
	if err := f.client.SubmitDecision(ctx, f.Details.IsRecurring, decision); err != nil {
		log.WithContext(ctx).WithError(err).WithField("request_id", f.RequestID).Error("Error submitting the decision")
		f.State = StateReady
		f.Error = wfh.MessageOr(err, decisionFailedMessage)
		return err
	}

	f.State = StateDecided
	f.Decided = status
	return nil
}

// Decide validates the form, fetches the request again and submits. The endpoint is
// chosen from the backend's recurrence flag, never from details posted by the browser,
// which are only shown back to the manager.
func (f *Flow) Decide(ctx context.Context, status string, notes string) error {
	if err := f.validate(status, notes); err != nil {
		return err
	}
	if err := f.Load(ctx); err != nil {
		return err
	}
	return f.Submit(ctx, status, notes)
}

func (f *Flow) validate(status string, notes string) error {
	f.Notes = notes
	f.ValidationError = ""
	f.Error = ""

	form := DecisionForm{
		RequestID: f.RequestID,
		Status:    status,
		Notes:     strings.TrimSpace(notes),
		ManagerID: f.StaffID,
	}
	if err := ValidateDecision(form); err != nil {
		f.ValidationError = err.Error()
		return err
	}
	return nil
}

// EncodeDetails packs loaded details into an opaque form value.
func EncodeDetails(details *model.RequestDetails) (string, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeDetails(value string) (*model.RequestDetails, error) {
	if value == "" {
		return nil, errors.New("no request details in form")
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}
	details := &model.RequestDetails{}
	if err := json.Unmarshal(raw, details); err != nil {
		return nil, err
	}
	return details, nil
}
