package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/metrics"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/validation"
)

// Mutation is one admin action against a record.
type Mutation struct {
	Resource domain.Resource
	Action   domain.Action
	ID       string
	// ParentID is the owning deal for coupon creates.
	ParentID  string
	Reason    string
	Confirmed bool
	// Payload is the input struct for create and update actions.
	Payload any
	Image   *domain.Upload
	// Admin is recorded in the journal.
	Admin string
}

// Outcome is what the admin is told after a dispatch.
type Outcome struct {
	Succeeded bool
	Message   string
}

// Dispatcher executes mutations against the society API. Each dispatch is a
// single round trip; the list is refreshed afterwards only on success.
type Dispatcher struct {
	client  *societyapi.Client
	journal storage.Journal
	log     logrus.FieldLogger
}

// NewDispatcher creates a dispatcher. journal may be nil.
func NewDispatcher(client *societyapi.Client, journal storage.Journal, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Dispatcher{client: client, journal: journal, log: log}
}

// Dispatch runs m. Reason, confirmation and payload checks happen before any
// network call. On success refresh is called exactly once; it may be nil.
func (d *Dispatcher) Dispatch(ctx context.Context, m Mutation, refresh func()) (Outcome, error) {
	info, ok := Lookup(m.Resource, m.Action)
	if !ok {
		return Outcome{Message: "This action is not available"},
			fmt.Errorf("%w: %s on %s", domain.ErrUnknownAction, m.Action, m.Resource)
	}
	log := d.log.WithFields(logrus.Fields{"resource": m.Resource, "action": m.Action, "id": m.ID})

	if err := preflight(info, m); err != nil {
		log.WithError(err).Debug("mutation rejected before dispatch")
		d.record(ctx, log, m, domain.OutcomeRejected, err.Error())
		metrics.ObserveMutation(string(m.Resource), string(m.Action), domain.OutcomeRejected)
		return Outcome{Message: preflightMessage(err)}, err
	}

	if err := info.call(ctx, d.client, m); err != nil {
		msg := domain.ServerMessage(err)
		if msg == "" {
			msg = info.FailureMessage()
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			msg = "Your session has expired. Please log in again."
		}
		log.WithError(err).Warn("mutation failed")
		d.record(ctx, log, m, domain.OutcomeFailed, msg)
		metrics.ObserveMutation(string(m.Resource), string(m.Action), domain.OutcomeFailed)
		return Outcome{Message: msg}, err
	}

	log.Info("mutation succeeded")
	d.record(ctx, log, m, domain.OutcomeSucceeded, "")
	metrics.ObserveMutation(string(m.Resource), string(m.Action), domain.OutcomeSucceeded)
	if refresh != nil {
		refresh()
	}
	return Outcome{Succeeded: true, Message: info.SuccessMessage()}, nil
}

func preflight(info ActionInfo, m Mutation) error {
	if info.NeedsReason {
		if err := validation.Reason(m.Reason); err != nil {
			return err
		}
	}
	if info.Destructive && !m.Confirmed {
		return domain.ErrConfirmationRequired
	}
	if info.NeedsPayload {
		if m.Payload == nil {
			return fmt.Errorf("%w: missing input", domain.ErrInvalidInput)
		}
		if err := validation.Struct(m.Payload); err != nil {
			return err
		}
	}
	if m.Image != nil {
		if _, err := societyapi.ValidateImage(m.Image); err != nil {
			return err
		}
	}
	return nil
}

func preflightMessage(err error) string {
	var verrs validation.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrReasonRequired):
		return "Please provide a reason"
	case errors.Is(err, domain.ErrConfirmationRequired):
		return "Please confirm this action"
	case errors.As(err, &verrs):
		return "Please correct the highlighted fields"
	}
	msg := strings.TrimSuffix(err.Error(), ": "+domain.ErrInvalidInput.Error())
	return capitalize(strings.TrimPrefix(msg, domain.ErrInvalidInput.Error()+": "))
}

// record journals the dispatch. Journal failures are logged and otherwise
// ignored.
func (d *Dispatcher) record(ctx context.Context, log logrus.FieldLogger, m Mutation, outcome, message string) {
	if d.journal == nil {
		return
	}
	target := m.ID
	if target == "" {
		target = m.ParentID
	}
	entry := &domain.ActionRecord{
		Admin:      m.Admin,
		Resource:   m.Resource,
		Action:     m.Action,
		TargetID:   target,
		Outcome:    outcome,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
	// The request context may already be done when the call failed on it.
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := d.journal.RecordAction(jctx, entry); err != nil {
		log.WithError(err).Warn("failed to record action")
	}
}
