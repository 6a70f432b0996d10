package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"github.com/bitmark-inc/helpity-api/notification"
	"github.com/bitmark-inc/helpity-api/schema"
	"github.com/bitmark-inc/helpity-api/store"
)

const logPrefix = "dispatch"

// Augmenter turns a raw task description into a friendlier one. It never
// fails and returns the raw text when it can not do better.
type Augmenter interface {
	Augment(ctx context.Context, raw string) string
}

// Notifier sends push notifications on a best effort basis
type Notifier interface {
	DispatchAll(ctx context.Context, deliveries []notification.Delivery) int
	DispatchOne(ctx context.Context, recipient schema.Account, n schema.Notification) bool
}

// Submission is a new help request as submitted by a requester
type Submission struct {
	RequesterID     string
	TaskDescription string
	Location        schema.GeoPoint
	ScheduledTime   time.Time
	Emergency       bool
}

func (s Submission) validate() error {
	if strings.TrimSpace(s.RequesterID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidSubmission)
	}
	if strings.TrimSpace(s.TaskDescription) == "" {
		return fmt.Errorf("%w: task description is required", ErrInvalidSubmission)
	}
	if !s.Location.Valid() {
		return fmt.Errorf("%w: location out of range", ErrInvalidSubmission)
	}
	return nil
}

// CreationResult tells the requester which request was created and whether
// any volunteer was notified about it
type CreationResult struct {
	RequestID         string `json:"request_id"`
	NotificationsSent bool   `json:"notifications_sent"`
}

// VolunteerResponse is a volunteer answering a help request
type VolunteerResponse struct {
	VolunteerID string
	RequestID   string
	Status      schema.HelpStatus
}

// Orchestrator runs the help request flows over the stores, the text
// augmentation and the notification dispatcher
type Orchestrator struct {
	helps     store.HelpStore
	accounts  store.AccountStore
	augmenter Augmenter
	selector  *Selector
	notifier  Notifier

	created        tally.Counter
	creationFailed tally.Counter
	accepted       tally.Counter
	augmentTimer   tally.Timer
}

func NewOrchestrator(helps store.HelpStore, accounts store.AccountStore, augmenter Augmenter, notifier Notifier, scope tally.Scope) *Orchestrator {
	if scope == nil {
		scope = tally.NoopScope
	}
	scope = scope.SubScope("help_request")

	return &Orchestrator{
		helps:     helps,
		accounts:  accounts,
		augmenter: augmenter,
		selector:  NewSelector(accounts),
		notifier:  notifier,

		created:        scope.Counter("created"),
		creationFailed: scope.Counter("creation_failed"),
		accepted:       scope.Counter("accepted"),
		augmentTimer:   scope.Timer("augment"),
	}
}

// CreateHelpRequest augments the description, stores a pending request and
// notifies the candidate volunteers about it.
//
// Only a storage failure fails the call. Nothing is notified unless the
// request is stored, and once it is stored the call succeeds even if no
// volunteer could be notified.
func (o *Orchestrator) CreateHelpRequest(ctx context.Context, sub Submission) (*CreationResult, error) {
	if err := sub.validate(); err != nil {
		return nil, err
	}

	sw := o.augmentTimer.Start()
	description := o.augmenter.Augment(ctx, sub.TaskDescription)
	sw.Stop()

	help := &schema.HelpRequest{
		RequesterID:     sub.RequesterID,
		TaskDescription: sub.TaskDescription,
		AIDescription:   description,
		Location:        sub.Location,
		Status:          schema.HelpPending,
		Emergency:       sub.Emergency,
		ScheduledTime:   sub.ScheduledTime.UTC(),
	}

	id, err := o.helps.CreateHelp(ctx, help)
	if err != nil {
		o.creationFailed.Inc(1)
		return nil, fmt.Errorf("%w: %w", ErrCreationFailed, err)
	}
	help.ID = id
	o.created.Inc(1)

	logger := log.WithFields(log.Fields{
		"prefix":     logPrefix,
		"request_id": id,
	})

	// the request is stored, a cancelled caller must not stop the fan-out
	ctx = context.WithoutCancel(ctx)

	candidates, err := o.selector.Select(help)
	if err != nil {
		logger.WithError(err).Error("fail to select volunteers, request stays pending")
		return &CreationResult{RequestID: id}, nil
	}

	deliveries := make([]notification.Delivery, 0, len(candidates))
	for _, c := range candidates {
		if !c.HasPushToken() {
			continue
		}
		deliveries = append(deliveries, notification.Delivery{
			Recipient:    c,
			Notification: notification.NewHelpRequestNotification(c, help),
		})
	}

	sent := o.notifier.DispatchAll(ctx, deliveries)
	logger.WithFields(log.Fields{
		"candidates": len(candidates),
		"sent":       sent,
	}).Info("help request created")

	return &CreationResult{
		RequestID:         id,
		NotificationsSent: sent > 0,
	}, nil
}

// RespondToHelpRequest assigns the volunteer to a pending request and lets
// the requester know.
//
// The request must still be pending when the update lands, so of two
// volunteers answering at once only one succeeds. Notifying the requester is
// best effort and does not affect the result once the request is accepted.
func (o *Orchestrator) RespondToHelpRequest(ctx context.Context, resp VolunteerResponse) error {
	if resp.Status == "" {
		resp.Status = schema.HelpAccepted
	}
	if resp.Status != schema.HelpAccepted {
		return ErrInvalidResponseStatus
	}
	if strings.TrimSpace(resp.VolunteerID) == "" || strings.TrimSpace(resp.RequestID) == "" {
		return fmt.Errorf("%w: volunteer id and request id are required", ErrInvalidResponse)
	}

	if err := o.helps.UpdateHelp(ctx, resp.RequestID, store.HelpUpdate{
		Status:         resp.Status,
		VolunteerID:    resp.VolunteerID,
		ExpectedStatus: schema.HelpPending,
	}); err != nil {
		return err
	}
	o.accepted.Inc(1)

	o.notifyRequester(context.WithoutCancel(ctx), resp.RequestID)

	return nil
}

func (o *Orchestrator) notifyRequester(ctx context.Context, helpID string) {
	logger := log.WithFields(log.Fields{
		"prefix":     logPrefix,
		"request_id": helpID,
	})

	help, err := o.helps.GetHelp(ctx, helpID)
	if err != nil {
		logger.WithError(err).Error("fail to read accepted help request")
		return
	}

	requester, err := o.accounts.GetAccount(help.RequesterID)
	if err != nil {
		logger.WithError(err).WithField("account_id", help.RequesterID).Warn("fail to read requester account")
		return
	}

	if !o.notifier.DispatchOne(ctx, *requester, notification.NewHelpAcceptedNotification(*requester, help.ID)) {
		logger.WithField("account_id", requester.ID).Info("requester not notified")
	}
}

// ListHelpRequests returns the pending requests to a volunteer and the
// requests of userID to anyone else
func (o *Orchestrator) ListHelpRequests(ctx context.Context, role schema.AccountRole, userID string) ([]schema.HelpRequest, error) {
	if role == schema.RoleVolunteer {
		return o.helps.ListHelpsByStatus(ctx, schema.HelpPending)
	}

	if userID == "" {
		return nil, ErrMissingUserID
	}
	return o.helps.ListHelpsByRequester(ctx, userID)
}

// GetHelpRequest returns a single help request
func (o *Orchestrator) GetHelpRequest(ctx context.Context, helpID string) (*schema.HelpRequest, error) {
	return o.helps.GetHelp(ctx, helpID)
}
