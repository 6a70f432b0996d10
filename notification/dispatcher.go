package notification

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"github.com/bitmark-inc/helpity-api/schema"
)

const logPrefix = "notification"

// Delivery pairs a recipient with the notification meant for it
type Delivery struct {
	Recipient    schema.Account
	Notification schema.Notification
}

// Dispatcher sends push notifications on a best effort basis. Every
// recipient gets exactly one attempt and failures are only logged.
type Dispatcher struct {
	gateway Gateway

	sent    tally.Counter
	failed  tally.Counter
	skipped tally.Counter
}

func NewDispatcher(gateway Gateway, scope tally.Scope) *Dispatcher {
	if scope == nil {
		scope = tally.NoopScope
	}
	scope = scope.SubScope("notification")

	return &Dispatcher{
		gateway: gateway,
		sent:    scope.Counter("sent"),
		failed:  scope.Counter("failed"),
		skipped: scope.Counter("skipped"),
	}
}

// DispatchAll attempts every delivery in turn and returns how many of them
// were handed to the gateway without an error. Recipients without a push
// token are skipped.
func (d *Dispatcher) DispatchAll(ctx context.Context, deliveries []Delivery) int {
	sent := 0
	for _, delivery := range deliveries {
		if d.dispatch(ctx, delivery.Recipient, delivery.Notification) {
			sent++
		}
	}

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"total":  len(deliveries),
		"sent":   sent,
	}).Debug("notifications dispatched")

	return sent
}

// DispatchOne is DispatchAll for a single recipient
func (d *Dispatcher) DispatchOne(ctx context.Context, recipient schema.Account, n schema.Notification) bool {
	return d.dispatch(ctx, recipient, n)
}

func (d *Dispatcher) dispatch(ctx context.Context, recipient schema.Account, n schema.Notification) bool {
	logger := log.WithFields(log.Fields{
		"prefix":     logPrefix,
		"account_id": recipient.ID,
		"type":       n.Data.Type,
	})

	if !recipient.HasPushToken() {
		logger.Debug("skip recipient without push token")
		d.skipped.Inc(1)
		return false
	}

	n.Token = recipient.PushToken
	if err := d.gateway.Send(ctx, n); err != nil {
		logger.WithError(err).Error("fail to send notification")
		d.failed.Inc(1)
		return false
	}

	d.sent.Inc(1)
	return true
}
