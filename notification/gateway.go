package notification

import (
	"context"

	"github.com/bitmark-inc/helpity-api/external/onesignal"
	"github.com/bitmark-inc/helpity-api/schema"
)

// Gateway delivers a single push notification to the device behind n.Token
type Gateway interface {
	Send(ctx context.Context, n schema.Notification) error
}

type OnesignalGateway struct {
	appID  string
	client *onesignal.OneSignalClient
}

func NewOnesignalGateway(appID string, client *onesignal.OneSignalClient) *OnesignalGateway {
	return &OnesignalGateway{
		appID:  appID,
		client: client,
	}
}

// Send targets the player id stored as the account push token
func (o *OnesignalGateway) Send(ctx context.Context, n schema.Notification) error {
	req := &onesignal.NotificationRequest{
		AppID:            o.appID,
		IncludePlayerIDs: []string{n.Token},
		Headings:         map[string]string{"en": n.Title},
		Contents:         map[string]string{"en": n.Body},
		Data:             n.Data.Map(),
		LocalChannelID:   "important_alert",
	}
	return o.client.SendNotification(ctx, req)
}
