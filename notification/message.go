package notification

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/bitmark-inc/helpity-api/schema"
	"github.com/bitmark-inc/helpity-api/utils"
)

var (
	helpRequestTitle = &i18n.Message{
		ID:    "notification.help_request.title",
		Other: "New Help Request Nearby",
	}
	helpAcceptedTitle = &i18n.Message{
		ID:    "notification.help_accepted.title",
		Other: "Volunteer Found!",
	}
	helpAcceptedBody = &i18n.Message{
		ID:    "notification.help_accepted.body",
		Other: "A volunteer has accepted your help request.",
	}
)

// NewHelpRequestNotification builds the notification sent to a candidate
// volunteer. The body is the generated description of the request.
func NewHelpRequestNotification(recipient schema.Account, help *schema.HelpRequest) schema.Notification {
	return schema.Notification{
		Title: utils.Localize(recipient.Language, helpRequestTitle),
		Body:  help.AIDescription,
		Data: schema.NotificationData{
			RequestID: help.ID,
			Type:      schema.NotificationTypeHelpRequest,
		},
	}
}

// NewHelpAcceptedNotification builds the notification sent to a requester
// once a volunteer accepted the request
func NewHelpAcceptedNotification(recipient schema.Account, helpID string) schema.Notification {
	return schema.Notification{
		Title: utils.Localize(recipient.Language, helpAcceptedTitle),
		Body:  utils.Localize(recipient.Language, helpAcceptedBody),
		Data: schema.NotificationData{
			RequestID: helpID,
			Type:      schema.NotificationTypeHelpAccepted,
		},
	}
}
