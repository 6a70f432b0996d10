package onesignal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const (
	logPrefix  = "onesignal"
	defaultURL = "https://onesignal.com/api/v1"
)

var (
	errNoRecipients = fmt.Errorf("notification has no recipients")
)

// NotificationRequest is the body of the create notification API
type NotificationRequest struct {
	AppID            string                 `json:"app_id"`
	TemplateID       string                 `json:"template_id,omitempty"`
	IncludePlayerIDs []string               `json:"include_player_ids,omitempty"`
	Headings         map[string]string      `json:"headings,omitempty"`
	Contents         map[string]string      `json:"contents,omitempty"`
	Filters          []map[string]string    `json:"filters,omitempty"`
	Data             map[string]interface{} `json:"data,omitempty"`
	LocalChannelID   string                 `json:"android_channel_id,omitempty"`
}

type notificationResponse struct {
	ID         string      `json:"id"`
	Recipients int         `json:"recipients"`
	Errors     interface{} `json:"errors"`
}

type OneSignalClient struct {
	httpClient *http.Client
	apiKey     string
	url        string
}

// NewClient returns a client of the OneSignal REST API. An empty url falls
// back to the public endpoint.
func NewClient(httpClient *http.Client, apiKey, url string) *OneSignalClient {
	u := defaultURL
	if url != "" {
		u = url
	}

	return &OneSignalClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		url:        u,
	}
}

// SendNotification submits a notification. OneSignal accepts it for delivery
// and does not confirm the delivery itself.
func (o *OneSignalClient) SendNotification(ctx context.Context, req *NotificationRequest) error {
	if len(req.IncludePlayerIDs) == 0 && len(req.Filters) == 0 {
		return errNoRecipients
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url+"/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	r.Header.Set("Authorization", "Basic "+o.apiKey)

	resp, err := o.httpClient.Do(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	d, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"status": resp.StatusCode,
			"body":   string(d),
		}).Error("notification rejected")
		return fmt.Errorf("onesignal responded with status %d", resp.StatusCode)
	}

	var result notificationResponse
	if err := json.Unmarshal(d, &result); err != nil {
		return err
	}

	// a 200 without an id means none of the players could be targeted
	if result.ID == "" {
		return fmt.Errorf("notification not created: %v", result.Errors)
	}

	log.WithFields(log.Fields{
		"prefix":     logPrefix,
		"id":         result.ID,
		"recipients": result.Recipients,
	}).Debug("notification created")

	return nil
}
