package schema

const (
	NotificationTypeHelpRequest  = "help_request"
	NotificationTypeHelpAccepted = "help_accepted"
)

// NotificationData is the payload delivered along with a push notification
type NotificationData struct {
	RequestID string `json:"request_id,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Map flattens the payload into the string map accepted by push gateways.
// Empty fields are omitted.
func (d NotificationData) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if d.RequestID != "" {
		m["request_id"] = d.RequestID
	}
	if d.Type != "" {
		m["type"] = d.Type
	}
	return m
}

// Notification is a single push message. It is never persisted.
type Notification struct {
	Title string
	Body  string
	Data  NotificationData
	Token string
}
