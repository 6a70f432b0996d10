package schema

import (
	"time"
)

const (
	HelpRequestCollection = "help_requests"
)

// HelpStatus is the lifecycle state of a help request
type HelpStatus string

const (
	HelpPending  HelpStatus = "pending"
	HelpAccepted HelpStatus = "accepted"

	// reserved, nothing in this service produces them yet
	HelpCompleted HelpStatus = "completed"
	HelpCancelled HelpStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses
func (s HelpStatus) Valid() bool {
	switch s {
	case HelpPending, HelpAccepted, HelpCompleted, HelpCancelled:
		return true
	}
	return false
}

// GeoPoint is where the help is needed. It is stored along with the request but
// is not used for matching volunteers.
type GeoPoint struct {
	Latitude  float64 `json:"lat" bson:"lat"`
	Longitude float64 `json:"lng" bson:"lng"`
}

// Valid checks the point is inside the WGS84 range
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

type HelpRequest struct {
	ID              string     `json:"id" bson:"_id"`
	RequesterID     string     `json:"user_id" bson:"user_id"`
	TaskDescription string     `json:"task_description" bson:"task_description"`
	AIDescription   string     `json:"ai_description" bson:"ai_description"`
	Location        GeoPoint   `json:"location" bson:"location"`
	Status          HelpStatus `json:"status" bson:"status"`
	Emergency       bool       `json:"emergency" bson:"emergency"`
	ScheduledTime   time.Time  `json:"scheduled_time" bson:"scheduled_time"`
	VolunteerID     string     `json:"volunteer_id,omitempty" bson:"volunteer_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}
