package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/helpity-api/schema"
)

var (
	ErrPersistence    = errors.New("storage is unavailable")
	ErrHelpNotFound   = errors.New("help request not found")
	ErrHelpNotPending = errors.New("help request is no longer pending")
	ErrSelfResponse   = errors.New("a requester cannot answer their own help request")
)

// HelpStore keeps help requests
type HelpStore interface {
	CreateHelp(ctx context.Context, help *schema.HelpRequest) (string, error)
	GetHelp(ctx context.Context, helpID string) (*schema.HelpRequest, error)
	ListHelpsByStatus(ctx context.Context, status schema.HelpStatus) ([]schema.HelpRequest, error)
	ListHelpsByRequester(ctx context.Context, requesterID string) ([]schema.HelpRequest, error)
	UpdateHelp(ctx context.Context, helpID string, update HelpUpdate) error
}

// HelpUpdate is a partial update of a help request. Zero fields are left
// untouched. When ExpectedStatus is set the update only applies if the stored
// status still matches it. A volunteer is never assigned to a request made by
// the same account.
type HelpUpdate struct {
	Status         schema.HelpStatus
	VolunteerID    string
	ExpectedStatus schema.HelpStatus
}

// CreateHelp assigns a new id and creation time to help and inserts it
func (m *mongoDB) CreateHelp(ctx context.Context, help *schema.HelpRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	record := *help
	record.ID = uuid.New().String()
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = nil

	if _, err := m.collection(schema.HelpRequestCollection).InsertOne(ctx, record); err != nil {
		log.WithFields(log.Fields{
			"prefix": mongoLogPrefix,
			"error":  err,
		}).Error("insert help request")
		return "", persistenceError(err)
	}

	*help = record
	return record.ID, nil
}

// GetHelp finds a help request by its id
func (m *mongoDB) GetHelp(ctx context.Context, helpID string) (*schema.HelpRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var help schema.HelpRequest
	if err := m.collection(schema.HelpRequestCollection).FindOne(ctx, bson.M{"_id": helpID}).Decode(&help); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrHelpNotFound
		}
		return nil, persistenceError(err)
	}

	return &help, nil
}

// ListHelpsByStatus returns all help requests in a given status, newest first
func (m *mongoDB) ListHelpsByStatus(ctx context.Context, status schema.HelpStatus) ([]schema.HelpRequest, error) {
	return m.listHelps(ctx, bson.M{"status": status})
}

// ListHelpsByRequester returns all help requests made by an account, newest first
func (m *mongoDB) ListHelpsByRequester(ctx context.Context, requesterID string) ([]schema.HelpRequest, error) {
	return m.listHelps(ctx, bson.M{"user_id": requesterID})
}

func (m *mongoDB) listHelps(ctx context.Context, filter bson.M) ([]schema.HelpRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection(schema.HelpRequestCollection).Find(ctx, filter, opts)
	if err != nil {
		log.WithField("prefix", mongoLogPrefix).Errorf("query help requests with error: %s", err)
		return nil, persistenceError(err)
	}

	helps := make([]schema.HelpRequest, 0)
	if err := cursor.All(ctx, &helps); err != nil {
		return nil, persistenceError(err)
	}

	return helps, nil
}

// UpdateHelp applies a partial update and stamps the update time.
//
// There is no version check beyond ExpectedStatus: two updates without a
// precondition both succeed and the last one wins.
func (m *mongoDB) UpdateHelp(ctx context.Context, helpID string, update HelpUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"_id": helpID}
	if update.ExpectedStatus != "" {
		query["status"] = update.ExpectedStatus
	}

	fields := bson.M{}
	if update.Status != "" {
		fields["status"] = update.Status
	}
	if update.VolunteerID != "" {
		fields["volunteer_id"] = update.VolunteerID
		query["user_id"] = bson.M{"$ne": update.VolunteerID}
	}

	change := bson.M{"$currentDate": bson.M{"updated_at": true}}
	if len(fields) > 0 {
		change["$set"] = fields
	}

	c := m.collection(schema.HelpRequestCollection)
	result, err := c.UpdateOne(ctx, query, change)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":  mongoLogPrefix,
			"help_id": helpID,
			"error":   err,
		}).Error("update help request")
		return persistenceError(err)
	}

	if result.MatchedCount > 0 {
		return nil
	}

	// find out which condition rejected the update
	var help schema.HelpRequest
	if err := c.FindOne(ctx, bson.M{"_id": helpID}).Decode(&help); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrHelpNotFound
		}
		return persistenceError(err)
	}

	if update.VolunteerID != "" && help.RequesterID == update.VolunteerID {
		return ErrSelfResponse
	}

	return ErrHelpNotPending
}
