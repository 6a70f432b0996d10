package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/helpity-api/schema"
)

type HelpTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
	store        MongoStore
}

func NewHelpTestSuite(connURI, dbName string) *HelpTestSuite {
	return &HelpTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *HelpTestSuite) SetupSuite() {
	if s.connURI == "" || s.testDBName == "" {
		s.T().Fatal("invalid test suite configuration")
	}

	opts := options.Client().ApplyURI(s.connURI).SetServerSelectionTimeout(2 * time.Second)
	mongoClient, err := mongo.Connect(context.Background(), opts)
	if nil != err {
		s.T().Fatalf("create mongo client with error: %s", err)
	}

	if err := mongoClient.Ping(context.Background(), nil); err != nil {
		s.T().Skipf("mongo is not reachable at %s: %s", s.connURI, err)
	}

	s.mongoClient = mongoClient
	s.testDatabase = mongoClient.Database(s.testDBName)
	s.store = NewMongoStore(mongoClient, s.testDBName)

	// make sure the test suite is run with a clean environment
	if err := s.testDatabase.Drop(context.Background()); err != nil {
		s.T().Fatal(err)
	}
	if err := schema.NewMongoDBIndexer(mongoClient, s.testDBName).IndexAll(); err != nil {
		s.T().Fatal(err)
	}
}

func (s *HelpTestSuite) TearDownSuite() {
	if s.mongoClient != nil {
		_ = s.testDatabase.Drop(context.Background())
		_ = s.mongoClient.Disconnect(context.Background())
	}
}

func (s *HelpTestSuite) SetupTest() {
	_, err := s.testDatabase.Collection(schema.HelpRequestCollection).DeleteMany(context.Background(), bson.M{})
	s.NoError(err)
}

func (s *HelpTestSuite) newHelp(requester string) *schema.HelpRequest {
	return &schema.HelpRequest{
		RequesterID:     requester,
		TaskDescription: "need groceries picked up",
		AIDescription:   "need groceries picked up",
		Location:        schema.GeoPoint{Latitude: 25.03, Longitude: 121.56},
		Status:          schema.HelpPending,
		ScheduledTime:   time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC),
	}
}

func (s *HelpTestSuite) TestPing() {
	s.NoError(s.store.Ping())
}

func (s *HelpTestSuite) TestCreateAndGetHelp() {
	help := s.newHelp("user-1")
	id, err := s.store.CreateHelp(context.Background(), help)
	s.NoError(err)
	s.NotEmpty(id)
	s.Equal(id, help.ID)

	stored, err := s.store.GetHelp(context.Background(), id)
	s.NoError(err)
	s.Equal("user-1", stored.RequesterID)
	s.Equal(schema.HelpPending, stored.Status)
	s.Empty(stored.VolunteerID)
	s.Nil(stored.UpdatedAt)
	s.False(stored.CreatedAt.IsZero())
	s.Equal(help.Location, stored.Location)
}

func (s *HelpTestSuite) TestCreateAlwaysAssignsNewID() {
	first, err := s.store.CreateHelp(context.Background(), s.newHelp("user-1"))
	s.NoError(err)
	second, err := s.store.CreateHelp(context.Background(), s.newHelp("user-1"))
	s.NoError(err)
	s.NotEqual(first, second)
}

func (s *HelpTestSuite) TestGetMissingHelp() {
	help, err := s.store.GetHelp(context.Background(), "missing")
	s.Nil(help)
	s.Equal(ErrHelpNotFound, err)
}

func (s *HelpTestSuite) TestListHelps() {
	idA, _ := s.store.CreateHelp(context.Background(), s.newHelp("user-1"))
	idB, _ := s.store.CreateHelp(context.Background(), s.newHelp("user-1"))
	idC, _ := s.store.CreateHelp(context.Background(), s.newHelp("user-2"))
	s.NoError(s.store.UpdateHelp(context.Background(), idB, HelpUpdate{
		Status:      schema.HelpAccepted,
		VolunteerID: "volunteer-1",
	}))

	pending, err := s.store.ListHelpsByStatus(context.Background(), schema.HelpPending)
	s.NoError(err)
	ids := make([]string, 0)
	for _, h := range pending {
		ids = append(ids, h.ID)
	}
	s.ElementsMatch([]string{idA, idC}, ids)

	mine, err := s.store.ListHelpsByRequester(context.Background(), "user-1")
	s.NoError(err)
	s.Len(mine, 2)

	none, err := s.store.ListHelpsByRequester(context.Background(), "user-3")
	s.NoError(err)
	s.NotNil(none)
	s.Len(none, 0)
}

func (s *HelpTestSuite) TestAcceptHelp() {
	id, err := s.store.CreateHelp(context.Background(), s.newHelp("user-1"))
	s.NoError(err)

	err = s.store.UpdateHelp(context.Background(), id, HelpUpdate{
		Status:         schema.HelpAccepted,
		VolunteerID:    "volunteer-1",
		ExpectedStatus: schema.HelpPending,
	})
	s.NoError(err)

	help, err := s.store.GetHelp(context.Background(), id)
	s.NoError(err)
	s.Equal(schema.HelpAccepted, help.Status)
	s.Equal("volunteer-1", help.VolunteerID)
	s.NotNil(help.UpdatedAt)
}

func (s *HelpTestSuite) TestAcceptHelpTwice() {
	id, _ := s.store.CreateHelp(context.Background(), s.newHelp("user-1"))
	accept := func(volunteer string) error {
		return s.store.UpdateHelp(context.Background(), id, HelpUpdate{
			Status:         schema.HelpAccepted,
			VolunteerID:    volunteer,
			ExpectedStatus: schema.HelpPending,
		})
	}

	s.NoError(accept("volunteer-1"))
	s.True(errors.Is(accept("volunteer-2"), ErrHelpNotPending))

	help, err := s.store.GetHelp(context.Background(), id)
	s.NoError(err)
	s.Equal("volunteer-1", help.VolunteerID)
}

func (s *HelpTestSuite) TestAcceptOwnHelp() {
	id, _ := s.store.CreateHelp(context.Background(), s.newHelp("user-1"))
	err := s.store.UpdateHelp(context.Background(), id, HelpUpdate{
		Status:         schema.HelpAccepted,
		VolunteerID:    "user-1",
		ExpectedStatus: schema.HelpPending,
	})
	s.Equal(ErrSelfResponse, err)
}

func (s *HelpTestSuite) TestUpdateMissingHelp() {
	err := s.store.UpdateHelp(context.Background(), "missing", HelpUpdate{
		Status:      schema.HelpAccepted,
		VolunteerID: "volunteer-1",
	})
	s.Equal(ErrHelpNotFound, err)
}

func TestHelpTestSuite(t *testing.T) {
	connURI := os.Getenv("HELPITY_TEST_MONGO")
	if connURI == "" {
		connURI = "mongodb://127.0.0.1:27017/?compressors=disabled"
	}
	suite.Run(t, NewHelpTestSuite(connURI, "helpity-test"))
}
