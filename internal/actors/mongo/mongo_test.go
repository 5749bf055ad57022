package mongo

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const testDatabase = "matchup_test"

type MongoDBTestSuite struct {
	suite.Suite
	db                *mongo.Client
	userCollection    *mongo.Collection
	projectCollection *mongo.Collection
	messageCollection *mongo.Collection
	mongoAdapter      *MongoDB
}

var (
	dummyTime = time.Now().Truncate(time.Second).UTC()
)

func (suite *MongoDBTestSuite) SetupSuite() {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		suite.T().Skip("MONGODB_URL is not set")
	}

	clientOptions := options.Client().ApplyURI(url)
	db, err := mongo.Connect(context.Background(), clientOptions)
	suite.Require().NoError(err)
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	suite.Require().NoError(db.Ping(timeoutCtx, nil))

	database := db.Database(testDatabase)
	suite.db = db
	suite.userCollection = database.Collection("users")
	suite.projectCollection = database.Collection("projects")
	suite.messageCollection = database.Collection("messages")
	dummyTimeFunc := func() time.Time {
		return dummyTime
	}
	mongoAdapter, err := NewMongoDB(MongoDBArgs{
		UserCollection:    suite.userCollection,
		ProjectCollection: suite.projectCollection,
		MessageCollection: suite.messageCollection,
	}, WithNowFunc(dummyTimeFunc))
	suite.Require().NoError(err)
	suite.mongoAdapter = mongoAdapter
}

func (suite *MongoDBTestSuite) SetupTest() {
	for _, c := range []*mongo.Collection{suite.userCollection, suite.projectCollection, suite.messageCollection} {
		_, err := c.DeleteMany(context.Background(), bson.D{})
		suite.Require().NoError(err)
	}
}

func (suite *MongoDBTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.Require().NoError(suite.db.Disconnect(context.Background()))
	}
}

func (suite *MongoDBTestSuite) saveUser(username string) *model.User {
	u := &model.User{Username: username, Email: username + "@example.com", IsVerified: true}
	suite.Require().NoError(suite.mongoAdapter.SaveUser(context.Background(), u))
	return u
}

func (suite *MongoDBTestSuite) saveProject(owner *model.User, attributes ...string) *model.Project {
	p := &model.Project{
		Name:          "p",
		Description:   "d",
		CreatedBy:     owner.ID,
		Attributes:    model.NewSet(attributes...),
		LastReadAt:    []model.LastReadAt{{UserID: owner.ID, Date: model.Epoch}},
		LastMessageAt: dummyTime,
	}
	suite.Require().NoError(suite.mongoAdapter.SaveProject(context.Background(), p))
	return p
}

func (suite *MongoDBTestSuite) getProject(id string) *model.Project {
	p, err := suite.mongoAdapter.GetProject(context.Background(), ports.ProjectFilter{ID: id})
	suite.Require().NoError(err)
	return p
}

func (suite *MongoDBTestSuite) TestSaveAndGetUser() {
	ctx := context.Background()
	token := "token"
	u := &model.User{
		Username:          "JaneDoe",
		Email:             "jane@example.com",
		FirstName:         "Jane",
		LastName:          "Doe",
		Attributes:        model.NewSet("Go"),
		VerificationToken: &token,
	}
	suite.Require().NoError(suite.mongoAdapter.SaveUser(ctx, u))
	suite.NotEmpty(u.ID)
	suite.Equal("janedoe", u.Username)
	suite.Equal(dummyTime, u.JoinedAt)

	res := suite.userCollection.FindOne(ctx, bson.D{{Key: "_id", Value: mustID(suite.T(), u.ID)}})
	suite.Require().NoError(res.Err())
	got := new(userDB)
	suite.Require().NoError(res.Decode(got))
	suite.Equal("janedoe", got.Username)
	suite.Equal([]string{"Go"}, got.Attributes)
	suite.Empty(got.SwipeLeft)

	loaded, err := suite.mongoAdapter.GetUser(ctx, u.ID)
	suite.Require().NoError(err)
	suite.Equal("Jane", loaded.FirstName)
	suite.Require().NotNil(loaded.VerificationToken)
	suite.Equal(token, *loaded.VerificationToken)
	suite.True(loaded.Attributes.Has("Go"))

	_, err = suite.mongoAdapter.GetUser(ctx, primitive.NewObjectID().Hex())
	suite.ErrorIs(err, model.ErrNotFound)
	_, err = suite.mongoAdapter.GetUser(ctx, "not-an-id")
	suite.ErrorIs(err, model.ErrNotFound)
}

func (suite *MongoDBTestSuite) TestUserSets() {
	ctx := context.Background()
	u := suite.saveUser("sets")
	projectID := primitive.NewObjectID().Hex()

	tests := []struct {
		name     string
		op       func() (int64, error)
		expected int64
	}{
		{
			name: "add project",
			op: func() (int64, error) {
				return suite.mongoAdapter.AddToUserSet(ctx, u.ID, ports.UserSwipeLeft, projectID)
			},
			expected: 1,
		},
		{
			name: "add project again is a no-op",
			op: func() (int64, error) {
				return suite.mongoAdapter.AddToUserSet(ctx, u.ID, ports.UserSwipeLeft, projectID)
			},
			expected: 0,
		},
		{
			name:     "add attribute",
			op:       func() (int64, error) { return suite.mongoAdapter.AddToUserSet(ctx, u.ID, ports.UserAttributes, "Rust") },
			expected: 1,
		},
		{
			name:     "malformed id is never stored",
			op:       func() (int64, error) { return suite.mongoAdapter.AddToUserSet(ctx, u.ID, ports.UserProjects, "zzz") },
			expected: 0,
		},
		{
			name: "pull project",
			op: func() (int64, error) {
				return suite.mongoAdapter.PullFromUserSet(ctx, u.ID, ports.UserSwipeLeft, projectID)
			},
			expected: 1,
		},
		{
			name: "pull missing project",
			op: func() (int64, error) {
				return suite.mongoAdapter.PullFromUserSet(ctx, u.ID, ports.UserSwipeLeft, projectID)
			},
			expected: 0,
		},
	}

	for _, test := range tests {
		suite.Run(test.name, func() {
			modified, err := test.op()
			suite.Require().NoError(err)
			suite.Equal(test.expected, modified)
		})
	}

	loaded, err := suite.mongoAdapter.GetUser(ctx, u.ID)
	suite.Require().NoError(err)
	suite.True(loaded.Attributes.Has("Rust"))
	suite.Zero(loaded.SwipeLeft.Len())
}

func (suite *MongoDBTestSuite) TestProjectLifecycle() {
	ctx := context.Background()
	owner := suite.saveUser("owner")
	other := suite.saveUser("other")
	p := suite.saveProject(owner, "Go")

	got := suite.getProject(p.ID)
	suite.Equal(owner.ID, got.CreatedBy)
	suite.Equal([]model.LastReadAt{{UserID: owner.ID, Date: model.Epoch}}, got.LastReadAt)
	suite.True(got.Attributes.Has("Go"))

	_, err := suite.mongoAdapter.GetProject(ctx, ports.ProjectFilter{ID: p.ID, CreatedBy: other.ID})
	suite.ErrorIs(err, model.ErrNotFound)

	modified, err := suite.mongoAdapter.UpdateProjectDetails(ctx, ports.ProjectFilter{ID: p.ID, CreatedBy: other.ID}, "x", "y")
	suite.Require().NoError(err)
	suite.Zero(modified)

	modified, err = suite.mongoAdapter.UpdateProjectDetails(ctx, ports.ProjectFilter{ID: p.ID, CreatedBy: owner.ID}, "x", "y")
	suite.Require().NoError(err)
	suite.EqualValues(1, modified)
	suite.Equal("x", suite.getProject(p.ID).Name)

	modified, err = suite.mongoAdapter.AddToProjectSet(ctx, ports.ProjectFilter{ID: p.ID, CreatedBy: owner.ID}, ports.ProjectAttributes, "React")
	suite.Require().NoError(err)
	suite.EqualValues(1, modified)

	later := dummyTime.Add(time.Minute)
	modified, err = suite.mongoAdapter.TouchLastMessageAt(ctx, p.ID, later)
	suite.Require().NoError(err)
	suite.EqualValues(1, modified)
	modified, err = suite.mongoAdapter.TouchLastMessageAt(ctx, p.ID, dummyTime)
	suite.Require().NoError(err)
	suite.Zero(modified)
	suite.Equal(later, suite.getProject(p.ID).LastMessageAt)

	suite.Require().NoError(suite.mongoAdapter.ReplaceLastReadAt(ctx, p.ID, owner.ID, later))
	suite.Require().NoError(suite.mongoAdapter.ReplaceLastReadAt(ctx, p.ID, owner.ID, later.Add(time.Second)))
	suite.Equal([]model.LastReadAt{{UserID: owner.ID, Date: later.Add(time.Second)}}, suite.getProject(p.ID).LastReadAt)

	projects, err := suite.mongoAdapter.ListMemberProjects(ctx, owner.ID)
	suite.Require().NoError(err)
	suite.Len(projects, 1)

	deleted, err := suite.mongoAdapter.DeleteProject(ctx, ports.ProjectFilter{ID: p.ID, CreatedBy: other.ID})
	suite.Require().NoError(err)
	suite.Zero(deleted)
	deleted, err = suite.mongoAdapter.DeleteProject(ctx, ports.ProjectFilter{ID: p.ID, CreatedBy: owner.ID})
	suite.Require().NoError(err)
	suite.EqualValues(1, deleted)
	_, err = suite.mongoAdapter.GetProject(ctx, ports.ProjectFilter{ID: p.ID})
	suite.ErrorIs(err, model.ErrNotFound)
}

func (suite *MongoDBTestSuite) TestReadReceipts() {
	ctx := context.Background()
	owner := suite.saveUser("owner")
	member := suite.saveUser("member")
	p := suite.saveProject(owner)

	// a member without a receipt gets one
	suite.Require().NoError(suite.mongoAdapter.ReplaceLastReadAt(ctx, p.ID, member.ID, dummyTime))
	readAt, ok := suite.getProject(p.ID).LastReadBy(member.ID)
	suite.Require().True(ok)
	suite.Equal(dummyTime, readAt)

	// concurrent reads from several devices keep a single receipt per user
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		for _, userID := range []string{owner.ID, member.ID} {
			wg.Add(1)
			go func(userID string, at time.Time) {
				defer wg.Done()
				errs <- suite.mongoAdapter.ReplaceLastReadAt(ctx, p.ID, userID, at)
			}(userID, dummyTime.Add(time.Duration(i+1)*time.Second))
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		suite.Require().NoError(err)
	}

	receipts := suite.getProject(p.ID).LastReadAt
	suite.Len(receipts, 2)
	users := map[string]int{}
	for _, receipt := range receipts {
		users[receipt.UserID]++
		suite.True(receipt.Date.After(dummyTime))
	}
	suite.Equal(map[string]int{owner.ID: 1, member.ID: 1}, users)
}

func (suite *MongoDBTestSuite) TestSwipeGuards() {
	ctx := context.Background()
	owner := suite.saveUser("owner")
	swiper := suite.saveUser("swiper")
	p := suite.saveProject(owner)

	tests := []struct {
		name      string
		userID    string
		direction model.SwipeDirection
		expected  int64
	}{
		{name: "creator can not swipe", userID: owner.ID, direction: model.SwipeRight, expected: 0},
		{name: "first swipe", userID: swiper.ID, direction: model.SwipeRight, expected: 1},
		{name: "same direction again", userID: swiper.ID, direction: model.SwipeRight, expected: 0},
		{name: "opposite direction", userID: swiper.ID, direction: model.SwipeLeft, expected: 0},
	}
	for _, test := range tests {
		suite.Run(test.name, func() {
			modified, err := suite.mongoAdapter.AddSwipe(ctx, p.ID, test.userID, test.direction)
			suite.Require().NoError(err)
			suite.Equal(test.expected, modified)
		})
	}
	got := suite.getProject(p.ID)
	suite.Equal([]string{swiper.ID}, got.SwipeRight.Values())
	suite.Zero(got.SwipeLeft.Len())
}

func (suite *MongoDBTestSuite) TestDecisionGuards() {
	ctx := context.Background()
	owner := suite.saveUser("owner")
	right := suite.saveUser("right")
	left := suite.saveUser("left")
	p := suite.saveProject(owner)
	_, err := suite.mongoAdapter.AddSwipe(ctx, p.ID, right.ID, model.SwipeRight)
	suite.Require().NoError(err)
	_, err = suite.mongoAdapter.AddSwipe(ctx, p.ID, left.ID, model.SwipeLeft)
	suite.Require().NoError(err)

	modified, err := suite.mongoAdapter.AcceptCandidate(ctx, ports.Decision{ProjectID: p.ID, OwnerID: right.ID, CollaboratorID: right.ID}, model.Epoch)
	suite.Require().NoError(err)
	suite.Zero(modified, "only the owner decides")

	modified, err = suite.mongoAdapter.AcceptCandidate(ctx, ports.Decision{ProjectID: p.ID, OwnerID: owner.ID, CollaboratorID: left.ID}, model.Epoch)
	suite.Require().NoError(err)
	suite.Zero(modified, "left swipers can not be accepted")

	modified, err = suite.mongoAdapter.AcceptCandidate(ctx, ports.Decision{ProjectID: p.ID, OwnerID: owner.ID, CollaboratorID: right.ID}, model.Epoch)
	suite.Require().NoError(err)
	suite.EqualValues(1, modified)

	modified, err = suite.mongoAdapter.RejectCandidate(ctx, ports.Decision{ProjectID: p.ID, OwnerID: owner.ID, CollaboratorID: right.ID})
	suite.Require().NoError(err)
	suite.Zero(modified, "accepted users can not be rejected")

	got := suite.getProject(p.ID)
	suite.True(got.AcceptedUsers.Has(right.ID))
	readAt, ok := got.LastReadBy(right.ID)
	suite.True(ok)
	suite.Equal(model.Epoch, readAt)
	suite.Equal([]string{owner.ID, right.ID}, got.Members())

	projects, err := suite.mongoAdapter.ListMemberProjects(ctx, right.ID)
	suite.Require().NoError(err)
	suite.Len(projects, 1)
}

func (suite *MongoDBTestSuite) TestSampleCandidates() {
	ctx := context.Background()
	owner := suite.saveUser("owner")
	viewer := suite.saveUser("viewer")
	suite.saveProject(viewer, "Go")
	swiped := suite.saveProject(owner, "Go")
	_, err := suite.mongoAdapter.AddSwipe(ctx, swiped.ID, viewer.ID, model.SwipeLeft)
	suite.Require().NoError(err)
	goOnly := suite.saveProject(owner, "Go")
	goReact := suite.saveProject(owner, "Go", "React")

	tests := []struct {
		name       string
		attributes []string
		size       int
		expected   []string
	}{
		{name: "no filter", size: 10, expected: []string{goOnly.ID, goReact.ID}},
		{name: "superset filter", attributes: []string{"Go", "React"}, size: 10, expected: []string{goReact.ID}},
		{name: "sample is bounded", size: 1},
		{name: "unknown attribute", attributes: []string{"Elm"}, size: 10, expected: []string{}},
	}
	for _, test := range tests {
		suite.Run(test.name, func() {
			projects, err := suite.mongoAdapter.SampleCandidates(ctx, ports.CandidateQuery{ViewerID: viewer.ID, Attributes: test.attributes, Size: test.size})
			suite.Require().NoError(err)
			if test.expected == nil {
				suite.Len(projects, test.size)
				return
			}
			ids := []string{}
			for _, p := range projects {
				ids = append(ids, p.ID)
			}
			suite.ElementsMatch(test.expected, ids)
		})
	}
}

func (suite *MongoDBTestSuite) TestMessages() {
	ctx := context.Background()
	owner := suite.saveUser("owner")
	p := suite.saveProject(owner)
	other := suite.saveProject(owner)

	// two messages share a timestamp; insertion order breaks the tie
	times := []time.Time{dummyTime, dummyTime.Add(time.Second), dummyTime.Add(time.Second), dummyTime.Add(2 * time.Second)}
	var saved []model.ChatMessage
	for i, at := range times {
		m := &model.ChatMessage{Message: string(rune('a' + i)), Project: p.ID, Sender: owner.ID, CreatedAt: at, MessageType: model.MessageTypeChat}
		suite.Require().NoError(suite.mongoAdapter.SaveMessage(ctx, m))
		saved = append(saved, *m)
	}
	suite.Require().NoError(suite.mongoAdapter.SaveMessage(ctx, &model.ChatMessage{Message: "x", Project: other.ID, Sender: owner.ID, MessageType: model.MessageTypeChat}))

	cursor := dummyTime.Add(2 * time.Second)
	page, err := suite.mongoAdapter.ListMessages(ctx, ports.MessageQuery{ProjectID: p.ID, CreatedBefore: cursor, Limit: 2})
	suite.Require().NoError(err)
	suite.Equal([]model.ChatMessage{saved[2], saved[1]}, page)

	page, err = suite.mongoAdapter.ListMessages(ctx, ports.MessageQuery{ProjectID: p.ID, CreatedBefore: cursor, Offset: 2, Limit: 2})
	suite.Require().NoError(err)
	suite.Equal([]model.ChatMessage{saved[0]}, page)

	deleted, err := suite.mongoAdapter.DeleteMessages(ctx, p.ID)
	suite.Require().NoError(err)
	suite.EqualValues(4, deleted)
	count, err := suite.messageCollection.CountDocuments(ctx, bson.D{})
	suite.Require().NoError(err)
	suite.EqualValues(1, count)
}

func TestMongoDBSuite(t *testing.T) {
	suite.Run(t, new(MongoDBTestSuite))
}

func mustID(t *testing.T, in string) primitive.ObjectID {
	objID, err := primitive.ObjectIDFromHex(in)
	require.NoError(t, err)
	return objID
}
