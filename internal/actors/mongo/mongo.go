package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB is a mongo adapter for persistance.
type MongoDB struct {
	userCollection    *mongo.Collection
	projectCollection *mongo.Collection
	messageCollection *mongo.Collection
	nowFunc           func() time.Time
}

// MongoDBArgs are the mandatory arguments for the creation of a MongoDB
type MongoDBArgs struct {
	// UserCollection holds the users.
	UserCollection *mongo.Collection

	// ProjectCollection holds the projects.
	ProjectCollection *mongo.Collection

	// MessageCollection holds the chat messages.
	MessageCollection *mongo.Collection
}

// MongoDBOptArgs are the optional arguments for building a MongoDB
type MongoDBOptArgs = func(*MongoDB)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) MongoDBOptArgs {
	return func(p *MongoDB) {
		p.nowFunc = nowFunc
	}
}

// NewMongoDB creates a new MongoDB.
func NewMongoDB(args MongoDBArgs, optArgs ...MongoDBOptArgs) (*MongoDB, error) {
	if args.UserCollection == nil || args.ProjectCollection == nil || args.MessageCollection == nil {
		return nil, errors.New("users, projects and messages collections are mandatory")
	}
	db := &MongoDB{
		userCollection:    args.UserCollection,
		projectCollection: args.ProjectCollection,
		messageCollection: args.MessageCollection,
		nowFunc:           func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
	for _, opt := range optArgs {
		opt(db)
	}
	return db, nil
}

// SaveUser will save the user in the database. The username is stored lower-cased.
func (p *MongoDB) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return errors.New("nil user passed to save method")
	}

	dbUser, err := p.toDBUser(user)
	if err != nil {
		return err
	}
	if _, err := p.userCollection.InsertOne(ctx, dbUser); err != nil {
		return err
	}

	user.ID = dbUser.ID.Hex()
	user.Username = dbUser.Username
	user.JoinedAt = dbUser.JoinedAt
	return nil
}

// GetUser returns the user with the given id. It returns model.ErrNotFound if there is none.
func (p *MongoDB) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrNotFound
	}
	dbUser := new(userDB)
	if err := p.userCollection.FindOne(ctx, bson.D{{Key: "_id", Value: objectID}}).Decode(dbUser); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	user := translateDBToUser(*dbUser)
	return &user, nil
}

// AddToUserSet adds value to a set of the user.
func (p *MongoDB) AddToUserSet(ctx context.Context, userID string, field ports.UserSet, value string) (int64, error) {
	return p.updateUserSet(ctx, "$addToSet", userID, field, value)
}

// PullFromUserSet removes value from a set of the user.
func (p *MongoDB) PullFromUserSet(ctx context.Context, userID string, field ports.UserSet, value string) (int64, error) {
	return p.updateUserSet(ctx, "$pull", userID, field, value)
}

func (p *MongoDB) updateUserSet(ctx context.Context, operator, userID string, field ports.UserSet, value string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}
	element, ok := setElement(field == ports.UserAttributes, value)
	if !ok {
		return 0, nil
	}
	update := bson.D{{Key: operator, Value: bson.D{{Key: string(field), Value: element}}}}
	res, err := p.userCollection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SaveProject will save the project in the database.
func (p *MongoDB) SaveProject(ctx context.Context, project *model.Project) error {
	if project == nil {
		return errors.New("nil project passed to save method")
	}
	dbProject, err := toDBProject(project)
	if err != nil {
		return err
	}
	if _, err := p.projectCollection.InsertOne(ctx, dbProject); err != nil {
		return err
	}
	project.ID = dbProject.ID.Hex()
	return nil
}

// GetProject returns the project matching the filter. It returns model.ErrNotFound if there is none.
func (p *MongoDB) GetProject(ctx context.Context, filter ports.ProjectFilter) (*model.Project, error) {
	query, ok := projectQuery(filter)
	if !ok {
		return nil, model.ErrNotFound
	}
	dbProject := new(projectDB)
	if err := p.projectCollection.FindOne(ctx, query).Decode(dbProject); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	project := translateDBToProject(*dbProject)
	return &project, nil
}

// ListMemberProjects lists the projects created by the user or the user was accepted into, most
// recently active first.
func (p *MongoDB) ListMemberProjects(ctx context.Context, userID string) ([]model.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []model.Project{}, nil
	}
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "createdBy", Value: objectID}},
		bson.D{{Key: "acceptedUsers", Value: objectID}},
	}}}
	opts := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := p.projectCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var projects []projectDB
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return translateDBToProjects(projects), nil
}

// SampleCandidates returns a random sample of the projects the viewer did not create nor swipe on.
func (p *MongoDB) SampleCandidates(ctx context.Context, query ports.CandidateQuery) ([]model.Project, error) {
	if query.Size <= 0 {
		return []model.Project{}, nil
	}
	// an unparsable viewer excludes nobody
	viewerID, _ := primitive.ObjectIDFromHex(query.ViewerID)
	match := bson.D{
		{Key: "createdBy", Value: bson.D{{Key: "$ne", Value: viewerID}}},
		{Key: "swipeLeft", Value: bson.D{{Key: "$nin", Value: bson.A{viewerID}}}},
		{Key: "swipeRight", Value: bson.D{{Key: "$nin", Value: bson.A{viewerID}}}},
	}
	if len(query.Attributes) > 0 {
		match = append(match, bson.E{Key: "attributes", Value: bson.D{{Key: "$all", Value: query.Attributes}}})
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: query.Size}}}},
	}
	cursor, err := p.projectCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var projects []projectDB
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return translateDBToProjects(projects), nil
}

// UpdateProjectDetails sets name and description of the project matching the filter.
func (p *MongoDB) UpdateProjectDetails(ctx context.Context, filter ports.ProjectFilter, name, description string) (int64, error) {
	query, ok := projectQuery(filter)
	if !ok {
		return 0, nil
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: name},
		{Key: "description", Value: description},
	}}}
	res, err := p.projectCollection.UpdateOne(ctx, query, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// AddToProjectSet adds value to a set of the project matching the filter.
func (p *MongoDB) AddToProjectSet(ctx context.Context, filter ports.ProjectFilter, field ports.ProjectSet, value string) (int64, error) {
	return p.updateProjectSet(ctx, "$addToSet", filter, field, value)
}

// PullFromProjectSet removes value from a set of the project matching the filter.
func (p *MongoDB) PullFromProjectSet(ctx context.Context, filter ports.ProjectFilter, field ports.ProjectSet, value string) (int64, error) {
	return p.updateProjectSet(ctx, "$pull", filter, field, value)
}

func (p *MongoDB) updateProjectSet(ctx context.Context, operator string, filter ports.ProjectFilter, field ports.ProjectSet, value string) (int64, error) {
	query, ok := projectQuery(filter)
	if !ok {
		return 0, nil
	}
	element, ok := setElement(field == ports.ProjectAttributes, value)
	if !ok {
		return 0, nil
	}
	update := bson.D{{Key: operator, Value: bson.D{{Key: string(field), Value: element}}}}
	res, err := p.projectCollection.UpdateOne(ctx, query, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// AddSwipe records a swipe. The filter only matches when the user is not the creator and did not
// swipe on the project in any direction.
func (p *MongoDB) AddSwipe(ctx context.Context, projectID, userID string, direction model.SwipeDirection) (int64, error) {
	projectOID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return 0, nil
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}
	field := ports.ProjectSwipeLeft
	if direction == model.SwipeRight {
		field = ports.ProjectSwipeRight
	}
	filter := bson.D{
		{Key: "_id", Value: projectOID},
		{Key: "createdBy", Value: bson.D{{Key: "$ne", Value: userOID}}},
		{Key: "swipeLeft", Value: bson.D{{Key: "$ne", Value: userOID}}},
		{Key: "swipeRight", Value: bson.D{{Key: "$ne", Value: userOID}}},
	}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: string(field), Value: userOID}}}}
	res, err := p.projectCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// AcceptCandidate admits a collaborator and seeds its read receipt at readAt.
func (p *MongoDB) AcceptCandidate(ctx context.Context, decision ports.Decision, readAt time.Time) (int64, error) {
	filter, collaborator, ok := decisionQuery(decision)
	if !ok {
		return 0, nil
	}
	update := bson.D{{Key: "$addToSet", Value: bson.D{
		{Key: string(ports.ProjectAccepted), Value: collaborator},
		{Key: "lastReadAt", Value: lastReadAtDB{UserID: collaborator, Date: readAt}},
	}}}
	res, err := p.projectCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// RejectCandidate declines a collaborator.
func (p *MongoDB) RejectCandidate(ctx context.Context, decision ports.Decision) (int64, error) {
	filter, collaborator, ok := decisionQuery(decision)
	if !ok {
		return 0, nil
	}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: string(ports.ProjectRejected), Value: collaborator}}}}
	res, err := p.projectCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ReplaceLastReadAt moves the read receipt of the user to at, keeping a single entry per user.
// The existing entry is updated in place; members without one get it pushed under a guard that
// no entry was pushed concurrently.
func (p *MongoDB) ReplaceLastReadAt(ctx context.Context, projectID, userID string, at time.Time) error {
	projectOID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return model.ErrNotFound
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.ErrNotFound
	}
	set := func() (int64, error) {
		filter := bson.D{{Key: "_id", Value: projectOID}, {Key: "lastReadAt.userId", Value: userOID}}
		update := bson.D{{Key: "$set", Value: bson.D{{Key: "lastReadAt.$.date", Value: at}}}}
		res, err := p.projectCollection.UpdateOne(ctx, filter, update)
		if err != nil {
			return 0, fmt.Errorf("error updating read receipt: %w", err)
		}
		return res.MatchedCount, nil
	}

	matched, err := set()
	if err != nil || matched == 1 {
		return err
	}
	filter := bson.D{
		{Key: "_id", Value: projectOID},
		{Key: "lastReadAt.userId", Value: bson.D{{Key: "$ne", Value: userOID}}},
	}
	push := bson.D{{Key: "$push", Value: bson.D{{Key: "lastReadAt", Value: lastReadAtDB{UserID: userOID, Date: at}}}}}
	res, err := p.projectCollection.UpdateOne(ctx, filter, push)
	if err != nil {
		return fmt.Errorf("error adding read receipt: %w", err)
	}
	if res.MatchedCount == 0 {
		// a concurrent writer created the entry first
		_, err = set()
	}
	return err
}

// TouchLastMessageAt moves lastMessageAt forward. $max keeps it monotonic under concurrent writers.
func (p *MongoDB) TouchLastMessageAt(ctx context.Context, projectID string, at time.Time) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return 0, nil
	}
	update := bson.D{{Key: "$max", Value: bson.D{{Key: "lastMessageAt", Value: at}}}}
	res, err := p.projectCollection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteProject removes the project matching the filter.
func (p *MongoDB) DeleteProject(ctx context.Context, filter ports.ProjectFilter) (int64, error) {
	query, ok := projectQuery(filter)
	if !ok {
		return 0, nil
	}
	res, err := p.projectCollection.DeleteOne(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SaveMessage appends a message.
func (p *MongoDB) SaveMessage(ctx context.Context, message *model.ChatMessage) error {
	if message == nil {
		return errors.New("nil message passed to save method")
	}
	projectID, err := primitive.ObjectIDFromHex(message.Project)
	if err != nil {
		return fmt.Errorf("invalid project id [%s]: %w", message.Project, err)
	}
	senderID, err := primitive.ObjectIDFromHex(message.Sender)
	if err != nil {
		return fmt.Errorf("invalid sender id [%s]: %w", message.Sender, err)
	}
	dbMessage := &messageDB{
		ID:          primitive.NewObjectID(),
		Message:     message.Message,
		Project:     projectID,
		Sender:      senderID,
		CreatedAt:   message.CreatedAt,
		MessageType: string(message.MessageType),
	}
	if dbMessage.CreatedAt.IsZero() {
		dbMessage.CreatedAt = p.nowFunc()
	}
	if _, err := p.messageCollection.InsertOne(ctx, dbMessage); err != nil {
		return err
	}
	message.ID = dbMessage.ID.Hex()
	message.CreatedAt = dbMessage.CreatedAt
	return nil
}

// ListMessages lists the messages of a project created before the cursor, newest first. Ties on
// the creation time are broken by insertion order.
func (p *MongoDB) ListMessages(ctx context.Context, query ports.MessageQuery) ([]model.ChatMessage, error) {
	projectID, err := primitive.ObjectIDFromHex(query.ProjectID)
	if err != nil {
		return []model.ChatMessage{}, nil
	}
	filter := bson.D{
		{Key: "project", Value: projectID},
		{Key: "createdAt", Value: bson.D{{Key: "$lt", Value: query.CreatedBefore}}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(query.Offset)).
		SetLimit(int64(query.Limit))
	cursor, err := p.messageCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var messages []messageDB
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return translateDBToMessages(messages), nil
}

// DeleteMessages removes every message of the project.
func (p *MongoDB) DeleteMessages(ctx context.Context, projectID string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return 0, nil
	}
	res, err := p.messageCollection.DeleteMany(ctx, bson.D{{Key: "project", Value: objectID}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Ping checks the connectivity of the underlying client.
func (p *MongoDB) Ping(ctx context.Context) error {
	return p.userCollection.Database().Client().Ping(ctx, nil)
}

// setElement converts a set member to its stored form: attributes are strings, everything else
// is an object id.
func setElement(isAttribute bool, value string) (any, bool) {
	if isAttribute {
		return value, true
	}
	objectID, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return nil, false
	}
	return objectID, true
}

func projectQuery(filter ports.ProjectFilter) (bson.D, bool) {
	objectID, err := primitive.ObjectIDFromHex(filter.ID)
	if err != nil {
		return nil, false
	}
	query := bson.D{{Key: "_id", Value: objectID}}
	if filter.CreatedBy != "" {
		owner, err := primitive.ObjectIDFromHex(filter.CreatedBy)
		if err != nil {
			return nil, false
		}
		query = append(query, bson.E{Key: "createdBy", Value: owner})
	}
	return query, true
}

// decisionQuery matches the project only while the collaborator is a pending right swiper.
func decisionQuery(decision ports.Decision) (bson.D, primitive.ObjectID, bool) {
	query, ok := projectQuery(ports.ProjectFilter{ID: decision.ProjectID, CreatedBy: decision.OwnerID})
	if !ok || decision.OwnerID == "" {
		return nil, primitive.NilObjectID, false
	}
	collaborator, err := primitive.ObjectIDFromHex(decision.CollaboratorID)
	if err != nil {
		return nil, primitive.NilObjectID, false
	}
	query = append(query,
		bson.E{Key: "swipeRight", Value: collaborator},
		bson.E{Key: "swipeLeft", Value: bson.D{{Key: "$ne", Value: collaborator}}},
		bson.E{Key: "acceptedUsers", Value: bson.D{{Key: "$ne", Value: collaborator}}},
		bson.E{Key: "rejectedUsers", Value: bson.D{{Key: "$ne", Value: collaborator}}},
	)
	return query, collaborator, true
}

func (p *MongoDB) toDBUser(user *model.User) (*userDB, error) {
	dbUser := &userDB{
		Username:          strings.ToLower(user.Username),
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Bio:               user.Bio,
		Attributes:        user.Attributes.Values(),
		IsVerified:        user.IsVerified,
		VerificationToken: user.VerificationToken,
		JoinedAt:          user.JoinedAt,
	}
	if len(user.ID) == 0 {
		dbUser.ID = primitive.NewObjectID()
	} else {
		var err error
		if dbUser.ID, err = primitive.ObjectIDFromHex(user.ID); err != nil {
			return nil, fmt.Errorf("invalid user id [%s]: %w", user.ID, err)
		}
	}
	if dbUser.JoinedAt.IsZero() {
		dbUser.JoinedAt = p.nowFunc()
	}
	var err error
	if dbUser.Projects, err = toObjectIDs(user.Projects); err != nil {
		return nil, err
	}
	if dbUser.JoinedProjects, err = toObjectIDs(user.JoinedProjects); err != nil {
		return nil, err
	}
	if dbUser.SwipeLeft, err = toObjectIDs(user.SwipeLeft); err != nil {
		return nil, err
	}
	if dbUser.SwipeRight, err = toObjectIDs(user.SwipeRight); err != nil {
		return nil, err
	}
	return dbUser, nil
}

func toDBProject(project *model.Project) (*projectDB, error) {
	createdBy, err := primitive.ObjectIDFromHex(project.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id [%s]: %w", project.CreatedBy, err)
	}
	dbProject := &projectDB{
		ID:            primitive.NewObjectID(),
		Name:          project.Name,
		Description:   project.Description,
		CreatedBy:     createdBy,
		Attributes:    project.Attributes.Values(),
		LastReadAt:    make([]lastReadAtDB, 0, len(project.LastReadAt)),
		LastMessageAt: project.LastMessageAt,
	}
	if dbProject.SwipeLeft, err = toObjectIDs(project.SwipeLeft); err != nil {
		return nil, err
	}
	if dbProject.SwipeRight, err = toObjectIDs(project.SwipeRight); err != nil {
		return nil, err
	}
	if dbProject.AcceptedUsers, err = toObjectIDs(project.AcceptedUsers); err != nil {
		return nil, err
	}
	if dbProject.RejectedUsers, err = toObjectIDs(project.RejectedUsers); err != nil {
		return nil, err
	}
	for _, entry := range project.LastReadAt {
		userID, err := primitive.ObjectIDFromHex(entry.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid reader id [%s]: %w", entry.UserID, err)
		}
		dbProject.LastReadAt = append(dbProject.LastReadAt, lastReadAtDB{UserID: userID, Date: entry.Date})
	}
	return dbProject, nil
}

func toObjectIDs(s model.Set) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, s.Len())
	for _, v := range s.Values() {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return nil, fmt.Errorf("invalid id [%s]: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func fromObjectIDs(ids []primitive.ObjectID) model.Set {
	s := make(model.Set, len(ids))
	for _, id := range ids {
		s.Add(id.Hex())
	}
	return s
}

func translateDBToUser(dbUser userDB) model.User {
	return model.User{
		ID:                dbUser.ID.Hex(),
		Username:          dbUser.Username,
		Email:             dbUser.Email,
		FirstName:         dbUser.FirstName,
		LastName:          dbUser.LastName,
		Bio:               dbUser.Bio,
		Attributes:        model.NewSet(dbUser.Attributes...),
		IsVerified:        dbUser.IsVerified,
		VerificationToken: dbUser.VerificationToken,
		JoinedAt:          dbUser.JoinedAt,
		Projects:          fromObjectIDs(dbUser.Projects),
		JoinedProjects:    fromObjectIDs(dbUser.JoinedProjects),
		SwipeLeft:         fromObjectIDs(dbUser.SwipeLeft),
		SwipeRight:        fromObjectIDs(dbUser.SwipeRight),
	}
}

func translateDBToProjects(dbProjects []projectDB) []model.Project {
	models := make([]model.Project, len(dbProjects))
	for i, dbProject := range dbProjects {
		models[i] = translateDBToProject(dbProject)
	}
	return models
}

func translateDBToProject(dbProject projectDB) model.Project {
	lastReadAt := make([]model.LastReadAt, len(dbProject.LastReadAt))
	for i, entry := range dbProject.LastReadAt {
		lastReadAt[i] = model.LastReadAt{UserID: entry.UserID.Hex(), Date: entry.Date}
	}
	return model.Project{
		ID:            dbProject.ID.Hex(),
		Name:          dbProject.Name,
		Description:   dbProject.Description,
		CreatedBy:     dbProject.CreatedBy.Hex(),
		Attributes:    model.NewSet(dbProject.Attributes...),
		SwipeLeft:     fromObjectIDs(dbProject.SwipeLeft),
		SwipeRight:    fromObjectIDs(dbProject.SwipeRight),
		AcceptedUsers: fromObjectIDs(dbProject.AcceptedUsers),
		RejectedUsers: fromObjectIDs(dbProject.RejectedUsers),
		LastReadAt:    lastReadAt,
		LastMessageAt: dbProject.LastMessageAt,
	}
}

func translateDBToMessages(dbMessages []messageDB) []model.ChatMessage {
	models := make([]model.ChatMessage, len(dbMessages))
	for i, m := range dbMessages {
		models[i] = model.ChatMessage{
			ID:          m.ID.Hex(),
			Message:     m.Message,
			Project:     m.Project.Hex(),
			Sender:      m.Sender.Hex(),
			CreatedAt:   m.CreatedAt,
			MessageType: model.MessageType(m.MessageType),
		}
	}
	return models
}

type userDB struct {
	// ID unique identifier of the user.
	ID primitive.ObjectID `bson:"_id"`

	// Username is stored lower-cased; the unique index uses a case-insensitive collation.
	Username string `bson:"username"`

	// Email is the user email
	Email string `bson:"email"`

	// FirstName is the user first name.
	FirstName string `bson:"firstName"`

	// LastName is the user last name.
	LastName string `bson:"lastName"`

	Bio string `bson:"bio"`

	Attributes []string `bson:"attributes"`

	IsVerified bool `bson:"isVerified"`

	// VerificationToken is null once the user is verified.
	VerificationToken *string `bson:"verificationToken"`

	// JoinedAt is the time at which the user signed up.
	JoinedAt time.Time `bson:"joinedAt"`

	Projects       []primitive.ObjectID `bson:"projects"`
	JoinedProjects []primitive.ObjectID `bson:"joinedProjects"`
	SwipeLeft      []primitive.ObjectID `bson:"swipeLeft"`
	SwipeRight     []primitive.ObjectID `bson:"swipeRight"`
}

type lastReadAtDB struct {
	UserID primitive.ObjectID `bson:"userId"`
	Date   time.Time          `bson:"date"`
}

type projectDB struct {
	// ID unique identifier of the project.
	ID primitive.ObjectID `bson:"_id"`

	Name        string `bson:"name"`
	Description string `bson:"description"`

	// CreatedBy is the owner. It is part of the filter of every owner-only update.
	CreatedBy primitive.ObjectID `bson:"createdBy"`

	Attributes    []string             `bson:"attributes"`
	SwipeLeft     []primitive.ObjectID `bson:"swipeLeft"`
	SwipeRight    []primitive.ObjectID `bson:"swipeRight"`
	AcceptedUsers []primitive.ObjectID `bson:"acceptedUsers"`
	RejectedUsers []primitive.ObjectID `bson:"rejectedUsers"`

	LastReadAt []lastReadAtDB `bson:"lastReadAt"`

	// LastMessageAt is the creation time of the most recent message which is not a read receipt.
	LastMessageAt time.Time `bson:"lastMessageAt"`
}

type messageDB struct {
	ID          primitive.ObjectID `bson:"_id"`
	Message     string             `bson:"message"`
	Project     primitive.ObjectID `bson:"project"`
	Sender      primitive.ObjectID `bson:"sender"`
	CreatedAt   time.Time          `bson:"createdAt"`
	MessageType string             `bson:"messageType"`
}
