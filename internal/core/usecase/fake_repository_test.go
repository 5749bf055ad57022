package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
)

// fakeRepository is an in-memory ports.Repository honoring the update guards of the mongo actor.
type fakeRepository struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*model.User
	projects map[string]*model.Project
	messages []model.ChatMessage

	// failures makes the named method fail with the given error.
	failures map[string]error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:    map[string]*model.User{},
		projects: map[string]*model.Project{},
		failures: map[string]error{},
	}
}

func (r *fakeRepository) nextID() string {
	r.seq++
	return fmt.Sprintf("%024x", r.seq)
}

func (r *fakeRepository) fail(method string) error {
	return r.failures[method]
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Attributes = u.Attributes.Clone()
	c.Projects = u.Projects.Clone()
	c.JoinedProjects = u.JoinedProjects.Clone()
	c.SwipeLeft = u.SwipeLeft.Clone()
	c.SwipeRight = u.SwipeRight.Clone()
	return &c
}

func cloneProject(p *model.Project) *model.Project {
	c := *p
	c.Attributes = p.Attributes.Clone()
	c.SwipeLeft = p.SwipeLeft.Clone()
	c.SwipeRight = p.SwipeRight.Clone()
	c.AcceptedUsers = p.AcceptedUsers.Clone()
	c.RejectedUsers = p.RejectedUsers.Clone()
	c.LastReadAt = append([]model.LastReadAt(nil), p.LastReadAt...)
	return &c
}

func (r *fakeRepository) userSet(u *model.User, field ports.UserSet) *model.Set {
	switch field {
	case ports.UserProjects:
		return &u.Projects
	case ports.UserJoinedProjects:
		return &u.JoinedProjects
	case ports.UserSwipeLeft:
		return &u.SwipeLeft
	case ports.UserSwipeRight:
		return &u.SwipeRight
	case ports.UserAttributes:
		return &u.Attributes
	}
	panic("unknown user set " + string(field))
}

func (r *fakeRepository) projectSet(p *model.Project, field ports.ProjectSet) *model.Set {
	switch field {
	case ports.ProjectSwipeLeft:
		return &p.SwipeLeft
	case ports.ProjectSwipeRight:
		return &p.SwipeRight
	case ports.ProjectAccepted:
		return &p.AcceptedUsers
	case ports.ProjectRejected:
		return &p.RejectedUsers
	case ports.ProjectAttributes:
		return &p.Attributes
	}
	panic("unknown project set " + string(field))
}

func (r *fakeRepository) match(filter ports.ProjectFilter) (*model.Project, bool) {
	p, ok := r.projects[filter.ID]
	if !ok || (filter.CreatedBy != "" && p.CreatedBy != filter.CreatedBy) {
		return nil, false
	}
	return p, true
}

func modifiedCount(changed bool) int64 {
	if changed {
		return 1
	}
	return 0
}

func (r *fakeRepository) SaveUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("SaveUser"); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = r.nextID()
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("GetUser"); err != nil {
		return nil, err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeRepository) AddToUserSet(ctx context.Context, userID string, field ports.UserSet, value string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("AddToUserSet"); err != nil {
		return 0, err
	}
	u, ok := r.users[userID]
	if !ok {
		return 0, nil
	}
	return modifiedCount(r.userSet(u, field).Add(value)), nil
}

func (r *fakeRepository) PullFromUserSet(ctx context.Context, userID string, field ports.UserSet, value string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("PullFromUserSet"); err != nil {
		return 0, err
	}
	u, ok := r.users[userID]
	if !ok {
		return 0, nil
	}
	return modifiedCount(r.userSet(u, field).Remove(value)), nil
}

func (r *fakeRepository) SaveProject(ctx context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("SaveProject"); err != nil {
		return err
	}
	project.ID = r.nextID()
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *fakeRepository) GetProject(ctx context.Context, filter ports.ProjectFilter) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("GetProject"); err != nil {
		return nil, err
	}
	p, ok := r.match(filter)
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *fakeRepository) ListMemberProjects(ctx context.Context, userID string) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("ListMemberProjects"); err != nil {
		return nil, err
	}
	var projects []model.Project
	for _, p := range r.projects {
		if p.IsMember(userID) {
			projects = append(projects, *cloneProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (r *fakeRepository) SampleCandidates(ctx context.Context, query ports.CandidateQuery) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("SampleCandidates"); err != nil {
		return nil, err
	}
	var candidates []model.Project
	for _, p := range r.projects {
		if p.CreatedBy == query.ViewerID || p.SwipeLeft.Has(query.ViewerID) || p.SwipeRight.Has(query.ViewerID) {
			continue
		}
		if !p.Attributes.HasAll(query.Attributes...) {
			continue
		}
		candidates = append(candidates, *cloneProject(p))
	}
	rand.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	if len(candidates) > query.Size {
		candidates = candidates[:query.Size]
	}
	return candidates, nil
}

func (r *fakeRepository) UpdateProjectDetails(ctx context.Context, filter ports.ProjectFilter, name, description string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("UpdateProjectDetails"); err != nil {
		return 0, err
	}
	p, ok := r.match(filter)
	if !ok || (p.Name == name && p.Description == description) {
		return 0, nil
	}
	p.Name, p.Description = name, description
	return 1, nil
}

func (r *fakeRepository) AddToProjectSet(ctx context.Context, filter ports.ProjectFilter, field ports.ProjectSet, value string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("AddToProjectSet"); err != nil {
		return 0, err
	}
	p, ok := r.match(filter)
	if !ok {
		return 0, nil
	}
	return modifiedCount(r.projectSet(p, field).Add(value)), nil
}

func (r *fakeRepository) PullFromProjectSet(ctx context.Context, filter ports.ProjectFilter, field ports.ProjectSet, value string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("PullFromProjectSet"); err != nil {
		return 0, err
	}
	p, ok := r.match(filter)
	if !ok {
		return 0, nil
	}
	return modifiedCount(r.projectSet(p, field).Remove(value)), nil
}

func (r *fakeRepository) AddSwipe(ctx context.Context, projectID, userID string, direction model.SwipeDirection) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("AddSwipe"); err != nil {
		return 0, err
	}
	p, ok := r.projects[projectID]
	if !ok || p.CreatedBy == userID || p.SwipeLeft.Has(userID) || p.SwipeRight.Has(userID) {
		return 0, nil
	}
	if direction == model.SwipeLeft {
		return modifiedCount(p.SwipeLeft.Add(userID)), nil
	}
	return modifiedCount(p.SwipeRight.Add(userID)), nil
}

func (r *fakeRepository) decidable(d ports.Decision) (*model.Project, bool) {
	p, ok := r.match(ports.ProjectFilter{ID: d.ProjectID, CreatedBy: d.OwnerID})
	if !ok {
		return nil, false
	}
	c := d.CollaboratorID
	if !p.SwipeRight.Has(c) || p.SwipeLeft.Has(c) || p.AcceptedUsers.Has(c) || p.RejectedUsers.Has(c) {
		return nil, false
	}
	return p, true
}

func (r *fakeRepository) AcceptCandidate(ctx context.Context, decision ports.Decision, readAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("AcceptCandidate"); err != nil {
		return 0, err
	}
	p, ok := r.decidable(decision)
	if !ok {
		return 0, nil
	}
	p.AcceptedUsers.Add(decision.CollaboratorID)
	p.LastReadAt = append(p.LastReadAt, model.LastReadAt{UserID: decision.CollaboratorID, Date: readAt})
	return 1, nil
}

func (r *fakeRepository) RejectCandidate(ctx context.Context, decision ports.Decision) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("RejectCandidate"); err != nil {
		return 0, err
	}
	p, ok := r.decidable(decision)
	if !ok {
		return 0, nil
	}
	p.RejectedUsers.Add(decision.CollaboratorID)
	return 1, nil
}

func (r *fakeRepository) ReplaceLastReadAt(ctx context.Context, projectID, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("ReplaceLastReadAt"); err != nil {
		return err
	}
	p, ok := r.projects[projectID]
	if !ok {
		return nil
	}
	kept := p.LastReadAt[:0]
	for _, entry := range p.LastReadAt {
		if entry.UserID != userID {
			kept = append(kept, entry)
		}
	}
	p.LastReadAt = append(kept, model.LastReadAt{UserID: userID, Date: at})
	return nil
}

func (r *fakeRepository) TouchLastMessageAt(ctx context.Context, projectID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("TouchLastMessageAt"); err != nil {
		return 0, err
	}
	p, ok := r.projects[projectID]
	if !ok || !at.After(p.LastMessageAt) {
		return 0, nil
	}
	p.LastMessageAt = at
	return 1, nil
}

func (r *fakeRepository) DeleteProject(ctx context.Context, filter ports.ProjectFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("DeleteProject"); err != nil {
		return 0, err
	}
	if _, ok := r.match(filter); !ok {
		return 0, nil
	}
	delete(r.projects, filter.ID)
	return 1, nil
}

func (r *fakeRepository) SaveMessage(ctx context.Context, message *model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("SaveMessage"); err != nil {
		return err
	}
	message.ID = r.nextID()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeRepository) ListMessages(ctx context.Context, query ports.MessageQuery) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("ListMessages"); err != nil {
		return nil, err
	}
	var messages []model.ChatMessage
	for _, m := range r.messages {
		if m.Project == query.ProjectID && m.CreatedAt.Before(query.CreatedBefore) {
			messages = append(messages, m)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.After(messages[j].CreatedAt)
		}
		return messages[i].ID > messages[j].ID
	})
	if query.Offset >= len(messages) {
		return nil, nil
	}
	messages = messages[query.Offset:]
	if len(messages) > query.Limit {
		messages = messages[:query.Limit]
	}
	return messages, nil
}

func (r *fakeRepository) DeleteMessages(ctx context.Context, projectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("DeleteMessages"); err != nil {
		return 0, err
	}
	kept := r.messages[:0]
	var deleted int64
	for _, m := range r.messages {
		if m.Project == projectID {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return deleted, nil
}

// messagesOf returns the stored messages of a project in insertion order.
func (r *fakeRepository) messagesOf(projectID string) []model.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []model.ChatMessage
	for _, m := range r.messages {
		if m.Project == projectID {
			messages = append(messages, m)
		}
	}
	return messages
}

// recordingBroadcaster records every broadcast event.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []model.ChatEvent
	err    error
}

func (b *recordingBroadcaster) Broadcast(ctx context.Context, event model.ChatEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return b.err
}

func (b *recordingBroadcaster) ofType(t model.MessageType) []model.ChatEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var events []model.ChatEvent
	for _, e := range b.events {
		if e.Message.MessageType == t {
			events = append(events, e)
		}
	}
	return events
}

// fakeClock is a monotonic clock advancing one second per reading.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// fixture wires every service on top of the fakes.
type fixture struct {
	repo         *fakeRepository
	broadcaster  *recordingBroadcaster
	clock        *fakeClock
	chat         *ChatService
	projects     *ProjectService
	matching     *MatchingService
	users        *UserService
	notification *NotificationService
}

func newFixture() *fixture {
	repo := newFakeRepository()
	broadcaster := &recordingBroadcaster{}
	clock := newFakeClock()
	vocabulary := model.NewVocabulary(model.DefaultAttributes...)
	chat := NewChatService(ChatServiceArgs{Repository: repo, Broadcaster: broadcaster, NowFunc: clock.Now})
	return &fixture{
		repo:        repo,
		broadcaster: broadcaster,
		clock:       clock,
		chat:        chat,
		projects: NewProjectService(ProjectServiceArgs{
			Repository: repo,
			Emitter:    chat,
			Vocabulary: vocabulary,
			NowFunc:    clock.Now,
		}),
		matching: NewMatchingService(MatchingServiceArgs{
			Repository: repo,
			Emitter:    chat,
			Vocabulary: vocabulary,
		}),
		users:        NewUserService(UserServiceArgs{Repository: repo, Vocabulary: vocabulary}),
		notification: NewNotificationService(NotificationServiceArgs{Repository: repo}),
	}
}

// user stores a verified user.
func (f *fixture) user(username string) *model.User {
	u := &model.User{Username: username, Email: username + "@example.com", IsVerified: true}
	if err := f.repo.SaveUser(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

// project creates a project owned by owner through the service.
func (f *fixture) project(owner *model.User, attributes ...string) *model.Project {
	ctx := context.Background()
	res, err := f.projects.CreateProject(ctx, model.CreateProjectArgs{ViewerID: owner.ID})
	if err != nil {
		panic(err)
	}
	for _, a := range attributes {
		if err := f.projects.AddAttribute(ctx, model.ProjectAttributeArgs{ViewerID: owner.ID, ProjectID: res.Project.ID, Attribute: a}); err != nil {
			panic(err)
		}
	}
	return &res.Project
}

func (f *fixture) getUser(id string) *model.User {
	u, err := f.repo.GetUser(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) getProject(id string) *model.Project {
	p, err := f.repo.GetProject(context.Background(), ports.ProjectFilter{ID: id})
	if err != nil {
		panic(err)
	}
	return p
}

func projectFilter(id string) ports.ProjectFilter {
	return ports.ProjectFilter{ID: id}
}
