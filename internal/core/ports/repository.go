package ports

import (
	"context"
	"time"

	"github.com/rbroggi/matchup/internal/core/model"
)

// UserSet names a set-valued field of a user document.
type UserSet string

const (
	UserProjects       UserSet = "projects"
	UserJoinedProjects UserSet = "joinedProjects"
	UserSwipeLeft      UserSet = "swipeLeft"
	UserSwipeRight     UserSet = "swipeRight"
	UserAttributes     UserSet = "attributes"
)

// ProjectSet names a set-valued field of a project document.
type ProjectSet string

const (
	ProjectSwipeLeft  ProjectSet = "swipeLeft"
	ProjectSwipeRight ProjectSet = "swipeRight"
	ProjectAccepted   ProjectSet = "acceptedUsers"
	ProjectRejected   ProjectSet = "rejectedUsers"
	ProjectAttributes ProjectSet = "attributes"
)

// Repository is the interface for the persistence layer. Every mutation touches a single
// document and returns the number of documents it modified.
type Repository interface {
	// SaveUser durably saves a new user.
	SaveUser(ctx context.Context, user *model.User) error

	// GetUser returns the user with the given id, or model.ErrNotFound.
	GetUser(ctx context.Context, id string) (*model.User, error)

	// AddToUserSet adds value to a set of the user.
	AddToUserSet(ctx context.Context, userID string, field UserSet, value string) (int64, error)

	// PullFromUserSet removes value from a set of the user.
	PullFromUserSet(ctx context.Context, userID string, field UserSet, value string) (int64, error)

	// SaveProject durably saves a new project. The generated id is written back.
	SaveProject(ctx context.Context, project *model.Project) error

	// GetProject returns the project matching the filter, or model.ErrNotFound.
	GetProject(ctx context.Context, filter ProjectFilter) (*model.Project, error)

	// ListMemberProjects lists the projects the user created or was accepted into.
	ListMemberProjects(ctx context.Context, userID string) ([]model.Project, error)

	// SampleCandidates returns a uniform random sample of the projects matching the query.
	SampleCandidates(ctx context.Context, query CandidateQuery) ([]model.Project, error)

	// UpdateProjectDetails sets name and description of the project matching the filter.
	UpdateProjectDetails(ctx context.Context, filter ProjectFilter, name, description string) (int64, error)

	// AddToProjectSet adds value to a set of the project matching the filter.
	AddToProjectSet(ctx context.Context, filter ProjectFilter, field ProjectSet, value string) (int64, error)

	// PullFromProjectSet removes value from a set of the project matching the filter.
	PullFromProjectSet(ctx context.Context, filter ProjectFilter, field ProjectSet, value string) (int64, error)

	// AddSwipe records the swipe of userID on the project, but only if the user is not the
	// creator and has not swiped on it yet.
	AddSwipe(ctx context.Context, projectID, userID string, direction model.SwipeDirection) (int64, error)

	// AcceptCandidate admits a user who swiped right and was neither accepted nor rejected yet,
	// seeding its read receipt at readAt. Only the owner can accept.
	AcceptCandidate(ctx context.Context, decision Decision, readAt time.Time) (int64, error)

	// RejectCandidate declines a user who swiped right and was neither accepted nor rejected
	// yet. Only the owner can reject.
	RejectCandidate(ctx context.Context, decision Decision) (int64, error)

	// ReplaceLastReadAt replaces the read receipt of userID on the project.
	ReplaceLastReadAt(ctx context.Context, projectID, userID string, at time.Time) error

	// TouchLastMessageAt moves lastMessageAt forward to at. It never moves it backwards.
	TouchLastMessageAt(ctx context.Context, projectID string, at time.Time) (int64, error)

	// DeleteProject removes the project matching the filter.
	DeleteProject(ctx context.Context, filter ProjectFilter) (int64, error)

	// SaveMessage appends a message. The generated id is written back.
	SaveMessage(ctx context.Context, message *model.ChatMessage) error

	// ListMessages lists the messages of a project newest first.
	ListMessages(ctx context.Context, query MessageQuery) ([]model.ChatMessage, error)

	// DeleteMessages removes every message of the project.
	DeleteMessages(ctx context.Context, projectID string) (int64, error)
}

// ProjectFilter selects a single project. CreatedBy, when set, is an ownership predicate.
type ProjectFilter struct {
	// ID is the project id.
	ID string

	// CreatedBy restricts the match to projects owned by this user. Zero-value will be ignored as filter.
	CreatedBy string
}

// CandidateQuery gathers the parameters of the candidate sampling.
type CandidateQuery struct {
	// ViewerID is excluded as creator and as swiper.
	ViewerID string

	// Attributes must all be carried by a candidate. Zero-value will be ignored as filter.
	Attributes []string

	// Size is the sample size.
	Size int
}

// Decision identifies an accept or reject of a collaborator by a project owner.
type Decision struct {
	ProjectID      string
	OwnerID        string
	CollaboratorID string
}

// MessageQuery gathers the parameters of a message page.
type MessageQuery struct {
	// ProjectID is the project whose messages are listed.
	ProjectID string

	// CreatedBefore is the exclusive upper bound on the creation time.
	CreatedBefore time.Time

	// Offset is the amount of messages to skip.
	Offset int

	// Limit is the maximum amount of messages to return.
	Limit int
}
