package model

import (
	"time"
)

// MaxPageSize bounds every paginated read.
const MaxPageSize = 100

// ListProjectsArgs contain the arguments of the ListProjects use-case.
type ListProjectsArgs struct {
	// ViewerID is the authenticated user.
	ViewerID string
}

// ListProjectsResponse contains the projects the viewer created or joined.
type ListProjectsResponse struct {
	Projects []Project `json:"projects"`
}

// ListMatchOptionsArgs contain the arguments of the ListMatchOptions use-case.
type ListMatchOptionsArgs struct {
	// ViewerID is the authenticated user.
	ViewerID string

	// Attributes every returned project must carry. Empty means no filter.
	Attributes []string `validate:"dive,required"`

	// PageSize is the maximum amount of projects to return.
	PageSize int `validate:"gte=0,lte=100"`
}

// ListMatchOptionsResponse contains a random page of candidate projects.
type ListMatchOptionsResponse struct {
	Projects []Project `json:"projects"`
	HasNext  bool      `json:"hasNext"`
}

// CreateProjectArgs contain the arguments of the CreateProject use-case.
type CreateProjectArgs struct {
	ViewerID string
}

// CreateProjectResponse contains the created blank project.
type CreateProjectResponse struct {
	Project Project `json:"project"`
}

// UpdateProjectArgs contain the arguments of the UpdateProject use-case.
type UpdateProjectArgs struct {
	ViewerID string

	// ProjectID is the project to update.
	ProjectID string `validate:"required,mongodb"`

	// Name is the new name of the project.
	Name string `validate:"required,max=200"`

	// Description is the new description of the project.
	Description string `validate:"required,max=5000"`
}

// ProjectAttributeArgs contain the arguments for adding or deleting a project attribute.
type ProjectAttributeArgs struct {
	ViewerID string

	ProjectID string `validate:"required,mongodb"`

	Attribute string `validate:"required"`
}

// DeleteProjectArgs contain the arguments of the DeleteProject use-case.
type DeleteProjectArgs struct {
	ViewerID string

	ProjectID string `validate:"required,mongodb"`
}

// SwipeArgs contain the arguments of the Swipe use-case.
type SwipeArgs struct {
	ViewerID string

	ProjectID string `validate:"required,mongodb"`

	Direction SwipeDirection `validate:"required,oneof=left right"`
}

// DecisionArgs contain the arguments for accepting or rejecting a collaborator.
type DecisionArgs struct {
	// ViewerID is the owner of the project.
	ViewerID string

	ProjectID string `validate:"required,mongodb"`

	// CollaboratorID is the user who swiped right on the project.
	CollaboratorID string `validate:"required,mongodb"`
}

// UndoLeftSwipesArgs contain the arguments of the UndoAllLeftSwipes use-case.
type UndoLeftSwipesArgs struct {
	ViewerID string
}

// SendMessageArgs contain the arguments of the SendMessage use-case.
type SendMessageArgs struct {
	SenderID string

	ProjectID string `validate:"required,mongodb"`

	Message string `validate:"required,max=4000"`
}

// MarkReadArgs contain the arguments of the MarkRead use-case.
type MarkReadArgs struct {
	SenderID string

	ProjectID string `validate:"required,mongodb"`
}

// GetPageArgs contain the arguments of the GetPage use-case.
type GetPageArgs struct {
	ViewerID string

	ProjectID string `validate:"required,mongodb"`

	// CreatedAtBefore is the cursor. Clients fix it when the chat is opened.
	CreatedAtBefore time.Time `validate:"required"`

	// PageNum is the zero-based page index.
	PageNum int `validate:"gte=0"`

	// PageSize is the maximum amount of messages to return.
	PageSize int `validate:"gte=0,lte=100"`
}

// GetPageResponse contains a page of messages, newest first.
type GetPageResponse struct {
	Messages []ChatMessage `json:"messages"`
	HasNext  bool          `json:"hasNext"`
}

// UserAttributeArgs contain the arguments for adding or deleting an attribute on the viewer profile.
type UserAttributeArgs struct {
	ViewerID string

	Attribute string `validate:"required"`
}

// UnreadSummary is the derived notification state of a viewer.
type UnreadSummary struct {
	// Count is the number of projects with unread messages.
	Count int `json:"count"`

	// Projects are the ids of the projects with unread messages.
	Projects []string `json:"projects"`
}
