package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
)

const (
	blankProjectName        = "New Project"
	blankProjectDescription = "New Project description"
)

// ProjectServiceArgs contains the mandatory arguments for the ProjectService.
type ProjectServiceArgs struct {
	// Repository is the repository for persistance operations.
	Repository ports.Repository

	// Emitter narrates lifecycle transitions to project members.
	Emitter emitter

	// Vocabulary is the list of recognized attributes.
	Vocabulary ports.AttributeVocabulary

	// NowFunc overrides the clock. Zero-value defaults to the wall clock.
	NowFunc func() time.Time
}

// NewProjectService creates a new ProjectService.
func NewProjectService(args ProjectServiceArgs) *ProjectService {
	return &ProjectService{
		repository: args.Repository,
		emitter:    args.Emitter,
		vocabulary: args.Vocabulary,
		nowFunc:    nowOrDefault(args.NowFunc),
	}
}

// ProjectService gathers the functionality around the project lifecycle.
type ProjectService struct {
	repository ports.Repository
	emitter    emitter
	vocabulary ports.AttributeVocabulary
	nowFunc    func() time.Time
}

// ListProjects lists the projects the viewer created or was accepted into.
func (s *ProjectService) ListProjects(ctx context.Context, args model.ListProjectsArgs) (*model.ListProjectsResponse, error) {
	viewer, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return nil, err
	}
	projects, err := s.repository.ListMemberProjects(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing projects of user [%s]: %w", viewer.ID, err)
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return &model.ListProjectsResponse{Projects: projects}, nil
}

// CreateProject creates a blank project owned by the viewer.
func (s *ProjectService) CreateProject(ctx context.Context, args model.CreateProjectArgs) (*model.CreateProjectResponse, error) {
	viewer, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()
	project := &model.Project{
		Name:          blankProjectName,
		Description:   blankProjectDescription,
		CreatedBy:     viewer.ID,
		Attributes:    model.Set{},
		SwipeLeft:     model.Set{},
		SwipeRight:    model.Set{},
		AcceptedUsers: model.Set{},
		RejectedUsers: model.Set{},
		// the creator starts at the epoch so the whole history counts as unread
		LastReadAt:    []model.LastReadAt{{UserID: viewer.ID, Date: model.Epoch}},
		LastMessageAt: now,
	}
	if err := s.repository.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("error saving project: %w", err)
	}
	modified, err := s.repository.AddToUserSet(ctx, viewer.ID, ports.UserProjects, project.ID)
	if err != nil {
		return nil, fmt.Errorf("error linking project to its creator: %w", err)
	}
	if modified != 1 {
		return nil, model.Errorf(model.ErrPartialWrite, "Error occured while creating project")
	}
	announce(ctx, s.emitter, project, &model.ChatMessage{
		Message:     fmt.Sprintf("New Project created by @%s", viewer.Username),
		Project:     project.ID,
		Sender:      viewer.ID,
		MessageType: model.MessageTypeCreate,
	})
	return &model.CreateProjectResponse{Project: *project}, nil
}

// UpdateProject sets name and description of a project owned by the viewer.
func (s *ProjectService) UpdateProject(ctx context.Context, args model.UpdateProjectArgs) error {
	viewer, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return err
	}
	if err := model.Validate(args); err != nil {
		return err
	}
	project, err := ownedProject(ctx, s.repository, viewer.ID, args.ProjectID, "Only project creator can update project")
	if err != nil {
		return err
	}
	modified, err := s.repository.UpdateProjectDetails(ctx, ports.ProjectFilter{ID: project.ID, CreatedBy: viewer.ID}, args.Name, args.Description)
	if err != nil {
		return fmt.Errorf("error updating project [%s]: %w", project.ID, err)
	}
	// nothing changed, nothing to narrate
	if modified == 1 {
		announce(ctx, s.emitter, project, &model.ChatMessage{
			Message:     fmt.Sprintf("Project was updated by @%s", viewer.Username),
			Project:     project.ID,
			Sender:      viewer.ID,
			MessageType: model.MessageTypeUpdate,
		})
	}
	return nil
}

// AddAttribute tags a project owned by the viewer with a recognized attribute.
func (s *ProjectService) AddAttribute(ctx context.Context, args model.ProjectAttributeArgs) error {
	return s.changeAttribute(ctx, args, true)
}

// DeleteAttribute removes an attribute from a project owned by the viewer.
func (s *ProjectService) DeleteAttribute(ctx context.Context, args model.ProjectAttributeArgs) error {
	return s.changeAttribute(ctx, args, false)
}

func (s *ProjectService) changeAttribute(ctx context.Context, args model.ProjectAttributeArgs, add bool) error {
	viewer, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return err
	}
	if err := model.Validate(args); err != nil {
		return err
	}
	if !s.vocabulary.Recognizes(args.Attribute) {
		return model.Errorf(model.ErrInvalidAttribute, "Attribute does not match any available attributes.")
	}
	project, err := ownedProject(ctx, s.repository, viewer.ID, args.ProjectID, "Only project creator can update project")
	if err != nil {
		return err
	}

	filter := ports.ProjectFilter{ID: project.ID, CreatedBy: viewer.ID}
	var modified int64
	if add {
		modified, err = s.repository.AddToProjectSet(ctx, filter, ports.ProjectAttributes, args.Attribute)
	} else {
		modified, err = s.repository.PullFromProjectSet(ctx, filter, ports.ProjectAttributes, args.Attribute)
	}
	if err != nil {
		return fmt.Errorf("error changing attributes of project [%s]: %w", project.ID, err)
	}

	verb, preposition := "added", "to"
	if !add {
		verb, preposition = "deleted", "from"
	}
	if modified != 1 {
		return model.Errorf(model.ErrPreconditionFailed, "Attribute was not %s successfully.", verb)
	}
	announce(ctx, s.emitter, project, &model.ChatMessage{
		Message:     fmt.Sprintf("@%s %s the attribute '%s' %s the project", viewer.Username, verb, args.Attribute, preposition),
		Project:     project.ID,
		Sender:      viewer.ID,
		MessageType: model.MessageTypeUpdate,
	})
	return nil
}

// DeleteProject deletes a project owned by the viewer. Every reference to the project held by
// swipers, collaborators and the creator is removed first; members are notified before the
// document goes away. The cascade is not transactional: a failure midway leaves the references
// already removed and the project in place.
func (s *ProjectService) DeleteProject(ctx context.Context, args model.DeleteProjectArgs) error {
	viewer, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return err
	}
	if err := model.Validate(args); err != nil {
		return err
	}
	project, err := ownedProject(ctx, s.repository, viewer.ID, args.ProjectID, "No permission to delete project")
	if err != nil {
		return err
	}

	pulls := []struct {
		users model.Set
		field ports.UserSet
	}{
		{users: project.SwipeLeft, field: ports.UserSwipeLeft},
		{users: project.SwipeRight, field: ports.UserSwipeRight},
		{users: project.AcceptedUsers, field: ports.UserJoinedProjects},
		{users: model.NewSet(viewer.ID), field: ports.UserProjects},
	}
	for _, pull := range pulls {
		for _, userID := range pull.users.Values() {
			if _, err := s.repository.PullFromUserSet(ctx, userID, pull.field, project.ID); err != nil {
				return &model.Error{
					Kind:   model.ErrPartialWrite,
					Reason: "Error deleting project.",
					Cause:  fmt.Errorf("error pulling project from %s of user [%s]: %w", pull.field, userID, err),
				}
			}
		}
	}

	// connected members drop the project from their views on this message
	announce(ctx, s.emitter, project, &model.ChatMessage{
		Message:     fmt.Sprintf("Project was deleted by @%s", viewer.Username),
		Project:     project.ID,
		Sender:      viewer.ID,
		MessageType: model.MessageTypeDelete,
	})

	if _, err := s.repository.DeleteProject(ctx, ports.ProjectFilter{ID: project.ID, CreatedBy: viewer.ID}); err != nil {
		return &model.Error{Kind: model.ErrPartialWrite, Reason: "Error deleting project.", Cause: err}
	}
	if _, err := s.repository.DeleteMessages(ctx, project.ID); err != nil {
		return &model.Error{Kind: model.ErrPartialWrite, Reason: "Error deleting project.", Cause: err}
	}
	return nil
}

// GetProjectIfMember returns the project if userID is one of its members, or
// model.ErrPermissionDenied.
func (s *ProjectService) GetProjectIfMember(ctx context.Context, userID, projectID string) (*model.Project, error) {
	return projectIfMember(ctx, s.repository, userID, projectID)
}
