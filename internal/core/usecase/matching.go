package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
)

// MatchingServiceArgs contains the mandatory arguments for the MatchingService.
type MatchingServiceArgs struct {
	// Repository is the repository for persistance operations.
	Repository ports.Repository

	// Emitter narrates swipes and acceptances to project members.
	Emitter emitter

	// Vocabulary is the list of recognized attributes.
	Vocabulary ports.AttributeVocabulary
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(args MatchingServiceArgs) *MatchingService {
	return &MatchingService{
		repository: args.Repository,
		emitter:    args.Emitter,
		vocabulary: args.Vocabulary,
	}
}

// MatchingService owns the swipe, accept and reject transitions between users and projects.
//
//	UNSEEN -> SWIPED_LEFT -> UNSEEN (bulk undo only)
//	UNSEEN -> SWIPED_RIGHT -> ACCEPTED | REJECTED
type MatchingService struct {
	repository ports.Repository
	emitter    emitter
	vocabulary ports.AttributeVocabulary
}

// ListMatchOptions returns a random page of projects the viewer can still swipe on.
func (s *MatchingService) ListMatchOptions(ctx context.Context, args model.ListMatchOptionsArgs) (*model.ListMatchOptionsResponse, error) {
	viewer, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(args); err != nil {
		return nil, err
	}
	for _, attribute := range args.Attributes {
		if !s.vocabulary.Recognizes(attribute) {
			return nil, model.Errorf(model.ErrInvalidAttribute, "At least one invalid attribute")
		}
	}
	// one extra row tells whether there is a next page
	projects, err := s.repository.SampleCandidates(ctx, ports.CandidateQuery{
		ViewerID:   viewer.ID,
		Attributes: args.Attributes,
		Size:       args.PageSize + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("error sampling candidate projects: %w", err)
	}
	hasNext := false
	if len(projects) == args.PageSize+1 {
		hasNext = true
		projects = projects[:args.PageSize]
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return &model.ListMatchOptionsResponse{Projects: projects, HasNext: hasNext}, nil
}

// Swipe records the decision of the viewer on a project. A decision is permanent: swiping
// again in any direction fails with model.ErrPreconditionFailed.
func (s *MatchingService) Swipe(ctx context.Context, args model.SwipeArgs) error {
	viewer, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return err
	}
	if err := model.Validate(args); err != nil {
		return err
	}
	project, err := s.repository.GetProject(ctx, ports.ProjectFilter{ID: args.ProjectID})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Errorf(model.ErrNotFound, "Project does not exist")
		}
		return fmt.Errorf("error loading project [%s]: %w", args.ProjectID, err)
	}
	if project.CreatedBy == viewer.ID {
		return model.Errorf(model.ErrPreconditionFailed, "the user is the one that made this project")
	}
	if direction, ok := viewer.Swiped(project.ID); ok {
		return model.Errorf(model.ErrPreconditionFailed, "The user has already swiped %s on this project", direction)
	}
	if project.SwipeLeft.Has(viewer.ID) || project.SwipeRight.Has(viewer.ID) {
		return model.Errorf(model.ErrPreconditionFailed, "The user has already swiped on this project")
	}

	// the guarded update settles races between concurrent swipes of the same user
	modified, err := s.repository.AddSwipe(ctx, project.ID, viewer.ID, args.Direction)
	if err != nil {
		return fmt.Errorf("error adding swipe to project [%s]: %w", project.ID, err)
	}
	if modified != 1 {
		return model.Errorf(model.ErrPreconditionFailed, "The user has already swiped on this project")
	}
	field := ports.UserSwipeLeft
	if args.Direction == model.SwipeRight {
		field = ports.UserSwipeRight
	}
	modified, err = s.repository.AddToUserSet(ctx, viewer.ID, field, project.ID)
	if err != nil {
		return &model.Error{Kind: model.ErrPartialWrite, Reason: "Project Swipe was not successfully added.", Cause: err}
	}
	if modified != 1 {
		return model.Errorf(model.ErrPartialWrite, "Project Swipe was not successfully added.")
	}

	if args.Direction == model.SwipeRight {
		announce(ctx, s.emitter, project, &model.ChatMessage{
			Message:     fmt.Sprintf("@%s swiped right on the project", viewer.Username),
			Project:     project.ID,
			Sender:      viewer.ID,
			MessageType: model.MessageTypeSwipeRight,
		})
	}
	return nil
}

// UndoAllLeftSwipes puts every project the viewer passed on back into its candidates. The loop
// keeps going on failure; the failures are returned joined as a model.ErrPartialWrite.
func (s *MatchingService) UndoAllLeftSwipes(ctx context.Context, args model.UndoLeftSwipesArgs) error {
	viewer, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return err
	}
	var errs []error
	for _, projectID := range viewer.SwipeLeft.Values() {
		if _, err := s.repository.PullFromProjectSet(ctx, ports.ProjectFilter{ID: projectID}, ports.ProjectSwipeLeft, viewer.ID); err != nil {
			errs = append(errs, fmt.Errorf("error pulling left swipe from project [%s]: %w", projectID, err))
			continue
		}
		if _, err := s.repository.PullFromUserSet(ctx, viewer.ID, ports.UserSwipeLeft, projectID); err != nil {
			errs = append(errs, fmt.Errorf("error pulling left swipe of project [%s] from user: %w", projectID, err))
		}
	}
	if len(errs) > 0 {
		return &model.Error{Kind: model.ErrPartialWrite, Reason: "Server error", Cause: errors.Join(errs...)}
	}
	return nil
}

// AcceptUser admits a collaborator who swiped right on a project owned by the viewer.
func (s *MatchingService) AcceptUser(ctx context.Context, args model.DecisionArgs) error {
	owner, project, collaborator, err := s.decide(ctx, args, "accept")
	if err != nil {
		return err
	}
	decision := ports.Decision{ProjectID: project.ID, OwnerID: owner.ID, CollaboratorID: collaborator.ID}
	// the new member starts at the epoch so the whole backlog counts as unread
	modified, err := s.repository.AcceptCandidate(ctx, decision, model.Epoch)
	if err != nil {
		return fmt.Errorf("error accepting collaborator [%s]: %w", collaborator.ID, err)
	}
	if modified != 1 {
		return model.Errorf(model.ErrPreconditionFailed, "Collaborator was not successfully added")
	}
	modified, err = s.repository.AddToUserSet(ctx, collaborator.ID, ports.UserJoinedProjects, project.ID)
	if err != nil {
		return &model.Error{Kind: model.ErrPartialWrite, Reason: "Collaborator was not successfully added", Cause: err}
	}
	if modified != 1 {
		return model.Errorf(model.ErrPartialWrite, "Collaborator was not successfully added")
	}

	joined := *project
	joined.AcceptedUsers = project.AcceptedUsers.Clone()
	joined.AcceptedUsers.Add(collaborator.ID)
	announce(ctx, s.emitter, &joined, &model.ChatMessage{
		Message:     fmt.Sprintf("@%s added @%s to the project", owner.Username, collaborator.Username),
		Project:     project.ID,
		Sender:      owner.ID,
		MessageType: model.MessageTypeAcceptUser,
	})
	return nil
}

// RejectUser declines a collaborator who swiped right on a project owned by the viewer. It is
// silent: nobody is notified.
func (s *MatchingService) RejectUser(ctx context.Context, args model.DecisionArgs) error {
	owner, project, collaborator, err := s.decide(ctx, args, "reject")
	if err != nil {
		return err
	}
	decision := ports.Decision{ProjectID: project.ID, OwnerID: owner.ID, CollaboratorID: collaborator.ID}
	modified, err := s.repository.RejectCandidate(ctx, decision)
	if err != nil {
		return fmt.Errorf("error rejecting collaborator [%s]: %w", collaborator.ID, err)
	}
	if modified != 1 {
		return model.Errorf(model.ErrPreconditionFailed, "Collaborator was not successfully rejected")
	}
	return nil
}

// decide checks the preconditions shared by accept and reject.
func (s *MatchingService) decide(ctx context.Context, args model.DecisionArgs, verb string) (*model.User, *model.Project, *model.User, error) {
	owner, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := model.Validate(args); err != nil {
		return nil, nil, nil, err
	}
	project, err := ownedProject(ctx, s.repository, owner.ID, args.ProjectID, fmt.Sprintf("Only project creator can %s user", verb))
	if err != nil {
		return nil, nil, nil, err
	}
	collaborator, err := s.repository.GetUser(ctx, args.CollaboratorID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil, nil, model.Errorf(model.ErrNotFound, "User does not exist")
		}
		return nil, nil, nil, fmt.Errorf("error loading collaborator [%s]: %w", args.CollaboratorID, err)
	}
	switch {
	case project.SwipeLeft.Has(collaborator.ID):
		return nil, nil, nil, model.Errorf(model.ErrPreconditionFailed, "The collaborator swiped left on this project, not right")
	case !project.SwipeRight.Has(collaborator.ID):
		return nil, nil, nil, model.Errorf(model.ErrPreconditionFailed, "The collaborator did not swipe right")
	case project.AcceptedUsers.Has(collaborator.ID) || project.RejectedUsers.Has(collaborator.ID):
		return nil, nil, nil, model.Errorf(model.ErrPreconditionFailed, "Collaborator has been accepted or rejected already")
	}
	return owner, project, collaborator, nil
}
