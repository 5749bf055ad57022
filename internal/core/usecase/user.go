package usecase

import (
	"context"
	"fmt"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
)

// UserServiceArgs contains the mandatory arguments for the UserService.
type UserServiceArgs struct {
	// Repository is the repository for persistance operations.
	Repository ports.Repository

	// Vocabulary is the list of recognized attributes.
	Vocabulary ports.AttributeVocabulary
}

// NewUserService creates a new UserService.
func NewUserService(args UserServiceArgs) *UserService {
	return &UserService{repository: args.Repository, vocabulary: args.Vocabulary}
}

// UserService gathers the functionality around the profile of the authenticated user.
type UserService struct {
	repository ports.Repository
	vocabulary ports.AttributeVocabulary
}

// GetUser returns the authenticated user. Unverified users are returned as well.
func (s *UserService) GetUser(ctx context.Context, viewerID string) (*model.User, error) {
	return loadViewer(ctx, s.repository, viewerID, false)
}

// AddAttribute tags the profile of the viewer with a recognized attribute.
func (s *UserService) AddAttribute(ctx context.Context, args model.UserAttributeArgs) error {
	viewer, err := s.attributeViewer(ctx, args)
	if err != nil {
		return err
	}
	modified, err := s.repository.AddToUserSet(ctx, viewer.ID, ports.UserAttributes, args.Attribute)
	if err != nil {
		return fmt.Errorf("error adding attribute to user [%s]: %w", viewer.ID, err)
	}
	if modified != 1 {
		return model.Errorf(model.ErrPreconditionFailed, "Attribute was not added successfully.")
	}
	return nil
}

// DeleteAttribute removes an attribute from the profile of the viewer.
func (s *UserService) DeleteAttribute(ctx context.Context, args model.UserAttributeArgs) error {
	viewer, err := s.attributeViewer(ctx, args)
	if err != nil {
		return err
	}
	modified, err := s.repository.PullFromUserSet(ctx, viewer.ID, ports.UserAttributes, args.Attribute)
	if err != nil {
		return fmt.Errorf("error deleting attribute from user [%s]: %w", viewer.ID, err)
	}
	if modified != 1 {
		return model.Errorf(model.ErrPreconditionFailed, "Attribute was not deleted successfully.")
	}
	return nil
}

func (s *UserService) attributeViewer(ctx context.Context, args model.UserAttributeArgs) (*model.User, error) {
	viewer, err := loadViewer(ctx, s.repository, args.ViewerID, true)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(args); err != nil {
		return nil, err
	}
	if !s.vocabulary.Recognizes(args.Attribute) {
		return nil, model.Errorf(model.ErrInvalidAttribute, "Attribute does not match any available attributes.")
	}
	return viewer, nil
}
