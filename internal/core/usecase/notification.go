package usecase

import (
	"context"
	"fmt"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
)

// UnreadProjects returns the ids of the projects, among those viewerID is a member of, whose last
// message is newer than the read receipt of viewerID. A member without a receipt has read nothing.
func UnreadProjects(projects []model.Project, viewerID string) []string {
	unread := []string{}
	for i := range projects {
		p := &projects[i]
		if !p.IsMember(viewerID) {
			continue
		}
		readAt, ok := p.LastReadBy(viewerID)
		if !ok {
			readAt = model.Epoch
		}
		if p.LastMessageAt.After(readAt) {
			unread = append(unread, p.ID)
		}
	}
	return unread
}

// CountUnread is the badge count of viewerID: the amount of projects with unread messages.
func CountUnread(projects []model.Project, viewerID string) int {
	return len(UnreadProjects(projects, viewerID))
}

// NotificationServiceArgs contains the mandatory arguments for the NotificationService.
type NotificationServiceArgs struct {
	// Repository is the repository for persistance operations.
	Repository ports.Repository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(args NotificationServiceArgs) *NotificationService {
	return &NotificationService{repository: args.Repository}
}

// NotificationService derives the unread state of a viewer. Nothing is persisted.
type NotificationService struct {
	repository ports.Repository
}

// Summary recomputes the unread state of the viewer over its current projects.
func (s *NotificationService) Summary(ctx context.Context, viewerID string) (*model.UnreadSummary, error) {
	viewer, err := loadViewer(ctx, s.repository, viewerID, true)
	if err != nil {
		return nil, err
	}
	projects, err := s.repository.ListMemberProjects(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing projects of user [%s]: %w", viewer.ID, err)
	}
	unread := UnreadProjects(projects, viewer.ID)
	return &model.UnreadSummary{Count: len(unread), Projects: unread}, nil
}
