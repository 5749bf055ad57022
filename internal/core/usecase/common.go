package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// emitter persists system messages and fans them out to project members.
type emitter interface {
	// Emit persists message and delivers it to every member of project.
	Emit(ctx context.Context, project *model.Project, message *model.ChatMessage) error
}

func defaultNow() time.Time {
	// the store keeps millisecond precision; truncating keeps broadcast and stored copies equal
	return time.Now().UTC().Truncate(time.Millisecond)
}

func nowOrDefault(nowFunc func() time.Time) func() time.Time {
	if nowFunc == nil {
		return defaultNow
	}
	return nowFunc
}

// loadViewer resolves the user behind a request. Unknown users, and unverified ones when
// verified is set, are rejected with model.ErrAuthRequired.
func loadViewer(ctx context.Context, repository ports.Repository, viewerID string, verified bool) (*model.User, error) {
	if viewerID == "" {
		return nil, model.Errorf(model.ErrAuthRequired, "User is required")
	}
	user, err := repository.GetUser(ctx, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.Errorf(model.ErrAuthRequired, "User is required")
		}
		return nil, fmt.Errorf("error loading user [%s]: %w", viewerID, err)
	}
	if verified && !user.IsVerified {
		return nil, model.Errorf(model.ErrAuthRequired, "User email is not verified")
	}
	return user, nil
}

// projectIfMember returns the project only if userID is its creator or an accepted collaborator.
// Membership is read from the store on every call.
func projectIfMember(ctx context.Context, repository ports.Repository, userID, projectID string) (*model.Project, error) {
	project, err := repository.GetProject(ctx, ports.ProjectFilter{ID: projectID})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.Errorf(model.ErrPermissionDenied, "User not in project")
		}
		return nil, fmt.Errorf("error loading project [%s]: %w", projectID, err)
	}
	if !project.IsMember(userID) {
		return nil, model.Errorf(model.ErrPermissionDenied, "User not in project")
	}
	return project, nil
}

// ownedProject returns the project only if ownerID created it. Any other outcome is reported
// as model.ErrPermissionDenied with reason.
func ownedProject(ctx context.Context, repository ports.Repository, ownerID, projectID, reason string) (*model.Project, error) {
	project, err := repository.GetProject(ctx, ports.ProjectFilter{ID: projectID, CreatedBy: ownerID})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, &model.Error{Kind: model.ErrPermissionDenied, Reason: reason}
		}
		return nil, fmt.Errorf("error loading project [%s]: %w", projectID, err)
	}
	return project, nil
}

// announce emits a system message. The state transition it narrates already happened, so a
// failure only loses the message.
func announce(ctx context.Context, e emitter, project *model.Project, message *model.ChatMessage) {
	if err := e.Emit(ctx, project, message); err != nil {
		log.WithError(err).
			WithField("project", project.ID).
			WithField("message_type", message.MessageType).
			Warn("system message was not delivered")
	}
}
