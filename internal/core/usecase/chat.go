package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
)

// ChatServiceArgs contains the mandatory arguments for the ChatService.
type ChatServiceArgs struct {
	// Repository is the repository for persistance operations.
	Repository ports.Repository

	// Broadcaster delivers persisted messages to the connections of project members.
	Broadcaster ports.Broadcaster

	// NowFunc overrides the clock. Zero-value defaults to the wall clock.
	NowFunc func() time.Time
}

// NewChatService creates a new ChatService.
func NewChatService(args ChatServiceArgs) *ChatService {
	return &ChatService{
		repository:  args.Repository,
		broadcaster: args.Broadcaster,
		nowFunc:     nowOrDefault(args.NowFunc),
	}
}

// ChatService gathers the project chat: sending, read receipts and history pagination.
type ChatService struct {
	repository  ports.Repository
	broadcaster ports.Broadcaster
	nowFunc     func() time.Time
}

// GetProjectIfMember returns the project if userID is one of its members, or
// model.ErrPermissionDenied.
func (s *ChatService) GetProjectIfMember(ctx context.Context, userID, projectID string) (*model.Project, error) {
	return projectIfMember(ctx, s.repository, userID, projectID)
}

// SendMessage persists a chat message from a member and broadcasts it to every member.
func (s *ChatService) SendMessage(ctx context.Context, args model.SendMessageArgs) (*model.ChatMessage, error) {
	if args.SenderID == "" {
		return nil, model.Errorf(model.ErrAuthRequired, "User is required")
	}
	if err := model.Validate(args); err != nil {
		return nil, err
	}
	project, err := projectIfMember(ctx, s.repository, args.SenderID, args.ProjectID)
	if err != nil {
		return nil, err
	}
	message := &model.ChatMessage{
		Message:     args.Message,
		Project:     project.ID,
		Sender:      args.SenderID,
		CreatedAt:   s.nowFunc(),
		MessageType: model.MessageTypeChat,
	}
	if err := s.Emit(ctx, project, message); err != nil {
		return nil, err
	}
	return message, nil
}

// MarkRead moves the read receipt of the sender to now and broadcasts a READ message so that
// connected clients refresh their unread state.
func (s *ChatService) MarkRead(ctx context.Context, args model.MarkReadArgs) (*model.ChatMessage, error) {
	if args.SenderID == "" {
		return nil, model.Errorf(model.ErrAuthRequired, "User is required")
	}
	if err := model.Validate(args); err != nil {
		return nil, err
	}
	project, err := projectIfMember(ctx, s.repository, args.SenderID, args.ProjectID)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()
	if err := s.repository.ReplaceLastReadAt(ctx, project.ID, args.SenderID, now); err != nil {
		return nil, fmt.Errorf("error replacing read receipt: %w", err)
	}
	message := &model.ChatMessage{
		Message:     fmt.Sprintf("Read by %s", args.SenderID),
		Project:     project.ID,
		Sender:      args.SenderID,
		CreatedAt:   now,
		MessageType: model.MessageTypeRead,
	}
	if err := s.Emit(ctx, project, message); err != nil {
		return nil, err
	}
	return message, nil
}

// GetPage returns the messages of a project created before the cursor, newest first.
func (s *ChatService) GetPage(ctx context.Context, args model.GetPageArgs) (*model.GetPageResponse, error) {
	if args.ViewerID == "" {
		return nil, model.Errorf(model.ErrAuthRequired, "User is required")
	}
	if err := model.Validate(args); err != nil {
		return nil, err
	}
	// the offset of the extra row must fit in an int
	if args.PageNum > math.MaxInt/(args.PageSize+1) {
		return nil, model.Errorf(model.ErrInvalidArgument, "Invalid PageNum")
	}
	project, err := projectIfMember(ctx, s.repository, args.ViewerID, args.ProjectID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repository.ListMessages(ctx, ports.MessageQuery{
		ProjectID:     project.ID,
		CreatedBefore: args.CreatedAtBefore,
		Offset:        args.PageNum * args.PageSize,
		Limit:         args.PageSize + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	hasNext := false
	if len(messages) == args.PageSize+1 {
		hasNext = true
		messages = messages[:args.PageSize]
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}
	return &model.GetPageResponse{Messages: messages, HasNext: hasNext}, nil
}

// Emit persists message, moves the project lastMessageAt forward unless the message is a read
// receipt, and broadcasts it to every member of project.
func (s *ChatService) Emit(ctx context.Context, project *model.Project, message *model.ChatMessage) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = s.nowFunc()
	}
	if err := s.repository.SaveMessage(ctx, message); err != nil {
		return fmt.Errorf("error saving %s message: %w", message.MessageType, err)
	}
	if message.MessageType != model.MessageTypeRead {
		if _, err := s.repository.TouchLastMessageAt(ctx, project.ID, message.CreatedAt); err != nil {
			return fmt.Errorf("error updating last message time: %w", err)
		}
	}
	event := model.ChatEvent{
		ID:         message.ID,
		Recipients: project.Members(),
		Message:    *message,
	}
	if err := s.broadcaster.Broadcast(ctx, event); err != nil {
		return fmt.Errorf("error broadcasting message [%s]: %w", message.ID, err)
	}
	return nil
}
