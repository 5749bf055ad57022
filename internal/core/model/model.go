package model

import (
	"time"
)

// Epoch is the read-receipt date given to a new member so that the whole backlog of a project
// counts as unread.
var Epoch = time.Unix(0, 0).UTC()

// User represents a user in the system.
type User struct {
	// ID unique identifier of the user.
	ID string `json:"id"`

	// Username is unique and case-insensitive. It is stored lower-cased.
	Username string `json:"username"`

	// Email is the user email
	Email string `json:"email"`

	// FirstName is the user first name.
	FirstName string `json:"firstName"`

	// LastName is the user last name.
	LastName string `json:"lastName"`

	// Bio is a free-text self description.
	Bio string `json:"bio"`

	// Attributes are the free-text tags the user describes themselves with.
	Attributes Set `json:"attributes"`

	// IsVerified is true once the user confirmed their email.
	IsVerified bool `json:"isVerified"`

	// VerificationToken is cleared once the user is verified. Never serialized.
	VerificationToken *string `json:"-"`

	// JoinedAt is the time at which the user signed up.
	JoinedAt time.Time `json:"joinedAt"`

	// Projects are the projects created by this user.
	Projects Set `json:"projects"`

	// JoinedProjects are the projects this user was accepted into.
	JoinedProjects Set `json:"joinedProjects"`

	// SwipeLeft are the projects this user passed on.
	SwipeLeft Set `json:"swipeLeft"`

	// SwipeRight are the projects this user expressed interest in.
	SwipeRight Set `json:"swipeRight"`
}

// Swiped returns the direction in which the user swiped on projectID, if any.
func (u *User) Swiped(projectID string) (SwipeDirection, bool) {
	switch {
	case u.SwipeLeft.Has(projectID):
		return SwipeLeft, true
	case u.SwipeRight.Has(projectID):
		return SwipeRight, true
	}
	return "", false
}

// LastReadAt records when a member last viewed the chat of a project.
type LastReadAt struct {
	UserID string    `json:"userId"`
	Date   time.Time `json:"date"`
}

// Project is a project authored by a user, open to collaborators.
type Project struct {
	// ID unique identifier of the project.
	ID string `json:"id"`

	// Name of the project.
	Name string `json:"name"`

	// Description of the project.
	Description string `json:"description"`

	// CreatedBy is the owner of the project. It never changes.
	CreatedBy string `json:"createdBy"`

	// Attributes are the tags the project is matched on.
	Attributes Set `json:"attributes"`

	// SwipeLeft are the users who passed on the project.
	SwipeLeft Set `json:"swipeLeft"`

	// SwipeRight are the users who expressed interest in the project.
	SwipeRight Set `json:"swipeRight"`

	// AcceptedUsers are the collaborators admitted by the owner.
	AcceptedUsers Set `json:"acceptedUsers"`

	// RejectedUsers are the users the owner explicitly declined.
	RejectedUsers Set `json:"rejectedUsers"`

	// LastReadAt holds one entry per member.
	LastReadAt []LastReadAt `json:"lastReadAt"`

	// LastMessageAt is the creation time of the most recent message which is not a read receipt.
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// IsMember reports whether userID is the creator or an accepted collaborator.
func (p *Project) IsMember(userID string) bool {
	return userID != "" && (p.CreatedBy == userID || p.AcceptedUsers.Has(userID))
}

// Members returns the creator followed by the accepted collaborators.
func (p *Project) Members() []string {
	members := make([]string, 0, p.AcceptedUsers.Len()+1)
	members = append(members, p.CreatedBy)
	for _, id := range p.AcceptedUsers.Values() {
		if id != p.CreatedBy {
			members = append(members, id)
		}
	}
	return members
}

// LastReadBy returns the read-receipt date of userID on this project.
func (p *Project) LastReadBy(userID string) (time.Time, bool) {
	for _, entry := range p.LastReadAt {
		if entry.UserID == userID {
			return entry.Date, true
		}
	}
	return time.Time{}, false
}

// SwipeDirection is the direction of a swipe decision.
type SwipeDirection string

const (
	// SwipeLeft means the user is not interested.
	SwipeLeft SwipeDirection = "left"
	// SwipeRight means the user wants to collaborate.
	SwipeRight SwipeDirection = "right"
)

// MessageType tags a chat message.
type MessageType string

const (
	MessageTypeChat       MessageType = "CHAT"
	MessageTypeRead       MessageType = "READ"
	MessageTypeCreate     MessageType = "CREATE"
	MessageTypeUpdate     MessageType = "UPDATE"
	MessageTypeDelete     MessageType = "DELETE"
	MessageTypeSwipeRight MessageType = "SWIPE_RIGHT"
	MessageTypeAcceptUser MessageType = "ACCEPT_USER"
)

// ChatMessage is an entry of a project chat. Messages are append-only.
type ChatMessage struct {
	// ID unique identifier of the message. Generated on save.
	ID string `json:"id"`

	// Message is the body of the message.
	Message string `json:"message"`

	// Project is the project the message belongs to.
	Project string `json:"project"`

	// Sender is the user who authored or triggered the message.
	Sender string `json:"sender"`

	// CreatedAt is the time at which the message was created.
	CreatedAt time.Time `json:"createdAt"`

	// MessageType is the kind of the message.
	MessageType MessageType `json:"messageType"`
}

// ChatEvent is a message on its way to the connections of its recipients.
type ChatEvent struct {
	// ID is the event id.
	ID string

	// Recipients are the user ids whose connections receive the message.
	Recipients []string

	// Message is the persisted message.
	Message ChatMessage
}
