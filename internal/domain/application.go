package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationDeclined ApplicationStatus = "DECLINED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationDeclined:
		return true
	}
	return false
}

// SystemText is the automatic chat line shown for the status.
func (s ApplicationStatus) SystemText() string {
	switch s {
	case ApplicationPending:
		return "Message still pending"
	case ApplicationAccepted:
		return "Ready to connect?"
	default:
		return "Unfortunately this was not a match, keep searching!"
	}
}

// Application is a student applying to an internship post. There is at most
// one per (post, student).
type Application struct {
	ID            int64
	PostID        int64
	StudentUserID int64
	CompanyUserID int64
	Status        ApplicationStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Conversation is the chat attached to exactly one application.
type Conversation struct {
	ID            int64
	ApplicationID int64
	CreatedAt     time.Time
}

type MessageType string

const (
	MessageSystem MessageType = "SYSTEM"
	MessageUser   MessageType = "USER"
)

// Message is one chat line. SenderUserID is nil for system messages.
type Message struct {
	ID             int64
	ConversationID int64
	Type           MessageType
	SenderUserID   *int64
	Text           string
	CreatedAt      time.Time
}
