package model

import "time"

type EventType string

const (
	EventMatchCreated     EventType = "match.created"
	EventMatchDeactivated EventType = "match.deactivated"
	EventMessageCreated   EventType = "message.created"
	EventMessageRead      EventType = "message.read"
)

// Event is a change notification addressed to a single user.
type Event struct {
	Type    EventType `json:"type"`
	UserID  string    `json:"userId"`
	At      time.Time `json:"at"`
	Match   *Match    `json:"match,omitempty"`
	Message *Message  `json:"message,omitempty"`
}
