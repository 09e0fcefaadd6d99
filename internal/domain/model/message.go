package model

import "time"

type Message struct {
	ID         string     `json:"id"`
	MatchID    string     `json:"matchId"`
	SenderID   string     `json:"senderId"`
	ReceiverID string     `json:"receiverId"`
	Text       string     `json:"text"`
	ImageURL   *string    `json:"imageUrl,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
}
