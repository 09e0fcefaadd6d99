package model

import "time"

// Swipe is a directed like/dislike decision. At most one exists per
// (FromUserID, ToUserID) and it is never modified after insert.
type Swipe struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"fromUserId"`
	ToUserID   string    `json:"toUserId"`
	IsLike     bool      `json:"isLike"`
	CreatedAt  time.Time `json:"createdAt"`
}
