package dto

import "github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"

type CreateSwipeRequest struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	IsLike     *bool  `json:"isLike"`
}

type SwipeResponse struct {
	Swipe model.Swipe  `json:"swipe"`
	Match *model.Match `json:"match,omitempty"`
}
