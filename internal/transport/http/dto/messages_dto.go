package dto

type CreateMessageRequest struct {
	MatchID    string  `json:"matchId"`
	SenderID   string  `json:"senderId"`
	ReceiverID string  `json:"receiverId"`
	Text       string  `json:"text"`
	ImageURL   *string `json:"imageUrl"`
}
