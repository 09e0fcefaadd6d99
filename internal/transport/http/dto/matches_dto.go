package dto

type UnmatchRequest struct {
	UserID string `json:"userId"`
}
