package model

import (
	"time"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/enums"
)

type Profile struct {
	ID            string             `json:"id"`
	Email         string             `json:"email"`
	Name          string             `json:"name"`
	Age           int                `json:"age"`
	Gender        enums.Gender       `json:"gender"`
	InterestedIn  enums.InterestedIn `json:"interestedIn"`
	Bio           string             `json:"bio"`
	Location      string             `json:"location"`
	Interests     []string           `json:"interests"`
	ProfileImages []string           `json:"profileImages"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastActive    time.Time          `json:"lastActive"`
}
