package model

import "time"

// Match is the undirected relationship created from two reciprocal likes.
// User1ID is always the lexicographically smaller id of the pair.
type Match struct {
	ID            string     `json:"id"`
	User1ID       string     `json:"user1Id"`
	User2ID       string     `json:"user2Id"`
	PairKey       string     `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	IsActive      bool       `json:"isActive"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
}

func (m Match) Has(userID string) bool {
	return userID != "" && (m.User1ID == userID || m.User2ID == userID)
}

// Partner returns the other participant, or "" when userID is not part of the match.
func (m Match) Partner(userID string) string {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	default:
		return ""
	}
}
