package model

import "time"

// User is a player profile document. It is the single source of truth
// for a player's cumulative standing; totalScore only ever goes up
// (see ScoreService delta accounting).
type User struct {
	ID            string    `json:"id" bson:"_id"`
	DisplayName   string    `json:"displayName" bson:"displayName"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash  string    `json:"-" bson:"passwordHash,omitempty"`
	Guest         bool      `json:"guest,omitempty" bson:"guest,omitempty"`
	TotalScore    int       `json:"totalScore" bson:"totalScore"`
	PlayedQuizIDs []string  `json:"playedQuizIds" bson:"playedQuizIds"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// HasPlayed reports whether the user has recorded a score for the quiz.
func (u *User) HasPlayed(quizID string) bool {
	for _, id := range u.PlayedQuizIDs {
		if id == quizID {
			return true
		}
	}
	return false
}

// ProfileStats is the summary shown on the profile page.
type ProfileStats struct {
	DisplayName   string `json:"displayName"`
	TotalScore    int    `json:"totalScore"`
	QuizzesPlayed int    `json:"quizzesPlayed"`
}

// HistoryEntry is one row of a user's recent-plays listing.
type HistoryEntry struct {
	QuizID    string    `json:"quizId"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}
