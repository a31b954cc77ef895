package model

import "time"

// Play is the per-(quiz, user) record of the most recent submitted
// score. There is at most one per pair; resubmissions overwrite it in
// place, even when the new score is lower.
type Play struct {
	QuizID    string    `json:"quizId" bson:"quizId"`
	UserID    string    `json:"userId" bson:"userId"`
	Score     int       `json:"score" bson:"score"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
