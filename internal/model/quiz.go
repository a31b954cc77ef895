package model

import "time"

// Question is a single multiple-choice quiz question.
type Question struct {
	Text         string   `json:"question" bson:"text"`
	Options      []string `json:"options" bson:"options"`
	CorrectIndex int      `json:"correct" bson:"correctIndex"`
}

// Quiz is a persisted set of questions. The ID is the creation time in
// unix milliseconds, rendered as a string, so createdAt ordering and ID
// ordering agree.
type Quiz struct {
	ID        string     `json:"quizId" bson:"_id"`
	Questions []Question `json:"questions" bson:"questions"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// QuestionCount is the fixed number of questions per quiz.
const QuestionCount = 5

// OptionCount is the fixed number of options per question.
const OptionCount = 4

// Valid reports whether the quiz satisfies the document invariants:
// exactly 5 questions, 4 options each, correct index in range.
func (q *Quiz) Valid() bool {
	if len(q.Questions) != QuestionCount {
		return false
	}
	for _, question := range q.Questions {
		if !question.Valid() {
			return false
		}
	}
	return true
}

// Valid reports whether a single question is well-formed.
func (q *Question) Valid() bool {
	if q.Text == "" || len(q.Options) != OptionCount {
		return false
	}
	return q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
}
