package model

import "time"

// QuizResponse is one answer in the discovery quiz.
// Answers are upserted per (user, question) — retaking the quiz overwrites,
// it doesn't append. QuestionID is a small positive integer (q1..q22 on the wire).
type QuizResponse struct {
	UserID     string    `json:"userId"     db:"user_id"`
	QuestionID int       `json:"questionId" db:"question_id"`
	Answer     string    `json:"answer"     db:"answer"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}
