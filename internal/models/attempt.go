package models

import "time"

const (
	AttemptPassed = "passed"
	AttemptFailed = "failed"
)

const (
	CompletionSubmitted = "submitted"
	CompletionExpired   = "expired"
)

// Attempt is the immutable record of one completed quiz attempt. It is the
// source of truth for results; the per-(quiz,user) status record is a
// denormalized view derived from attempts.
type Attempt struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	QuizID           string    `bson:"quiz_id" json:"quiz_id"`
	UserID           string    `bson:"user_id" json:"user_id"`
	Answers          []int     `bson:"answers" json:"answers"`
	TimeTakenSeconds int       `bson:"time_taken_seconds" json:"time_taken_seconds"`
	CorrectCount     int       `bson:"correct_count" json:"correct_count"`
	TotalQuestions   int       `bson:"total_questions" json:"total_questions"`
	ScorePercent     float64   `bson:"score_percent" json:"score_percent"`
	Status           string    `bson:"status" json:"status"`
	CompletionType   string    `bson:"completion_type" json:"completion_type"`
	AttemptNumber    int       `bson:"attempt_number" json:"attempt_number"`
	SubmittedAt      time.Time `bson:"submitted_at" json:"submitted_at"`
}

// StudentQuizStatus aggregates a student's standing on one quiz, keyed by
// quiz and user. Rebuilt from attempt history when missing or stale.
type StudentQuizStatus struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	QuizID        string    `bson:"quiz_id" json:"quiz_id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	Status        string    `bson:"status" json:"status"`
	Score         float64   `bson:"score" json:"score"`
	AttemptNumber int       `bson:"attempt_number" json:"attempt_number"`
	LastAttemptAt time.Time `bson:"last_attempt_at" json:"last_attempt_at"`
}

// StatusKey builds the composite document key for a student's quiz status.
func StatusKey(quizID, userID string) string {
	return quizID + ":" + userID
}
