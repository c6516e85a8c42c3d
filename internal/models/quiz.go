package models

import (
	"fmt"
	"time"
)

const (
	DefaultPassingScore    = 70.0
	DefaultDurationSeconds = 900
)

const (
	QuizActive  = "active"
	QuizDeleted = "deleted"
)

type Question struct {
	Text               string   `bson:"text" json:"text"`
	Options            []string `bson:"options" json:"options"`
	CorrectOptionIndex int      `bson:"correct_option_index" json:"correct_option_index"`
}

type Quiz struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	Title           string     `bson:"title" json:"title"`
	Description     string     `bson:"description" json:"description"`
	Language        string     `bson:"language" json:"language"`
	Topic           string     `bson:"topic" json:"topic"`
	Questions       []Question `bson:"questions" json:"questions"`
	PassingScore    float64    `bson:"passing_score" json:"passing_score"`
	DurationSeconds int        `bson:"duration_seconds" json:"duration_seconds"`
	Status          string     `bson:"status" json:"status"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updated_at"`
}

// ValidationError reports a malformed quiz. Attempts must never start
// against a quiz that fails validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid quiz: %s %s", e.Field, e.Reason)
}

// ApplyDefaults fills passing score and duration when absent.
func (q *Quiz) ApplyDefaults() {
	if q.PassingScore == 0 {
		q.PassingScore = DefaultPassingScore
	}
	if q.DurationSeconds == 0 {
		q.DurationSeconds = DefaultDurationSeconds
	}
}

// Validate checks the quiz is attemptable. Call after ApplyDefaults.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return &ValidationError{Field: "questions", Reason: "must not be empty"}
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return &ValidationError{Field: "passing_score", Reason: "must be between 0 and 100"}
	}
	if q.DurationSeconds <= 0 {
		return &ValidationError{Field: "duration_seconds", Reason: "must be positive"}
	}
	for i, question := range q.Questions {
		if len(question.Options) < 2 {
			return &ValidationError{
				Field:  fmt.Sprintf("questions[%d].options", i),
				Reason: "needs at least 2 entries",
			}
		}
		if question.CorrectOptionIndex < 0 || question.CorrectOptionIndex >= len(question.Options) {
			return &ValidationError{
				Field:  fmt.Sprintf("questions[%d].correct_option_index", i),
				Reason: "out of range",
			}
		}
	}
	return nil
}

// PublicQuestion is a question with the answer key stripped, safe to hand
// to a test-taker.
type PublicQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type PublicQuiz struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Language        string           `json:"language"`
	Topic           string           `json:"topic"`
	Questions       []PublicQuestion `json:"questions"`
	PassingScore    float64          `json:"passing_score"`
	DurationSeconds int              `json:"duration_seconds"`
}

func (q *Quiz) Public() PublicQuiz {
	questions := make([]PublicQuestion, len(q.Questions))
	for i, question := range q.Questions {
		options := make([]string, len(question.Options))
		copy(options, question.Options)
		questions[i] = PublicQuestion{Text: question.Text, Options: options}
	}
	return PublicQuiz{
		ID:              q.ID,
		Title:           q.Title,
		Description:     q.Description,
		Language:        q.Language,
		Topic:           q.Topic,
		Questions:       questions,
		PassingScore:    q.PassingScore,
		DurationSeconds: q.DurationSeconds,
	}
}
