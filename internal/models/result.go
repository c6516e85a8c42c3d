package models

import "time"

// QuestionReview shows one question of a completed attempt with the correct
// answer revealed.
type QuestionReview struct {
	Text                string   `json:"text"`
	Options             []string `json:"options"`
	SelectedOptionIndex int      `json:"selected_option_index"`
	CorrectOptionIndex  int      `json:"correct_option_index"`
	Answered            bool     `json:"answered"`
	Correct             bool     `json:"correct"`
}

// AttemptReview is the read-only result view of an attempt.
type AttemptReview struct {
	AttemptID        string           `json:"attempt_id"`
	QuizID           string           `json:"quiz_id"`
	QuizTitle        string           `json:"quiz_title"`
	UserID           string           `json:"user_id"`
	CorrectCount     int              `json:"correct_count"`
	TotalQuestions   int              `json:"total_questions"`
	ScorePercent     float64          `json:"score_percent"`
	PassingScore     float64          `json:"passing_score"`
	Status           string           `json:"status"`
	CompletionType   string           `json:"completion_type"`
	AttemptNumber    int              `json:"attempt_number"`
	TimeTakenSeconds int              `json:"time_taken_seconds"`
	SubmittedAt      time.Time        `json:"submitted_at"`
	Questions        []QuestionReview `json:"questions"`
}
