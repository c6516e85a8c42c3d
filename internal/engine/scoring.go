package engine

import (
	"fmt"

	"quiz-engine/internal/models"
)

// ScoreResult is the outcome of scoring one answer set against a question set.
type ScoreResult struct {
	CorrectCount   int     `json:"correct_count"`
	TotalQuestions int     `json:"total_questions"`
	ScorePercent   float64 `json:"score_percent"`
	Status         string  `json:"status"`
}

// Score grades answers against questions. Pure and deterministic: same
// inputs always produce the same result. The answer slice must be the same
// length as the question slice; a zero-question quiz is rejected at
// validation and never reaches here.
func Score(questions []models.Question, answers []int, passingScore float64) ScoreResult {
	if len(questions) == 0 {
		panic("scoring requires at least one question")
	}
	if len(answers) != len(questions) {
		panic(fmt.Sprintf("answer count %d does not match question count %d", len(answers), len(questions)))
	}

	correct := 0
	for i, q := range questions {
		if answers[i] == q.CorrectOptionIndex {
			correct++
		}
	}

	percent := 100 * float64(correct) / float64(len(questions))
	status := models.AttemptFailed
	if percent >= passingScore {
		status = models.AttemptPassed
	}

	return ScoreResult{
		CorrectCount:   correct,
		TotalQuestions: len(questions),
		ScorePercent:   percent,
		Status:         status,
	}
}
