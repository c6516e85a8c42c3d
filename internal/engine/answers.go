package engine

import (
	"fmt"

	"quiz-engine/internal/models"
)

// Unanswered is the sentinel for a question with no selection. It never
// equals a valid option index, so unanswered questions always score as
// incorrect.
const Unanswered = -1

// AnswerSheet tracks the in-progress selection per question index. One sheet
// belongs to exactly one attempt; the attempt session serializes access.
type AnswerSheet struct {
	selected     []int
	optionCounts []int
}

func NewAnswerSheet(questions []models.Question) *AnswerSheet {
	if len(questions) == 0 {
		panic("answer sheet needs at least one question")
	}
	selected := make([]int, len(questions))
	optionCounts := make([]int, len(questions))
	for i, q := range questions {
		selected[i] = Unanswered
		optionCounts[i] = len(q.Options)
	}
	return &AnswerSheet{selected: selected, optionCounts: optionCounts}
}

// SelectOption records a selection, overwriting any prior one. Out-of-range
// indices are caller defects and panic.
func (s *AnswerSheet) SelectOption(questionIndex, optionIndex int) {
	if questionIndex < 0 || questionIndex >= len(s.selected) {
		panic(fmt.Sprintf("question index %d out of range [0,%d)", questionIndex, len(s.selected)))
	}
	if optionIndex < 0 || optionIndex >= s.optionCounts[questionIndex] {
		panic(fmt.Sprintf("option index %d out of range [0,%d) for question %d",
			optionIndex, s.optionCounts[questionIndex], questionIndex))
	}
	s.selected[questionIndex] = optionIndex
}

// Snapshot returns a copy safe to persist or score.
func (s *AnswerSheet) Snapshot() []int {
	out := make([]int, len(s.selected))
	copy(out, s.selected)
	return out
}

// AnsweredCount reports how many questions have a selection.
func (s *AnswerSheet) AnsweredCount() int {
	n := 0
	for _, v := range s.selected {
		if v != Unanswered {
			n++
		}
	}
	return n
}

func (s *AnswerSheet) Len() int { return len(s.selected) }
