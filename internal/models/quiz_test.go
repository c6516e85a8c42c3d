package models

import (
	"errors"
	"testing"
)

func validQuiz() *Quiz {
	return &Quiz{
		Title: "JS basics",
		Questions: []Question{
			{Text: "q1", Options: []string{"a", "b"}, CorrectOptionIndex: 0},
			{Text: "q2", Options: []string{"a", "b", "c"}, CorrectOptionIndex: 2},
		},
	}
}

func TestApplyDefaults(t *testing.T) {
	quiz := validQuiz()
	quiz.ApplyDefaults()
	if quiz.PassingScore != DefaultPassingScore {
		t.Errorf("Expected passing score %v, got %v", DefaultPassingScore, quiz.PassingScore)
	}
	if quiz.DurationSeconds != DefaultDurationSeconds {
		t.Errorf("Expected duration %d, got %d", DefaultDurationSeconds, quiz.DurationSeconds)
	}

	quiz2 := validQuiz()
	quiz2.PassingScore = 50
	quiz2.DurationSeconds = 300
	quiz2.ApplyDefaults()
	if quiz2.PassingScore != 50 || quiz2.DurationSeconds != 300 {
		t.Error("Defaults must not overwrite explicit values")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Quiz)
		valid  bool
	}{
		{"valid quiz", func(q *Quiz) {}, true},
		{"no questions", func(q *Quiz) { q.Questions = nil }, false},
		{"single option", func(q *Quiz) { q.Questions[0].Options = []string{"a"} }, false},
		{"correct index negative", func(q *Quiz) { q.Questions[1].CorrectOptionIndex = -1 }, false},
		{"correct index past options", func(q *Quiz) { q.Questions[1].CorrectOptionIndex = 3 }, false},
		{"passing score above 100", func(q *Quiz) { q.PassingScore = 101 }, false},
		{"negative duration", func(q *Quiz) { q.DurationSeconds = -5 }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			quiz := validQuiz()
			quiz.ApplyDefaults()
			tc.mutate(quiz)
			err := quiz.Validate()
			if tc.valid && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tc.valid {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Expected ValidationError, got %v", err)
				}
			}
		})
	}
}

func TestPublicStripsAnswerKey(t *testing.T) {
	quiz := validQuiz()
	public := quiz.Public()
	if len(public.Questions) != len(quiz.Questions) {
		t.Fatalf("Expected %d questions, got %d", len(quiz.Questions), len(public.Questions))
	}
	public.Questions[0].Options[0] = "tampered"
	if quiz.Questions[0].Options[0] != "a" {
		t.Error("Public view must not share option slices with the quiz")
	}
}
