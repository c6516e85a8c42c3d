package service

import (
	"context"

	"quiz-engine/internal/engine"
	"quiz-engine/internal/models"
	"quiz-engine/internal/repository"
)

// ResultService is the read-only side: completed attempts and their
// per-question review. It never mutates anything.
type ResultService struct {
	Attempts *repository.AttemptRepository
	Quizzes  *QuizService
}

func NewResultService(attempts *repository.AttemptRepository, quizzes *QuizService) *ResultService {
	return &ResultService{Attempts: attempts, Quizzes: quizzes}
}

func (s *ResultService) GetAttempt(ctx context.Context, id string) (*models.Attempt, error) {
	return s.Attempts.FindByID(ctx, id)
}

func (s *ResultService) GetAttemptsByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	return s.Attempts.FindByUser(ctx, userID)
}

// Review resolves an attempt against its quiz and reveals correct answers.
func (s *ResultService) Review(ctx context.Context, attemptID string) (*models.AttemptReview, error) {
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.Quizzes.GetQuizAnyStatus(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	return BuildReview(quiz, attempt), nil
}

// BuildReview pairs each question with the attempt's selection. Pure; also
// used to hand the review back right after submission.
func BuildReview(quiz *models.Quiz, attempt *models.Attempt) *models.AttemptReview {
	questions := make([]models.QuestionReview, len(quiz.Questions))
	for i, q := range quiz.Questions {
		selected := engine.Unanswered
		if i < len(attempt.Answers) {
			selected = attempt.Answers[i]
		}
		questions[i] = models.QuestionReview{
			Text:                q.Text,
			Options:             q.Options,
			SelectedOptionIndex: selected,
			CorrectOptionIndex:  q.CorrectOptionIndex,
			Answered:            selected != engine.Unanswered,
			Correct:             selected == q.CorrectOptionIndex,
		}
	}
	return &models.AttemptReview{
		AttemptID:        attempt.ID,
		QuizID:           attempt.QuizID,
		QuizTitle:        quiz.Title,
		UserID:           attempt.UserID,
		CorrectCount:     attempt.CorrectCount,
		TotalQuestions:   attempt.TotalQuestions,
		ScorePercent:     attempt.ScorePercent,
		PassingScore:     quiz.PassingScore,
		Status:           attempt.Status,
		CompletionType:   attempt.CompletionType,
		AttemptNumber:    attempt.AttemptNumber,
		TimeTakenSeconds: attempt.TimeTakenSeconds,
		SubmittedAt:      attempt.SubmittedAt,
		Questions:        questions,
	}
}
