package service

import (
	"context"
	"time"

	"quiz-engine/internal/cache"
	"quiz-engine/internal/catalog"
	"quiz-engine/internal/models"
	"quiz-engine/internal/repository"
	"quiz-engine/internal/store"
)

type QuizService struct {
	Repo    *repository.QuizRepository
	Cache   *cache.QuizCache
	Catalog *catalog.Catalog
}

func NewQuizService(repo *repository.QuizRepository, quizCache *cache.QuizCache, cat *catalog.Catalog) *QuizService {
	return &QuizService{Repo: repo, Cache: quizCache, Catalog: cat}
}

func (s *QuizService) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	quiz.ApplyDefaults()
	if err := quiz.Validate(); err != nil {
		return err
	}
	if quiz.Language != "" && !s.Catalog.Has(quiz.Language, quiz.Topic) {
		return &models.ValidationError{Field: "language/topic", Reason: "not in catalog"}
	}
	now := time.Now()
	quiz.Status = models.QuizActive
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	if err := s.Repo.Create(ctx, quiz); err != nil {
		return err
	}
	s.Cache.Set(ctx, quiz)
	return nil
}

// GetQuiz resolves a quiz for reads and new attempts. Soft-deleted quizzes
// report not found here; use GetQuizAnyStatus where historical attempts must
// keep resolving.
func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, err := s.GetQuizAnyStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.Status == models.QuizDeleted {
		return nil, store.ErrNotFound
	}
	return quiz, nil
}

// GetQuizAnyStatus reads through the cache regardless of soft deletion.
// Quizzes are immutable during attempts, so a cached definition is always
// safe to attempt against.
func (s *QuizService) GetQuizAnyStatus(ctx context.Context, id string) (*models.Quiz, error) {
	if quiz, ok := s.Cache.Get(ctx, id); ok {
		return quiz, nil
	}
	quiz, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, quiz)
	return quiz, nil
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return s.Repo.FindAll(ctx)
}

func (s *QuizService) UpdateQuiz(ctx context.Context, quiz *models.Quiz) error {
	quiz.ApplyDefaults()
	if err := quiz.Validate(); err != nil {
		return err
	}
	quiz.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, quiz); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, quiz.ID)
	return nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, id)
	return nil
}
