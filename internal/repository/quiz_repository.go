package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quiz-engine/internal/models"
	"quiz-engine/internal/store"
)

const quizCollection = "quizzes"

type QuizRepository struct {
	Store store.DocumentStore
}

func NewQuizRepository(s store.DocumentStore) *QuizRepository {
	return &QuizRepository{Store: s}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = primitive.NewObjectID().Hex()
	}
	doc, err := encode(quiz)
	if err != nil {
		return err
	}
	return r.Store.Put(ctx, quizCollection, quiz.ID, doc)
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	doc, err := r.Store.Get(ctx, quizCollection, id)
	if err != nil {
		return nil, err
	}
	var quiz models.Quiz
	if err := decode(doc, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindAll(ctx context.Context) ([]models.Quiz, error) {
	docs, err := r.Store.Query(ctx, quizCollection, nil)
	if err != nil {
		return nil, err
	}
	var quizzes []models.Quiz
	for _, doc := range docs {
		var quiz models.Quiz
		if err := decode(doc, &quiz); err != nil {
			return nil, err
		}
		if quiz.Status == models.QuizDeleted {
			continue
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

func (r *QuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	doc, err := encode(quiz)
	if err != nil {
		return err
	}
	return r.Store.Put(ctx, quizCollection, quiz.ID, doc)
}

// Delete soft-deletes so attempt history keeps resolving quiz titles.
func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	quiz, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	quiz.Status = models.QuizDeleted
	return r.Update(ctx, quiz)
}
