package repository

import (
	"context"

	"quiz-engine/internal/models"
	"quiz-engine/internal/store"
)

const statusCollection = "quiz_status"

// StatusRepository holds the denormalized per-(quiz,user) standing. It is a
// convenience view over attempt history, never the source of truth.
type StatusRepository struct {
	Store store.DocumentStore
}

func NewStatusRepository(s store.DocumentStore) *StatusRepository {
	return &StatusRepository{Store: s}
}

func (r *StatusRepository) Find(ctx context.Context, quizID, userID string) (*models.StudentQuizStatus, error) {
	doc, err := r.Store.Get(ctx, statusCollection, models.StatusKey(quizID, userID))
	if err != nil {
		return nil, err
	}
	var status models.StudentQuizStatus
	if err := decode(doc, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *StatusRepository) Upsert(ctx context.Context, status *models.StudentQuizStatus) error {
	status.ID = models.StatusKey(status.QuizID, status.UserID)
	doc, err := encode(status)
	if err != nil {
		return err
	}
	return r.Store.Put(ctx, statusCollection, status.ID, doc)
}
