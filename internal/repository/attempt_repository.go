package repository

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quiz-engine/internal/models"
	"quiz-engine/internal/store"
)

const attemptCollection = "attempts"

// AttemptRepository holds the historical attempts collection, the source of
// truth for results.
type AttemptRepository struct {
	Store store.DocumentStore
}

func NewAttemptRepository(s store.DocumentStore) *AttemptRepository {
	return &AttemptRepository{Store: s}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *models.Attempt) error {
	if attempt.ID == "" {
		attempt.ID = primitive.NewObjectID().Hex()
	}
	doc, err := encode(attempt)
	if err != nil {
		return err
	}
	return r.Store.Put(ctx, attemptCollection, attempt.ID, doc)
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*models.Attempt, error) {
	doc, err := r.Store.Get(ctx, attemptCollection, id)
	if err != nil {
		return nil, err
	}
	var attempt models.Attempt
	if err := decode(doc, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	return r.find(ctx, store.Document{"user_id": userID})
}

// FindByQuizAndUser returns attempts newest first, so index 0 is the latest
// attempt for the (quiz, user) pair.
func (r *AttemptRepository) FindByQuizAndUser(ctx context.Context, quizID, userID string) ([]models.Attempt, error) {
	return r.find(ctx, store.Document{"quiz_id": quizID, "user_id": userID})
}

func (r *AttemptRepository) CountByQuizAndUser(ctx context.Context, quizID, userID string) (int64, error) {
	return r.Store.Count(ctx, attemptCollection, store.Document{"quiz_id": quizID, "user_id": userID})
}

func (r *AttemptRepository) find(ctx context.Context, filter store.Document) ([]models.Attempt, error) {
	docs, err := r.Store.Query(ctx, attemptCollection, filter)
	if err != nil {
		return nil, err
	}
	var attempts []models.Attempt
	for _, doc := range docs {
		var attempt models.Attempt
		if err := decode(doc, &attempt); err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].SubmittedAt.After(attempts[j].SubmittedAt)
	})
	return attempts, nil
}
