package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-engine/internal/models"
)

// QuizCache is a read-through cache for quiz definitions. Quizzes are
// immutable during an attempt, so a short TTL is safe. A nil cache disables
// caching entirely.
type QuizCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuizCache(client *redis.Client, ttl time.Duration) *QuizCache {
	if client == nil {
		return nil
	}
	return &QuizCache{client: client, ttl: ttl}
}

func key(quizID string) string { return "quiz:" + quizID }

func (c *QuizCache) Get(ctx context.Context, quizID string) (*models.Quiz, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key(quizID)).Bytes()
	if err != nil {
		return nil, false
	}
	var quiz models.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil, false
	}
	return &quiz, true
}

func (c *QuizCache) Set(ctx context.Context, quiz *models.Quiz) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(quiz.ID), raw, c.ttl).Err(); err != nil {
		log.Printf("quiz cache set failed for %s: %v", quiz.ID, err)
	}
}

func (c *QuizCache) Invalidate(ctx context.Context, quizID string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key(quizID)).Err(); err != nil {
		log.Printf("quiz cache invalidate failed for %s: %v", quizID, err)
	}
}
