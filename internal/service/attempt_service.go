package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-engine/internal/engine"
	"quiz-engine/internal/event"
	"quiz-engine/internal/models"
	"quiz-engine/internal/repository"
)

var (
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrForbidden        = errors.New("attempt belongs to another user")
	ErrInvalidIndex     = errors.New("question or option index out of range")
	ErrAttemptNotClosed = errors.New("attempt has not been submitted yet")
)

// PersistenceError marks a failed attempt write. The computed score and the
// answers are still held in memory; the caller may retry the save.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "attempt not saved: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// expiredRetryWindow is how long an expired attempt whose save failed stays
// in the live registry for the retry endpoint before the session is dropped.
const expiredRetryWindow = time.Hour

type liveAttempt struct {
	token   string
	session *engine.AttemptSession

	// mu serializes persistence so a retry racing the expiry write
	// coalesces onto one record and one submitted event.
	mu        sync.Mutex
	persisted bool
}

// AttemptService coordinates submissions: it owns the registry of in-flight
// attempt sessions and drives freeze → score → persist → status update.
type AttemptService struct {
	mu   sync.Mutex
	live map[string]*liveAttempt

	Quizzes   *QuizService
	Attempts  *repository.AttemptRepository
	Statuses  *repository.StatusRepository
	Publisher *event.EventPublisher
	clock     engine.Clock
}

func NewAttemptService(
	quizzes *QuizService,
	attempts *repository.AttemptRepository,
	statuses *repository.StatusRepository,
	publisher *event.EventPublisher,
	clock engine.Clock,
) *AttemptService {
	if clock == nil {
		clock = engine.RealClock()
	}
	return &AttemptService{
		live:      make(map[string]*liveAttempt),
		Quizzes:   quizzes,
		Attempts:  attempts,
		Statuses:  statuses,
		Publisher: publisher,
		clock:     clock,
	}
}

// StartedAttempt is handed to the test-taker when the countdown begins. The
// quiz view has the answer key stripped.
type StartedAttempt struct {
	Token            string            `json:"token"`
	Quiz             models.PublicQuiz `json:"quiz"`
	RemainingSeconds int               `json:"remaining_seconds"`
}

// StartAttempt loads and validates the quiz, then starts the countdown. A
// malformed quiz surfaces a ValidationError before any timer exists.
func (s *AttemptService) StartAttempt(ctx context.Context, quizID, userID string) (*StartedAttempt, error) {
	quiz, err := s.Quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	quiz.ApplyDefaults()
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	session := engine.NewAttemptSession(quiz, userID, s.clock)
	token := uuid.NewString()
	la := &liveAttempt{token: token, session: session}

	s.mu.Lock()
	s.live[token] = la
	s.mu.Unlock()

	if err := session.Start(func(attempt *models.Attempt) {
		s.handleExpiry(la, attempt)
	}); err != nil {
		return nil, err
	}

	_ = s.Publisher.Publish(event.AttemptStarted, map[string]interface{}{
		"token":   token,
		"quiz_id": quizID,
		"user_id": userID,
	})

	return &StartedAttempt{
		Token:            token,
		Quiz:             quiz.Public(),
		RemainingSeconds: session.RemainingSeconds(),
	}, nil
}

// SelectAnswer records an option choice. Indices from the wire are validated
// here; the engine's own bounds panic stays an assertion against internal
// callers.
func (s *AttemptService) SelectAnswer(token, userID string, questionIndex, optionIndex int) error {
	la, err := s.lookup(token, userID)
	if err != nil {
		return err
	}
	questions := la.session.Quiz().Questions
	if questionIndex < 0 || questionIndex >= len(questions) {
		return ErrInvalidIndex
	}
	if optionIndex < 0 || optionIndex >= len(questions[questionIndex].Options) {
		return ErrInvalidIndex
	}
	return la.session.SelectOption(questionIndex, optionIndex)
}

// AttemptProgress is the live view of a running attempt.
type AttemptProgress struct {
	State            string `json:"state"`
	RemainingSeconds int    `json:"remaining_seconds"`
	AnsweredCount    int    `json:"answered_count"`
	TotalQuestions   int    `json:"total_questions"`
}

func (s *AttemptService) Progress(token, userID string) (*AttemptProgress, error) {
	la, err := s.lookup(token, userID)
	if err != nil {
		return nil, err
	}
	return &AttemptProgress{
		State:            la.session.State().String(),
		RemainingSeconds: la.session.RemainingSeconds(),
		AnsweredCount:    la.session.AnsweredCount(),
		TotalQuestions:   len(la.session.Quiz().Questions),
	}, nil
}

// Submit is the manual completion path. The attempt is always returned once
// the terminal transition happens; a PersistenceError alongside it means the
// save failed and can be retried without losing answers or score.
func (s *AttemptService) Submit(ctx context.Context, token, userID string) (*models.Attempt, error) {
	la, err := s.lookup(token, userID)
	if err != nil {
		return nil, err
	}
	attempt, err := la.session.Submit()
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, la, attempt, false); err != nil {
		return attempt, err
	}
	return attempt, nil
}

// RetryPersist re-runs only the persistence step after a failed save. The
// frozen answers and score are reused; the record carries the retry's
// timestamp.
func (s *AttemptService) RetryPersist(ctx context.Context, token, userID string) (*models.Attempt, error) {
	la, err := s.lookup(token, userID)
	if err != nil {
		return nil, err
	}
	attempt, ok := la.session.Attempt()
	if !ok {
		return nil, ErrAttemptNotClosed
	}
	if err := s.persist(ctx, la, attempt, true); err != nil {
		return attempt, err
	}
	return attempt, nil
}

// handleExpiry runs on the timer goroutine when time runs out. There is no
// user to report to, so persistence failures are logged and left for the
// retry endpoint.
func (s *AttemptService) handleExpiry(la *liveAttempt, attempt *models.Attempt) {
	ctx := context.Background()
	_ = s.Publisher.Publish(event.AttemptExpired, map[string]interface{}{
		"token":   la.token,
		"quiz_id": attempt.QuizID,
		"user_id": attempt.UserID,
	})
	if err := s.persist(ctx, la, attempt, false); err != nil {
		log.Printf("expired attempt %s not persisted: %v", la.token, err)
		s.clock.AfterFunc(expiredRetryWindow, func() { s.evict(la.token) })
	}
}

// evict drops an abandoned session so the registry cannot grow without
// bound when an expired attempt's save fails and nobody retries.
func (s *AttemptService) evict(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, token)
}

// persist runs steps 4 and 5 of the submission flow: write the attempt
// record, then refresh the aggregate status. Only the attempt write is
// fatal; a stale status is reconciled on the next read.
func (s *AttemptService) persist(ctx context.Context, la *liveAttempt, attempt *models.Attempt, retry bool) error {
	la.mu.Lock()
	defer la.mu.Unlock()
	if la.persisted {
		return nil
	}

	if retry {
		attempt.SubmittedAt = s.clock.Now()
	}

	count, err := s.Attempts.CountByQuizAndUser(ctx, attempt.QuizID, attempt.UserID)
	if err != nil {
		return s.persistFailed(la, attempt, err)
	}
	attempt.AttemptNumber = int(count) + 1

	if err := s.Attempts.Create(ctx, attempt); err != nil {
		return s.persistFailed(la, attempt, err)
	}

	la.persisted = true
	s.mu.Lock()
	delete(s.live, la.token)
	s.mu.Unlock()

	status := &models.StudentQuizStatus{
		QuizID:        attempt.QuizID,
		UserID:        attempt.UserID,
		Status:        attempt.Status,
		Score:         attempt.ScorePercent,
		AttemptNumber: attempt.AttemptNumber,
		LastAttemptAt: attempt.SubmittedAt,
	}
	if err := s.Statuses.Upsert(ctx, status); err != nil {
		log.Printf("status update failed for quiz %s user %s: %v (reconciled on next read)",
			attempt.QuizID, attempt.UserID, err)
	}

	_ = s.Publisher.Publish(event.AttemptSubmitted, map[string]interface{}{
		"attempt_id":      attempt.ID,
		"quiz_id":         attempt.QuizID,
		"user_id":         attempt.UserID,
		"status":          attempt.Status,
		"score_percent":   attempt.ScorePercent,
		"completion_type": attempt.CompletionType,
	})
	return nil
}

func (s *AttemptService) persistFailed(la *liveAttempt, attempt *models.Attempt, err error) error {
	_ = s.Publisher.Publish(event.AttemptPersistFailed, map[string]interface{}{
		"token":   la.token,
		"quiz_id": attempt.QuizID,
		"user_id": attempt.UserID,
	})
	return &PersistenceError{Err: err}
}

// AggregateStatus returns the student's standing on a quiz, rebuilding the
// denormalized record from attempt history whenever it is missing or older
// than the latest attempt.
func (s *AttemptService) AggregateStatus(ctx context.Context, quizID, userID string) (*models.StudentQuizStatus, error) {
	attempts, err := s.Attempts.FindByQuizAndUser(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	status, statusErr := s.Statuses.Find(ctx, quizID, userID)

	if len(attempts) == 0 {
		if statusErr != nil {
			return nil, statusErr
		}
		return status, nil
	}

	latest := attempts[0]
	stale := statusErr != nil ||
		status.LastAttemptAt.Before(latest.SubmittedAt) ||
		status.AttemptNumber != len(attempts)
	if !stale {
		return status, nil
	}

	rebuilt := &models.StudentQuizStatus{
		QuizID:        quizID,
		UserID:        userID,
		Status:        latest.Status,
		Score:         latest.ScorePercent,
		AttemptNumber: len(attempts),
		LastAttemptAt: latest.SubmittedAt,
	}
	if err := s.Statuses.Upsert(ctx, rebuilt); err != nil {
		log.Printf("status reconciliation write failed for quiz %s user %s: %v", quizID, userID, err)
	}
	_ = s.Publisher.Publish(event.StatusReconciled, map[string]interface{}{
		"quiz_id": quizID,
		"user_id": userID,
	})
	return rebuilt, nil
}

func (s *AttemptService) lookup(token, userID string) (*liveAttempt, error) {
	s.mu.Lock()
	la, ok := s.live[token]
	s.mu.Unlock()
	if !ok {
		return nil, ErrAttemptNotFound
	}
	if la.session.UserID() != userID {
		return nil, ErrForbidden
	}
	return la, nil
}
