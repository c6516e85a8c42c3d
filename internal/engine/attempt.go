package engine

import (
	"errors"
	"sync"
	"time"

	"quiz-engine/internal/models"
)

var (
	ErrNotStarted       = errors.New("attempt not started")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
)

// State is the attempt lifecycle. Submitted is terminal: the timer never
// resumes and no further answer mutation is observable.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSubmitted:
		return "submitted"
	default:
		return "not_started"
	}
}

// AttemptSession is one student's in-progress run of one quiz: the countdown,
// the answer sheet and the terminal transition. Timer expiry and manual
// submission race on the same transition; the mutex plus the state check at
// the top of finalize guarantee exactly one of them wins.
type AttemptSession struct {
	mu sync.Mutex

	quiz   *models.Quiz
	userID string
	sheet  *AnswerSheet
	clock  Clock

	state     State
	startedAt time.Time
	timer     Timer
	onExpire  func(*models.Attempt)
	attempt   *models.Attempt
}

func NewAttemptSession(quiz *models.Quiz, userID string, clock Clock) *AttemptSession {
	if clock == nil {
		clock = RealClock()
	}
	return &AttemptSession{
		quiz:   quiz,
		userID: userID,
		sheet:  NewAnswerSheet(quiz.Questions),
		clock:  clock,
	}
}

// Start begins the countdown. onExpire is invoked at most once, only if time
// runs out before a manual submission.
func (a *AttemptSession) Start(onExpire func(*models.Attempt)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateNotStarted {
		return ErrAlreadySubmitted
	}
	a.state = StateRunning
	a.startedAt = a.clock.Now()
	a.onExpire = onExpire
	a.timer = a.clock.AfterFunc(time.Duration(a.quiz.DurationSeconds)*time.Second, a.expire)
	return nil
}

// SelectOption records an answer. After the attempt reaches the terminal
// state the sheet is frozen and the call reports ErrAlreadySubmitted without
// touching the recorded attempt.
func (a *AttemptSession) SelectOption(questionIndex, optionIndex int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.state {
	case StateNotStarted:
		return ErrNotStarted
	case StateSubmitted:
		return ErrAlreadySubmitted
	}
	a.sheet.SelectOption(questionIndex, optionIndex)
	return nil
}

// Submit is the manual completion path.
func (a *AttemptSession) Submit() (*models.Attempt, error) {
	return a.finalize(models.CompletionSubmitted)
}

// expire is the timer completion path.
func (a *AttemptSession) expire() {
	attempt, err := a.finalize(models.CompletionExpired)
	if err != nil {
		// Lost the race against a manual submit. Nothing fires twice.
		return
	}
	if a.onExpire != nil {
		a.onExpire(attempt)
	}
}

// finalize performs the single terminal transition: stop the clock, freeze
// the sheet, score, and build the immutable attempt record.
func (a *AttemptSession) finalize(completionType string) (*models.Attempt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateNotStarted {
		return nil, ErrNotStarted
	}
	if a.state == StateSubmitted {
		return nil, ErrAlreadySubmitted
	}
	a.state = StateSubmitted
	if a.timer != nil {
		a.timer.Stop()
	}

	now := a.clock.Now()
	elapsed := int(now.Sub(a.startedAt) / time.Second)
	if elapsed > a.quiz.DurationSeconds {
		elapsed = a.quiz.DurationSeconds
	}

	answers := a.sheet.Snapshot()
	result := Score(a.quiz.Questions, answers, a.quiz.PassingScore)

	a.attempt = &models.Attempt{
		QuizID:           a.quiz.ID,
		UserID:           a.userID,
		Answers:          answers,
		TimeTakenSeconds: elapsed,
		CorrectCount:     result.CorrectCount,
		TotalQuestions:   result.TotalQuestions,
		ScorePercent:     result.ScorePercent,
		Status:           result.Status,
		CompletionType:   completionType,
		SubmittedAt:      now,
	}
	return a.attempt, nil
}

// Attempt returns the frozen record once the session is terminal.
func (a *AttemptSession) Attempt() (*models.Attempt, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attempt, a.attempt != nil
}

func (a *AttemptSession) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *AttemptSession) UserID() string { return a.userID }

func (a *AttemptSession) Quiz() *models.Quiz { return a.quiz }

// RemainingSeconds reports the countdown; zero once expired or submitted.
func (a *AttemptSession) RemainingSeconds() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateRunning {
		return 0
	}
	elapsed := int(a.clock.Now().Sub(a.startedAt) / time.Second)
	remaining := a.quiz.DurationSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (a *AttemptSession) AnsweredCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sheet.AnsweredCount()
}
