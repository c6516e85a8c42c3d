package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-engine/internal/models"
)

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock drives timers by hand so expiry is deterministic.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func testQuiz() *models.Quiz {
	return &models.Quiz{
		ID:              "quiz-1",
		Title:           "Basics",
		PassingScore:    70,
		DurationSeconds: 900,
		Questions: []models.Question{
			{Options: []string{"a", "b"}, CorrectOptionIndex: 0},
			{Options: []string{"a", "b"}, CorrectOptionIndex: 1},
			{Options: []string{"a", "b"}, CorrectOptionIndex: 0},
		},
	}
}

func startSession(t *testing.T, clock Clock, onExpire func(*models.Attempt)) *AttemptSession {
	t.Helper()
	session := NewAttemptSession(testQuiz(), "user-1", clock)
	if err := session.Start(onExpire); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return session
}

func TestManualSubmitProducesAttempt(t *testing.T) {
	clock := newFakeClock()
	session := startSession(t, clock, nil)

	if err := session.SelectOption(0, 0); err != nil {
		t.Fatalf("SelectOption failed: %v", err)
	}
	if err := session.SelectOption(1, 1); err != nil {
		t.Fatalf("SelectOption failed: %v", err)
	}
	clock.Advance(120 * time.Second)

	attempt, err := session.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if attempt.CorrectCount != 2 || attempt.TotalQuestions != 3 {
		t.Errorf("Expected 2/3 correct, got %d/%d", attempt.CorrectCount, attempt.TotalQuestions)
	}
	if attempt.CompletionType != models.CompletionSubmitted {
		t.Errorf("Expected completion %s, got %s", models.CompletionSubmitted, attempt.CompletionType)
	}
	if attempt.TimeTakenSeconds != 120 {
		t.Errorf("Expected 120 seconds taken, got %d", attempt.TimeTakenSeconds)
	}
	if attempt.Status != models.AttemptFailed {
		t.Errorf("Expected %s at 66.7%%, got %s", models.AttemptFailed, attempt.Status)
	}
	if session.State() != StateSubmitted {
		t.Errorf("Expected terminal state, got %v", session.State())
	}
}

func TestExpiryAutoSubmits(t *testing.T) {
	clock := newFakeClock()
	var expired []*models.Attempt
	session := startSession(t, clock, func(a *models.Attempt) {
		expired = append(expired, a)
	})

	clock.Advance(900 * time.Second)

	if len(expired) != 1 {
		t.Fatalf("Expected exactly one expiry callback, got %d", len(expired))
	}
	if expired[0].CompletionType != models.CompletionExpired {
		t.Errorf("Expected completion %s, got %s", models.CompletionExpired, expired[0].CompletionType)
	}
	if expired[0].TimeTakenSeconds != 900 {
		t.Errorf("Expected full duration taken, got %d", expired[0].TimeTakenSeconds)
	}
	if session.State() != StateSubmitted {
		t.Errorf("Expected terminal state after expiry, got %v", session.State())
	}
}

func TestSubmitAndExpiryAreMutuallyExclusive(t *testing.T) {
	// Manual submit first: the timer must not fire the callback afterwards.
	clock := newFakeClock()
	fired := 0
	session := startSession(t, clock, func(*models.Attempt) { fired++ })

	if _, err := session.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	clock.Advance(900 * time.Second)
	if fired != 0 {
		t.Errorf("Expiry callback fired %d times after manual submit", fired)
	}

	// Expiry first: a manual submit racing on the same instant is rejected
	// and exactly one attempt exists.
	clock2 := newFakeClock()
	fired2 := 0
	session2 := startSession(t, clock2, func(*models.Attempt) { fired2++ })

	clock2.Advance(900 * time.Second)
	if _, err := session2.Submit(); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Expected ErrAlreadySubmitted after expiry, got %v", err)
	}
	if fired2 != 1 {
		t.Errorf("Expected exactly one expiry callback, got %d", fired2)
	}
	attempt, ok := session2.Attempt()
	if !ok {
		t.Fatal("Expected a frozen attempt")
	}
	if attempt.CompletionType != models.CompletionExpired {
		t.Errorf("Expected completion %s, got %s", models.CompletionExpired, attempt.CompletionType)
	}
}

func TestSelectAfterSubmitHasNoEffect(t *testing.T) {
	clock := newFakeClock()
	session := startSession(t, clock, nil)
	if err := session.SelectOption(0, 0); err != nil {
		t.Fatalf("SelectOption failed: %v", err)
	}

	attempt, err := session.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	frozen := append([]int(nil), attempt.Answers...)

	if err := session.SelectOption(1, 1); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Expected ErrAlreadySubmitted, got %v", err)
	}
	after, _ := session.Attempt()
	for i := range frozen {
		if after.Answers[i] != frozen[i] {
			t.Errorf("Answer %d changed after submission: %d -> %d", i, frozen[i], after.Answers[i])
		}
	}
}

func TestRemainingSeconds(t *testing.T) {
	clock := newFakeClock()
	session := startSession(t, clock, nil)

	if got := session.RemainingSeconds(); got != 900 {
		t.Errorf("Expected 900 remaining, got %d", got)
	}
	clock.Advance(300 * time.Second)
	if got := session.RemainingSeconds(); got != 600 {
		t.Errorf("Expected 600 remaining, got %d", got)
	}
	if _, err := session.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := session.RemainingSeconds(); got != 0 {
		t.Errorf("Expected 0 remaining after submit, got %d", got)
	}
}

func TestSelectBeforeStartIsRejected(t *testing.T) {
	session := NewAttemptSession(testQuiz(), "user-1", newFakeClock())
	if err := session.SelectOption(0, 0); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Expected ErrNotStarted, got %v", err)
	}
	if _, err := session.Submit(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Expected ErrNotStarted, got %v", err)
	}
}

func TestStartTwiceIsRejected(t *testing.T) {
	clock := newFakeClock()
	session := startSession(t, clock, nil)
	if err := session.Start(nil); err == nil {
		t.Error("Expected second Start to fail")
	}
}
