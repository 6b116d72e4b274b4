package blogapi

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move the breaker's notion of time without sleeping
type fakeClock struct {
	t  time.Time
	mu sync.Mutex
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestBreaker(threshold int, open time.Duration) (*circuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	cb := newCircuitBreaker(threshold, open, nil)
	cb.now = clock.now
	return cb, clock
}

func TestCircuitBreaker_InitialState(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute)

	if err := cb.canAttempt("posts.list"); err != nil {
		t.Errorf("canAttempt() on a fresh breaker returned error: %v", err)
	}
	if got := cb.state("posts.list"); got != breakerClosed {
		t.Errorf("state = %v, want CLOSED", got)
	}
}

func TestCircuitBreaker_OpensAtThreshold(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute)
	testErr := errors.New("connection refused")

	for i := 0; i < 2; i++ {
		cb.recordFailure("posts.list", testErr)
	}
	if err := cb.canAttempt("posts.list"); err != nil {
		t.Fatalf("circuit opened below threshold: %v", err)
	}

	cb.recordFailure("posts.list", testErr)

	err := cb.canAttempt("posts.list")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("canAttempt() error = %v, want ErrCircuitOpen", err)
	}
	if !strings.Contains(err.Error(), "posts.list") {
		t.Errorf("error should name the operation, got: %s", err)
	}
}

func TestCircuitBreaker_HalfOpenAfterWindow(t *testing.T) {
	cb, clock := newTestBreaker(2, 30*time.Second)
	testErr := errors.New("timeout")

	cb.recordFailure("posts.get", testErr)
	cb.recordFailure("posts.get", testErr)

	clock.advance(29 * time.Second)
	if err := cb.canAttempt("posts.get"); err == nil {
		t.Fatal("circuit should still be open inside the window")
	}

	clock.advance(2 * time.Second)
	if err := cb.canAttempt("posts.get"); err != nil {
		t.Fatalf("circuit should admit a trial after the window, got: %v", err)
	}
	if got := cb.state("posts.get"); got != breakerHalfOpen {
		t.Errorf("state = %v, want HALF-OPEN", got)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(3, 10*time.Second)
	testErr := errors.New("boom")

	for i := 0; i < 3; i++ {
		cb.recordFailure("likes.add", testErr)
	}
	clock.advance(11 * time.Second)
	if err := cb.canAttempt("likes.add"); err != nil {
		t.Fatalf("expected half-open trial, got: %v", err)
	}

	cb.recordFailure("likes.add", testErr)

	if got := cb.state("likes.add"); got != breakerOpen {
		t.Errorf("state = %v, want OPEN after failed trial", got)
	}
	if err := cb.canAttempt("likes.add"); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("canAttempt() error = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreaker_HalfOpenAdmitsOneTrial(t *testing.T) {
	cb, clock := newTestBreaker(1, 10*time.Second)

	cb.recordFailure("posts.list", errors.New("boom"))
	clock.advance(11 * time.Second)

	if err := cb.canAttempt("posts.list"); err != nil {
		t.Fatalf("first caller after the window should be admitted, got: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := cb.canAttempt("posts.list"); !errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("caller %d during the trial: error = %v, want ErrCircuitOpen", i, err)
		}
	}

	// A trial abandoned by its caller frees the slot without deciding anything.
	cb.releaseTrial("posts.list")
	if got := cb.state("posts.list"); got != breakerHalfOpen {
		t.Errorf("state = %v, want HALF-OPEN", got)
	}
	if err := cb.canAttempt("posts.list"); err != nil {
		t.Fatalf("slot should be free after release, got: %v", err)
	}

	cb.recordSuccess("posts.list")
	if err := cb.canAttempt("posts.list"); err != nil {
		t.Errorf("closed circuit rejected a call: %v", err)
	}
}

func TestCircuitBreaker_HalfOpenConcurrentCallers(t *testing.T) {
	cb, clock := newTestBreaker(1, time.Second)
	cb.recordFailure("posts.get", errors.New("boom"))
	clock.advance(2 * time.Second)

	var admitted int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cb.canAttempt("posts.get") == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 1 {
		t.Errorf("admitted %d callers in half-open, want 1", admitted)
	}
}

func TestCircuitBreaker_SuccessCloses(t *testing.T) {
	cb, clock := newTestBreaker(2, time.Second)
	testErr := errors.New("boom")

	cb.recordFailure("comments.list", testErr)
	cb.recordFailure("comments.list", testErr)
	clock.advance(2 * time.Second)
	_ = cb.canAttempt("comments.list")

	cb.recordSuccess("comments.list")

	if got := cb.state("comments.list"); got != breakerClosed {
		t.Errorf("state = %v, want CLOSED", got)
	}

	// Failure history is reset: one more failure must not reopen.
	cb.recordFailure("comments.list", testErr)
	if err := cb.canAttempt("comments.list"); err != nil {
		t.Errorf("single failure after recovery opened the circuit: %v", err)
	}
}

func TestCircuitBreaker_IndependentOperations(t *testing.T) {
	cb, _ := newTestBreaker(1, time.Minute)

	cb.recordFailure("posts.image", errors.New("boom"))

	if err := cb.canAttempt("posts.image"); err == nil {
		t.Error("posts.image should be open")
	}
	if err := cb.canAttempt("posts.list"); err != nil {
		t.Errorf("posts.list should be unaffected, got: %v", err)
	}
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := newCircuitBreaker(3, 10*time.Millisecond, nil)
	testErr := errors.New("boom")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			switch idx % 3 {
			case 0:
				cb.recordFailure("posts.list", testErr)
			case 1:
				cb.recordSuccess("posts.list")
			default:
				_ = cb.canAttempt("posts.list")
			}
		}(i)
	}
	wg.Wait()

	_ = cb.canAttempt("posts.list")
}
