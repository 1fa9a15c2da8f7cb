package session

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestAcquireCreatesContext(t *testing.T) {
	s := NewStore()

	convo, release, err := s.Acquire(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	defer release()

	if convo.SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", convo.SessionID)
	}
	if convo.Len() != 0 {
		t.Errorf("new context not empty: %d entries", convo.Len())
	}
}

func TestCommitPersistsMutations(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	convo, release, err := s.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	convo.Set("last_result", "5")
	if err := s.Commit(ctx, convo); err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	release()

	convo, release, err = s.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	if v, _ := convo.Get("last_result"); v != "5" {
		t.Errorf("last_result = %q, want 5", v)
	}
}

func TestReleaseWithoutCommitDiscards(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	convo, release, err := s.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	convo.Set("scratch", "leaks?")
	release()

	convo, release, err = s.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	if _, ok := convo.Get("scratch"); ok {
		t.Error("uncommitted mutation became visible")
	}
}

func TestAcquireSerializesSameSession(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, release, err := s.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}

	acquired := make(chan struct{})
	go func() {
		_, r2, err := s.Acquire(ctx, "s1")
		if err == nil {
			r2()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire succeeded while session was held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Acquire never proceeded after release")
	}
}

func TestAcquireConcurrentAcrossSessions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, release1, err := s.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	defer release1()

	done := make(chan struct{})
	go func() {
		_, release2, err := s.Acquire(ctx, "s2")
		if err == nil {
			release2()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("distinct session blocked behind s1")
	}
}

func TestAcquireRespectsContextCancellation(t *testing.T) {
	s := NewStore()

	_, release, err := s.Acquire(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, _, err := s.Acquire(ctx, "s1"); err == nil {
		t.Fatal("Acquire should fail when the context expires while waiting")
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	convo, release, err := s.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	convo.Set("k", "v")
	if err := s.Commit(ctx, convo); err != nil {
		t.Fatal(err)
	}
	release()

	if err := s.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	convo, release, err = s.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	if convo.Len() != 0 {
		t.Error("context survived Clear")
	}
}

func TestConcurrentSessionsStress(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := string(rune('a' + id))
			for j := 0; j < 50; j++ {
				convo, release, err := s.Acquire(ctx, sessionID)
				if err != nil {
					t.Errorf("Acquire: %v", err)
					return
				}
				convo.Set("turn", sessionID)
				if err := s.Commit(ctx, convo); err != nil {
					t.Errorf("Commit: %v", err)
				}
				release()
			}
		}(i)
	}
	wg.Wait()
}
