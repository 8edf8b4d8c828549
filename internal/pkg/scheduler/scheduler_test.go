package scheduler

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type hookRecorder struct {
	mu    sync.Mutex
	tasks []string
	errs  []error
}

func (h *hookRecorder) hook(task string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tasks = append(h.tasks, task)
	h.errs = append(h.errs, err)
}

func (h *hookRecorder) recorded() ([]string, []error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.tasks...), append([]error(nil), h.errs...)
}

func TestSchedulerSpawnRuns(t *testing.T) {
	t.Parallel()

	s := New(nil)
	ran := make(chan struct{})
	err := s.Spawn("task", func(stop <-chan struct{}) error {
		close(ran)
		return nil
	})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
	s.Close()
}

func TestSchedulerCloseWaits(t *testing.T) {
	t.Parallel()

	s := New(nil)
	var finished atomic.Bool
	err := s.Spawn("slow", func(stop <-chan struct{}) error {
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	s.Close()
	if !finished.Load() {
		t.Fatal("Close returned before task finished")
	}
}

func TestSchedulerStopSignal(t *testing.T) {
	t.Parallel()

	s := New(nil)
	stopped := make(chan struct{})
	err := s.Spawn("waiter", func(stop <-chan struct{}) error {
		<-stop
		close(stopped)
		return nil
	})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not signal waiting task")
	}
	<-stopped
}

func TestSchedulerErrorHook(t *testing.T) {
	t.Parallel()

	recorder := &hookRecorder{}
	s := New(recorder.hook)
	taskErr := errors.New("task failed")
	if err := s.Spawn("failing", func(stop <-chan struct{}) error {
		return taskErr
	}); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	s.Close()

	tasks, errs := recorder.recorded()
	if len(tasks) != 1 || tasks[0] != "failing" {
		t.Fatalf("expected hook call for task, got %v", tasks)
	}
	if !errors.Is(errs[0], taskErr) {
		t.Fatalf("expected task error, got %v", errs[0])
	}
}

func TestSchedulerPanicRecovered(t *testing.T) {
	t.Parallel()

	recorder := &hookRecorder{}
	s := New(recorder.hook)
	if err := s.Spawn("panicking", func(stop <-chan struct{}) error {
		panic("boom")
	}); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	s.Close()

	_, errs := recorder.recorded()
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "boom") {
		t.Fatalf("expected recovered panic in hook, got %v", errs)
	}
}

func TestSchedulerSpawnAfterClose(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.Close()
	err := s.Spawn("late", func(stop <-chan struct{}) error { return nil })
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	// Повторный Close безопасен.
	s.Close()
}
