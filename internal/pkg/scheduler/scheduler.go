package scheduler

import (
	"errors"
	"fmt"
	"sync"
)

var ErrClosed = errors.New("scheduler closed")

// ErrorHook вызывается для любой ошибки, не обработанной внутри задачи.
type ErrorHook func(task string, err error)

// Scheduler запускает именованные фоновые задачи и умеет дожидаться
// их завершения при остановке.
type Scheduler struct {
	hook ErrorHook
	stop chan struct{}
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func New(hook ErrorHook) *Scheduler {
	return &Scheduler{
		hook: hook,
		stop: make(chan struct{}),
	}
}

// Spawn запускает задачу в отдельной горутине и сразу возвращается.
// Задача обязана завершиться после закрытия канала stop.
func (s *Scheduler) Spawn(name string, task func(stop <-chan struct{}) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil && s.hook != nil {
				s.hook(name, fmt.Errorf("panic: %v", r))
			}
		}()
		if err := task(s.stop); err != nil && s.hook != nil {
			s.hook(name, err)
		}
	}()
	return nil
}

// Close сигнализирует задачам об остановке и блокируется до их завершения.
// Повторный вызов безопасен.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.stop)
	s.mu.Unlock()

	s.wg.Wait()
}
