package downloader

import (
	"fmt"
	"sync"

	"github.com/cesargomez89/menusync/internal/logger"
)

// Supervisor tracks background tasks so callers can wait for them to settle.
type Supervisor struct {
	wg     sync.WaitGroup
	logger *logger.Logger
}

func NewSupervisor(log *logger.Logger) *Supervisor {
	if log == nil {
		log = logger.Default()
	}
	return &Supervisor{logger: log.WithComponent("supervisor")}
}

// Go runs fn in a new goroutine. A panic in fn is logged, not propagated.
func (s *Supervisor) Go(name string, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Background task panicked", "task", name, "panic", fmt.Sprint(r))
			}
		}()
		fn()
	}()
}

// Wait blocks until every task started with Go has returned, including tasks
// started by other tasks while waiting.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}
