package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"OrbWatch/internal/notifier"
	"OrbWatch/internal/view"

	"github.com/robfig/cron/v3"
)

// Display is the part of the display controller the scheduler drives.
type Display interface {
	FetchData(ctx context.Context) error
	UpdateData(ctx context.Context) error
}

// Scheduler runs the periodic poll and reports display error transitions.
type Scheduler struct {
	Cron     *cron.Cron
	Display  Display
	Board    *view.Board
	Notifier notifier.Sender // nil disables alerts
	Ctx      context.Context

	mu      sync.Mutex
	inError bool
}

// NewScheduler creates a new Scheduler. tn may be nil.
func NewScheduler(ctx context.Context, d Display, board *view.Board, tn notifier.Sender) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Display:  d,
		Board:    board,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// Register adds the poll task. spec accepts six-field cron expressions and
// descriptors such as "@every 120s".
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running poll to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the poll task immediately (initial load).
func (s *Scheduler) RunNow() {
	s.pollTask()
}

// UpdateData runs the manual refresh action and tracks its outcome.
func (s *Scheduler) UpdateData(ctx context.Context) error {
	err := s.Display.UpdateData(ctx)
	s.observe(err)
	return err
}

func (s *Scheduler) pollTask() {
	log.Println("[INFO] polling price data")
	s.observe(s.Display.FetchData(s.Ctx))
}

// observe alerts once when the display enters the error state and once when
// it leaves it. Cancelled calls say nothing about the backend.
func (s *Scheduler) observe(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	s.mu.Lock()
	was := s.inError
	s.inError = err != nil
	s.mu.Unlock()

	switch {
	case err != nil && !was:
		s.trySend(notifier.FormatAlert(s.Board.Snapshot().ErrorText, err))
	case err == nil && was:
		s.trySend(notifier.FormatRecovered(s.Board.Snapshot()))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/price", "/status":
		return notifier.FormatStatus(s.Board.Snapshot())
	case "/refresh", "/update":
		if err := s.UpdateData(s.Ctx); err != nil {
			return fmt.Sprintf("❌ %s", s.Board.Snapshot().ErrorText)
		}
		return notifier.FormatStatus(s.Board.Snapshot())
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
