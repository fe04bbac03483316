package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"SignalSentinel/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the executor from a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Executor *Executor
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. A cycle still running when the next
// tick fires causes that tick to be skipped, so cycles never overlap.
func NewScheduler(ctx context.Context, exec *Executor) *Scheduler {
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Executor: exec,
		Ctx:      ctx,
	}
}

// Register schedules the poll cycle.
func (s *Scheduler) Register(pollSpec string) error {
	if _, err := s.Cron.AddFunc(pollSpec, s.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one cycle synchronously. Call it only before Start.
func (s *Scheduler) RunNow() CycleResult {
	return s.Executor.RunCycle(s.Ctx)
}

func (s *Scheduler) pollTask() {
	s.Executor.RunCycle(s.Ctx)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	cmd := command
	if f := strings.Fields(command); len(f) > 0 {
		cmd = f[0]
	}
	// group chats address commands as /status@BotName
	cmd, _, _ = strings.Cut(strings.ToLower(cmd), "@")
	switch cmd {
	case "/status", "status":
		return notifier.FormatStatus(s.Executor.Status())
	default:
		return notifier.HelpText
	}
}
