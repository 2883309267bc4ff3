package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// SummaryFillScheduler periodically enqueues summary generation tasks for
// books that have none.
type SummaryFillScheduler struct {
	repo       *books.Repository
	taskClient *tasks.Client
	schedule   string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewSummaryFillScheduler creates a new scheduler instance.
func NewSummaryFillScheduler(repo *books.Repository, taskClient *tasks.Client, schedule string) *SummaryFillScheduler {
	return &SummaryFillScheduler{
		repo:       repo,
		taskClient: taskClient,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *SummaryFillScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.taskClient == nil {
		log.Printf("Summary fill scheduler: task queue not available, disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runFill()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Summary fill scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running fill to finish.
func (s *SummaryFillScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Summary fill scheduler: stopped")
}

// RunNow triggers an immediate fill.
func (s *SummaryFillScheduler) RunNow() {
	go s.runFill()
}

// IsRunning returns whether the scheduler is active.
func (s *SummaryFillScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next fill will occur.
func (s *SummaryFillScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runFill enqueues one task per book missing a summary. The queue itself
// deduplicates work: a task for an already-summarized book is a no-op.
func (s *SummaryFillScheduler) runFill() {
	missing, err := s.repo.GetBooksMissingSummary(0)
	if err != nil {
		log.Printf("Summary fill: failed to list books: %v", err)
		return
	}
	if len(missing) == 0 {
		log.Printf("Summary fill: nothing to do")
		return
	}

	enqueued := 0
	for _, book := range missing {
		if _, err := s.taskClient.Add(tasks.GenerateSummaryTask{BookID: book.ID}).Save(); err != nil {
			log.Printf("Summary fill: failed to enqueue book %d: %v", book.ID, err)
			continue
		}
		enqueued++
	}
	log.Printf("Summary fill: enqueued %d of %d books missing summaries", enqueued, len(missing))
}
