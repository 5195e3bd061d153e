package service

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// TaskKind names what a deferred task does when it comes due.
type TaskKind string

const (
	TaskAIStep    TaskKind = "ai_step"
	TaskChallenge TaskKind = "challenge_expiry"
)

// Task is one deferred unit of work for a session.
type Task struct {
	Due    time.Time
	GameID string
	Kind   TaskKind
}

type taskKey struct {
	gameID string
	kind   TaskKind
}

type taskHeap []Task

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].Due.Before(h[j].Due) }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)        { *h = append(*h, x.(Task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

// TaskHandler runs a due task.
type TaskHandler func(ctx context.Context, t Task) error

// Scheduler is a deferred-task queue ordered by due time. Time only moves when
// RunDue is called, so tests drive it with a logical clock and the server
// drives it from a ticker. At most one task per (game, kind) is queued; a
// second Schedule for the same pair keeps the earlier due time.
type Scheduler struct {
	mu       sync.Mutex
	tasks    taskHeap
	queued   map[taskKey]time.Time
	interval time.Duration
}

// NewScheduler creates a Scheduler whose Run loop ticks every interval.
func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Scheduler{queued: make(map[taskKey]time.Time), interval: interval}
}

// Schedule queues t unless an earlier task of the same kind is already queued for the game.
func (s *Scheduler) Schedule(t Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := taskKey{t.GameID, t.Kind}
	if due, ok := s.queued[k]; ok && !t.Due.Before(due) {
		return
	}
	s.queued[k] = t.Due
	heap.Push(&s.tasks, t)
}

// Len returns the number of queued tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queued)
}

// Cancel drops every queued task for gameID.
func (s *Scheduler) Cancel(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.queued {
		if k.gameID == gameID {
			delete(s.queued, k)
		}
	}
}

// PopDue removes and returns the tasks due at or before now, earliest first.
func (s *Scheduler) PopDue(now time.Time) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []Task
	for s.tasks.Len() > 0 && !s.tasks[0].Due.After(now) {
		t := heap.Pop(&s.tasks).(Task)
		k := taskKey{t.GameID, t.Kind}
		// Superseded or cancelled entries stay in the heap until popped.
		if d, ok := s.queued[k]; !ok || !d.Equal(t.Due) {
			continue
		}
		delete(s.queued, k)
		due = append(due, t)
	}
	return due
}

// RunDue runs every task due at now and returns how many ran. Handler errors
// are logged and do not stop the batch.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time, handle TaskHandler) int {
	tasks := s.PopDue(now)
	for _, t := range tasks {
		if err := handle(ctx, t); err != nil {
			log.Error().Err(err).Str("gameId", t.GameID).Str("task", string(t.Kind)).Msg("Scheduled task failed")
		}
	}
	return len(tasks)
}

// Run drives the queue from the wall clock until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, handle TaskHandler) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Msg("Scheduler started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Scheduler stopped")
			return
		case now := <-ticker.C:
			s.RunDue(ctx, now, handle)
		}
	}
}
