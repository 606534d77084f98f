package template

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// Scheduler ticks every trigger-bearing template in a Library and submits
// the task it produces, generalized from the teacher's Scheduler.Tick
// (due-schedule polling against a repo) into trigger-driven, in-process
// dispatch with no persistence dependency.
type Scheduler struct {
	mu      sync.Mutex
	library *Library
	submit  func(*domain.Task)
	seen    map[string]struct{}

	cron    *cron.Cron
	tickers []*time.Ticker
}

// NewScheduler constructs a Scheduler over lib, calling submit for every
// task a trigger produces.
func NewScheduler(lib *Library, submit func(*domain.Task)) *Scheduler {
	return &Scheduler{
		library: lib,
		submit:  submit,
		seen:    make(map[string]struct{}),
		cron:    cron.New(),
	}
}

// Start wires a wall-clock ticker (cron.Cron for cron triggers, a plain
// time.Ticker for interval triggers) for every template currently in the
// library that carries a Trigger. Templates registered after Start is
// called are not picked up; call Start again after a Stop to re-scan.
func (s *Scheduler) Start() {
	for _, name := range s.library.Names() {
		tmpl, ok := s.library.Get(name)
		if !ok || tmpl.Trigger == nil {
			continue
		}
		name := name
		switch tmpl.Trigger.Kind {
		case domain.TriggerKindCron:
			s.cron.AddFunc(tmpl.Trigger.CronExpression, func() { //nolint:errcheck
				s.fire(name, time.Now())
			})
		case domain.TriggerKindInterval:
			interval := time.Duration(tmpl.Trigger.IntervalSeconds * float64(time.Second))
			ticker := time.NewTicker(interval)
			s.tickers = append(s.tickers, ticker)
			go func(name string, ticker *time.Ticker) {
				for range ticker.C {
					s.fire(name, time.Now())
				}
			}(name, ticker)
		}
	}
	s.cron.Start()
}

// Stop halts every wall-clock ticker started by Start.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	for _, t := range s.tickers {
		t.Stop()
	}
	s.tickers = nil
}

func (s *Scheduler) fire(name string, scheduledTime time.Time) {
	_, _ = s.Tick(name, scheduledTime)
}

// Tick fires templateName's trigger for the given scheduled time: it builds
// a task via CreateTask (tagging template_variables with the scheduled
// time), submits it, and returns it. Concurrent or repeated ticks for the
// same template and scheduled time are deduplicated via an idempotency key
// derived from the two (§4.10) — a duplicate tick returns (nil, nil), not
// an error.
func (s *Scheduler) Tick(templateName string, scheduledTime time.Time) (*domain.Task, error) {
	key := fmt.Sprintf("%s_%d", templateName, scheduledTime.UTC().Unix())

	s.mu.Lock()
	if _, dup := s.seen[key]; dup {
		s.mu.Unlock()
		return nil, nil
	}
	s.seen[key] = struct{}{}
	s.mu.Unlock()

	task, err := s.library.CreateTask(templateName, templateName, map[string]any{
		"scheduled_time": scheduledTime.UTC().Format(time.RFC3339),
	}, CreateTaskOptions{})
	if err != nil {
		return nil, err
	}

	if s.submit != nil {
		s.submit(task)
	}
	return task, nil
}
