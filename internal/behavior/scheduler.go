package behavior

import (
	"context"
)

// Generator refills a scheduler's action list. It is called whenever
// the list runs empty, so a generator that always queues something
// yields an endlessly repeating behavior; call Complete (or queue a
// CompleteAction) to end it.
type Generator func(ctx context.Context, s *Scheduler) error

// Scheduler turns a generator into a step-at-a-time behavior: each
// Perform call executes exactly one action, refilling from the
// generator first when the list is empty. Schedulers are driven from a
// single goroutine and are not safe for concurrent use.
type Scheduler struct {
	generate Generator
	actions  []Action
	complete bool
}

// NewScheduler creates a scheduler around a generator.
func NewScheduler(generate Generator) (*Scheduler, error) {
	if generate == nil {
		return nil, ErrNilGenerator
	}
	return &Scheduler{generate: generate}, nil
}

// Queue appends an action to the end of the list.
func (s *Scheduler) Queue(a Action) {
	s.actions = append(s.actions, a)
}

// Insert places an action at the front of the list, before anything
// already queued.
func (s *Scheduler) Insert(a Action) {
	s.actions = append([]Action{a}, s.actions...)
}

// Complete marks the behavior finished.
func (s *Scheduler) Complete() {
	s.complete = true
}

// Completed reports whether the behavior has finished.
func (s *Scheduler) Completed() bool {
	return s.complete
}

// reset returns the scheduler to its initial state so a nested run can
// start over.
func (s *Scheduler) reset() {
	s.actions = nil
	s.complete = false
}

// Perform executes the next action. When the list is empty the
// generator runs first; a generator that produces nothing is an error.
// Performing a completed scheduler is a no-op.
//
// A cancelled movement is not an error here: the driving loop decides
// what cancellation means via its own context.
func (s *Scheduler) Perform(ctx context.Context, eng Engine) error {
	if s.complete {
		return nil
	}

	if len(s.actions) == 0 {
		if err := s.generate(ctx, s); err != nil {
			return err
		}
		if len(s.actions) == 0 && !s.complete {
			return ErrNoActions
		}
		if s.complete {
			return nil
		}
	}

	a := s.actions[0]
	s.actions = s.actions[1:]

	switch a.kind {
	case actionMove:
		_, err := eng.Move(ctx, a.moves...)
		return err
	case actionSleep:
		return eng.Sleep(ctx, a.seconds)
	case actionFunc:
		return a.fn(ctx, s, eng)
	case actionNested:
		return s.performNested(ctx, a, eng)
	case actionComplete:
		s.complete = true
		return nil
	default:
		return nil
	}
}

// performNested runs one step of a nested behavior and re-inserts the
// action while it still has work left.
func (s *Scheduler) performNested(ctx context.Context, a Action, eng Engine) error {
	if err := a.nested.Perform(ctx, eng); err != nil {
		return err
	}
	if a.nested.Completed() {
		a.runs++
		if a.runs >= a.repeat {
			return nil
		}
		a.nested.reset()
	}
	s.Insert(a)
	return nil
}
