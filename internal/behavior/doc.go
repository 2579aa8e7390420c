// Package behavior layers repeatable action scripts on top of the
// motion engine.
//
// A Scheduler wraps a Generator. Each Perform call executes exactly one
// action — a movement batch, a sleep, a callback, a nested behavior or
// completion — refilling the action list from the generator when it
// runs empty. Because the generator is re-invoked on every refill, a
// generator that always queues actions produces an endlessly repeating
// behavior; queueing a CompleteAction (or calling Complete) ends it.
//
// The Runner drives one behavior at a time on its own goroutine.
// Starting a new behavior preempts the current one: its context is
// cancelled and the engine queue is stopped, so the old behavior's
// in-flight movement returns as cancelled rather than running to
// completion. Action errors are logged and end the behavior; they never
// crash the process.
//
// # Usage
//
//	stroke, _ := behavior.NewScheduler(func(ctx context.Context, s *behavior.Scheduler) error {
//	    up := axis.Number(0.9)
//	    down := axis.Number(0.1)
//	    speed := 1.0
//	    s.Queue(behavior.MoveAction(motion.Request{Axis: "stroke", To: &up, Speed: &speed}))
//	    s.Queue(behavior.MoveAction(motion.Request{Axis: "stroke", To: &down, Speed: &speed}))
//	    return nil
//	})
//
//	runner := behavior.NewRunner(engine, log)
//	runner.Do(ctx, stroke)
package behavior
