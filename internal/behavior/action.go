package behavior

import (
	"context"

	"github.com/tcode-works/motioncore/internal/motion"
)

// Engine is the slice of the motion engine behaviors drive.
type Engine interface {
	Move(ctx context.Context, reqs ...motion.Request) (bool, error)
	Sleep(ctx context.Context, seconds float64) error
	Stop()
}

// Func is an arbitrary callback action. It may queue or insert further
// actions on the scheduler it runs under.
type Func func(ctx context.Context, s *Scheduler, eng Engine) error

type actionKind uint8

const (
	actionMove actionKind = iota
	actionSleep
	actionFunc
	actionNested
	actionComplete
)

// Action is one scheduled step of a behavior. Construct actions with
// MoveAction, SleepAction, FuncAction, NestedAction or CompleteAction.
type Action struct {
	kind    actionKind
	moves   []motion.Request
	seconds float64
	fn      Func

	nested *Scheduler
	repeat int
	runs   int
}

// MoveAction performs one movement batch.
func MoveAction(reqs ...motion.Request) Action {
	return Action{kind: actionMove, moves: reqs}
}

// SleepAction pauses the behavior for the given number of seconds.
func SleepAction(seconds float64) Action {
	return Action{kind: actionSleep, seconds: seconds}
}

// FuncAction runs an arbitrary callback.
func FuncAction(fn Func) Action {
	return Action{kind: actionFunc, fn: fn}
}

// NestedAction delegates to a nested scheduler, one of its actions per
// outer perform, until the nested behavior completes. A repeat count
// above one restarts the nested behavior that many times; zero and one
// both mean a single run.
func NestedAction(nested *Scheduler, repeat int) Action {
	if repeat < 1 {
		repeat = 1
	}
	return Action{kind: actionNested, nested: nested, repeat: repeat}
}

// CompleteAction marks the behavior finished. Subsequent performs are
// no-ops.
func CompleteAction() Action {
	return Action{kind: actionComplete}
}
