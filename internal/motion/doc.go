// Package motion plans and executes TCode movement batches.
//
// The Engine is the single entry point. A Move call passes through four
// stages:
//
//	validate -> queue -> plan -> execute
//
// Validation rejects the whole batch on the first violation. Queueing
// serialises batches: at most one executes while the rest wait FIFO.
// Planning resolves each request into a concrete movement — origin
// value, derived speed/duration, step count — with all axes in a batch
// adopting the longest duration by default so they finish together.
// Execution steps every movement at the tick frequency, encoding each
// tick's values into one combined TCode line, writing it to the
// registered outputs and committing the new values to the registry.
//
// # Key Types
//
//   - Engine: Move / Home / Stop / Sleep, output and default-axis
//     management
//   - Request: one per-axis movement request within a batch
//   - Provider: custom per-tick value callback
//   - Sample: a provider result (number, boolean or no-change)
//   - Output: sink for encoded command lines
//
// # Cancellation
//
// Stop clears the queue atomically. Batches waiting for admission and
// the batch mid-execution observe their id missing at the next tick
// boundary and finish with a false result, never an error. Values
// committed before cancellation are kept.
//
// # Usage
//
//	eng, err := motion.New(reg, motion.Options{Frequency: 50})
//	if err != nil {
//	    return err
//	}
//	eng.AddOutput(port)
//
//	to := axis.Number(0.9)
//	speed := 1.0
//	done, err := eng.Move(ctx, motion.Request{Axis: "stroke", To: &to, Speed: &speed})
package motion
